package signal

import "math"

const (
	inchesPerMile  = 63360.0
	minutesPerHour = 60.0
)

// DriveConfig holds the physical constants for converting motor speed to
// road speed. Values come from process configuration, not this package.
type DriveConfig struct {
	FrontSprocketTeeth float64
	RearSprocketTeeth  float64
	WheelDiameterIn    float64
}

// DefaultDriveConfig matches the current drivetrain: 16T front, 50T rear
// (Talon TR371 520), 17" wheel with tire at ~25.7".
func DefaultDriveConfig() DriveConfig {
	return DriveConfig{
		FrontSprocketTeeth: 16.0,
		RearSprocketTeeth:  50.0,
		WheelDiameterIn:    25.7,
	}
}

// MPH converts signed motor rpm to road speed in miles per hour through the
// chain reduction and wheel circumference.
func (d DriveConfig) MPH(rpmSpeed int16) float64 {
	gearRatio := d.FrontSprocketTeeth / d.RearSprocketTeeth
	wheelRPM := float64(rpmSpeed) * gearRatio
	circumferenceMiles := math.Pi * d.WheelDiameterIn / inchesPerMile
	return wheelRPM * circumferenceMiles * minutesPerHour
}
