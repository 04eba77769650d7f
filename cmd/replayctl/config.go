package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/telemctl/internal/signal"
)

type overridesFile struct {
	FrontSprocketTeeth float64 `toml:"front_sprocket_teeth"`
	RearSprocketTeeth  float64 `toml:"rear_sprocket_teeth"`
	WheelDiameterIn    float64 `toml:"wheel_diameter_in"`
}

// loadOverrides layers optional drive-constant overrides on top of the
// defaults; only keys actually present in the file take effect.
func loadOverrides(path string, base signal.DriveConfig) (signal.DriveConfig, error) {
	var raw overridesFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return signal.DriveConfig{}, fmt.Errorf("load overrides: %w", err)
	}

	cfg := base
	if meta.IsDefined("front_sprocket_teeth") {
		cfg.FrontSprocketTeeth = raw.FrontSprocketTeeth
	}
	if meta.IsDefined("rear_sprocket_teeth") {
		cfg.RearSprocketTeeth = raw.RearSprocketTeeth
	}
	if meta.IsDefined("wheel_diameter_in") {
		cfg.WheelDiameterIn = raw.WheelDiameterIn
	}

	if cfg.FrontSprocketTeeth <= 0 || cfg.RearSprocketTeeth <= 0 || cfg.WheelDiameterIn <= 0 {
		return signal.DriveConfig{}, fmt.Errorf("overrides: drive constants must be positive")
	}
	return cfg, nil
}
