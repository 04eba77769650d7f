package signal

// Device IDs on the CAN bridge.
const (
	DeviceBMS      byte = 0x7C
	DeviceBMSAux   byte = 0x7D
	DeviceInverter byte = 0xA5
)

// Signal names. The derived pair is computed from raw_rpm at ingest time and
// is not part of the wire registry.
const (
	NameAvgTemp         = "avg_temp"
	NameAvgCellVoltage  = "avg_cell_voltage"
	NamePackVoltage     = "pack_voltage"
	NamePackSOC         = "pack_SOC"
	NameIsCharging      = "is_charging"
	NameLowCellVoltage  = "low_cell_voltage"
	NameHighCellVoltage = "high_cell_voltage"
	NameMaxCellTemp     = "max_cell_temp"
	NameDTC1            = "DTC1"
	NameRawRPM          = "raw_rpm"

	NameRPMSpeed = "rpm_speed"
	NameSpeedMPH = "speedMPH"
)

// Key identifies one signal on the wire.
type Key struct {
	DeviceID byte
	SubID    byte
}

// Registry is the fixed lookup table from wire key to signal spec. It is
// built once at start and never mutated afterwards.
type Registry struct {
	specs map[Key]Spec
}

// NewRegistry returns the registry for the vehicle's wire contract.
func NewRegistry() *Registry {
	return &Registry{specs: map[Key]Spec{
		{DeviceBMS, 0}:      {Name: NameAvgTemp, Kind: KindInt, Decode: decodeAvgTemp},
		{DeviceBMS, 1}:      {Name: NameAvgCellVoltage, Kind: KindDouble, Decode: decodeAvgCellVoltage},
		{DeviceBMS, 2}:      {Name: NamePackVoltage, Kind: KindDouble, Decode: decodePackVoltage},
		{DeviceBMS, 3}:      {Name: NamePackSOC, Kind: KindDouble, Decode: decodePackSOC},
		{DeviceBMS, 4}:      {Name: NameIsCharging, Kind: KindBool, Decode: decodeIsCharging},
		{DeviceBMSAux, 0}:   {Name: NameLowCellVoltage, Kind: KindDouble, Decode: decodeLowCellVoltage},
		{DeviceBMSAux, 1}:   {Name: NameHighCellVoltage, Kind: KindDouble, Decode: decodeHighCellVoltage},
		{DeviceBMSAux, 2}:   {Name: NameMaxCellTemp, Kind: KindInt, Decode: decodeMaxCellTemp},
		{DeviceBMSAux, 3}:   {Name: NameDTC1, Kind: KindInt, Decode: decodeDTC1},
		{DeviceInverter, 0}: {Name: NameRawRPM, Kind: KindUint16, Decode: decodeRawRPM},
	}}
}

// Lookup resolves a wire key. The second return is false for unknown keys;
// callers count and drop those rather than aborting ingestion.
func (r *Registry) Lookup(deviceID, subID byte) (Spec, bool) {
	spec, ok := r.specs[Key{DeviceID: deviceID, SubID: subID}]
	return spec, ok
}

// Names returns every registered signal name plus the derived series, for
// exporters that need the full name space up front.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.specs)+2)
	for _, spec := range r.specs {
		out = append(out, spec.Name)
	}
	out = append(out, NameRPMSpeed, NameSpeedMPH)
	return out
}
