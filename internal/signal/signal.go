// Package signal owns the (device_id, sub_id) registry and the byte-to-value
// conversion rules for each named measurement.
//
// The conversions are a hardware-defined wire contract. Most fields pack
// big-endian byte pairs, but raw_rpm is little-endian; the mix is deliberate
// and must not be unified.
package signal

import "github.com/danmuck/telemctl/internal/frame"

// Kind tags the decoded value type of a signal.
type Kind int

const (
	KindInt Kind = iota
	KindDouble
	KindBool
	KindUint16
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindUint16:
		return "uint16"
	default:
		return "unknown"
	}
}

// Value is one decoded measurement value, tagged by Kind.
type Value struct {
	Kind   Kind
	Int    int64
	Double float64
	Bool   bool
	Uint16 uint16
}

// Native returns the value as its natural Go type, for JSON emission.
func (v Value) Native() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindDouble:
		return v.Double
	case KindBool:
		return v.Bool
	case KindUint16:
		return v.Uint16
	default:
		return nil
	}
}

// Int, Double, Bool, and Uint16 construct tagged values.
func Int(n int64) Value      { return Value{Kind: KindInt, Int: n} }
func Double(f float64) Value { return Value{Kind: KindDouble, Double: f} }
func Bool(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func Uint16(n uint16) Value  { return Value{Kind: KindUint16, Uint16: n} }

// Spec describes one registered signal. Decode is total over all payloads;
// once a spec matches there is no further failure mode.
type Spec struct {
	Name   string
	Kind   Kind
	Decode func(p [frame.PayloadLen]byte) Value
}

// Payload byte indices below are 0-based within the 8-byte data region
// (frame bytes 7..14).

func decodeAvgTemp(p [frame.PayloadLen]byte) Value {
	return Int(int64(p[0]))
}

func decodeAvgCellVoltage(p [frame.PayloadLen]byte) Value {
	return Double(float64(uint16(p[1])<<8 | uint16(p[2])) / 10000.0)
}

func decodePackVoltage(p [frame.PayloadLen]byte) Value {
	return Double(float64(uint16(p[3])<<8 | uint16(p[4])) / 100.0)
}

func decodePackSOC(p [frame.PayloadLen]byte) Value {
	return Double(float64(uint16(p[5])<<8 | uint16(p[6])) / 20.0)
}

func decodeIsCharging(p [frame.PayloadLen]byte) Value {
	return Bool(p[0] == 1)
}

func decodeLowCellVoltage(p [frame.PayloadLen]byte) Value {
	return Double(float64(uint16(p[0])<<8 | uint16(p[1])) / 10000.0)
}

func decodeHighCellVoltage(p [frame.PayloadLen]byte) Value {
	return Double(float64(uint16(p[2])<<8 | uint16(p[3])) / 10000.0)
}

func decodeMaxCellTemp(p [frame.PayloadLen]byte) Value {
	return Int(int64(p[4]))
}

func decodeDTC1(p [frame.PayloadLen]byte) Value {
	return Int(int64(uint16(p[6])<<8 | uint16(p[7])))
}

// raw_rpm is little-endian on the wire, unlike every other paired field.
func decodeRawRPM(p [frame.PayloadLen]byte) Value {
	return Uint16(uint16(p[2]) | uint16(p[3])<<8)
}

// RPMSpeed converts the unsigned raw rpm reading to the signed motor speed.
// The cast to int16 is the deliberate unsigned-to-signed reinterpretation of
// the wire value; the controller reports reverse rotation as negative.
func RPMSpeed(rawRPM uint16) int16 {
	return -1 * int16(rawRPM)
}
