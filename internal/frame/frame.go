package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Size is the fixed on-wire frame length in bytes.
	Size = 16

	// SentinelStart and SentinelEnd bracket every valid frame.
	SentinelStart byte = 0xBB
	SentinelEnd   byte = 0x9A

	// PayloadLen is the fixed data region length (frame bytes 7..14).
	PayloadLen = 8
)

var (
	ErrShortBlock      = errors.New("frame: block shorter than frame size")
	ErrInvalidSentinel = errors.New("frame: invalid sentinel")
)

// Frame is one decoded wire unit from the controller.
//
// Layout:
//
//	[0]     start sentinel (0xBB)
//	[1]     device id
//	[2]     sub id
//	[3:7]   timestamp, ms since device enable, big-endian
//	[7:15]  payload, interpretation owned by the signal layer
//	[15]    end sentinel (0x9A)
type Frame struct {
	DeviceID    byte
	SubID       byte
	TimestampMS uint32
	Payload     [PayloadLen]byte
}

// Decode validates one fixed-size block and extracts the frame fields.
// It is a pure function over its input; the block is not retained.
func Decode(block []byte) (Frame, error) {
	if len(block) < Size {
		return Frame{}, fmt.Errorf("%w: %d bytes", ErrShortBlock, len(block))
	}
	if block[0] != SentinelStart || block[Size-1] != SentinelEnd {
		return Frame{}, fmt.Errorf("%w: start=0x%02X end=0x%02X",
			ErrInvalidSentinel, block[0], block[Size-1])
	}
	f := Frame{
		DeviceID:    block[1],
		SubID:       block[2],
		TimestampMS: binary.BigEndian.Uint32(block[3:7]),
	}
	copy(f.Payload[:], block[7:15])
	return f, nil
}
