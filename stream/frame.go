// Package stream frames completed sample blocks for a byte transport.
//
// Wire layout, all multi-byte fields big-endian:
//
//	0xA5 0x5A | ver | flags | seq u32 | rate u16 | n u16 | n × u16 | crc u16
//
// The CRC covers ver through the last sample.
package stream

import (
	"encoding/binary"
	"errors"
)

const (
	Magic0  = 0xA5
	Magic1  = 0x5A
	Version = 1

	// HeaderLen is the length from the magic through the sample count.
	HeaderLen = 12
	// TrailerLen is the CRC length.
	TrailerLen = 2
	// MaxSamples bounds a single frame.
	MaxSamples = 4096
)

// Frame flags.
const (
	// FlagGap marks that samples were lost (bus errors or dropped cycles)
	// between the previous frame and this one.
	FlagGap uint8 = 1 << iota
)

var (
	ErrTooLarge = errors.New("stream: frame exceeds MaxSamples")
	ErrCorrupt  = errors.New("stream: corrupt frame")
)

// Frame is one block on the wire.
type Frame struct {
	Flags   uint8
	Seq     uint32
	Rate    uint16 // effective samples per second
	Samples []uint16
}

// Len returns the encoded size of a frame carrying n samples.
func Len(n int) int { return HeaderLen + 2*n + TrailerLen }

// AppendFrame appends the encoding of f to dst.
func AppendFrame(dst []byte, f Frame) ([]byte, error) {
	if len(f.Samples) > MaxSamples {
		return dst, ErrTooLarge
	}
	start := len(dst)
	dst = append(dst, Magic0, Magic1, Version, f.Flags)
	dst = binary.BigEndian.AppendUint32(dst, f.Seq)
	dst = binary.BigEndian.AppendUint16(dst, f.Rate)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(f.Samples)))
	for _, s := range f.Samples {
		dst = binary.BigEndian.AppendUint16(dst, s)
	}
	crc := CRC16(dst[start+2:])
	return binary.BigEndian.AppendUint16(dst, crc), nil
}

// CRC16 is the Klipper message checksum (CCITT polynomial, seed 0xFFFF,
// byte-reflected update).
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc)
		b ^= b << 4
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}
