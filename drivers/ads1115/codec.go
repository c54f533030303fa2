package ads1115

import (
	"errors"

	"i2cmic-go/errcode"
)

// Errors returned by the codec.
var (
	ErrShortRead = errors.New("ads1115: short read")
	ErrField     = errors.New("ads1115: config field out of range")
)

// Transaction sizes on the wire.
const (
	ConversionWriteLen = 1 // register pointer
	ConversionReadLen  = 2 // big-endian result
	ConfigWriteLen     = 3 // pointer, high byte, low byte
)

// Settings are the CONFIG register fields the driver controls. The
// comparator is always written disabled.
type Settings struct {
	Mux  Mux
	Gain Gain
	Mode Mode
	Rate DataRate
}

// SamplingSettings returns the fixed configuration used for streaming:
// AIN0 single-ended, ±4.096 V, continuous conversion at dr.
func SamplingSettings(dr DataRate) Settings {
	return Settings{Mux: MuxAIN0, Gain: Gain4096mV, Mode: ModeContinuous, Rate: dr}
}

// Word packs s into the 16-bit CONFIG register value.
func (s Settings) Word() (uint16, error) {
	if s.Mux > cfgMuxMask || s.Gain > cfgPGAMask || s.Mode > 1 || s.Rate > cfgDRMask {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "ads1115.config", Err: ErrField}
	}
	w := uint16(s.Mux)<<cfgMuxShift |
		uint16(s.Gain)<<cfgPGAShift |
		uint16(s.Mode)<<cfgModeShift |
		uint16(s.Rate)<<cfgDRShift |
		compQueueDisable<<cfgCompQueue
	return w, nil
}

// DecodeConfig unpacks a CONFIG register value. Bits outside the fields in
// Settings (OS, comparator) are ignored.
func DecodeConfig(w uint16) Settings {
	return Settings{
		Mux:  Mux((w >> cfgMuxShift) & cfgMuxMask),
		Gain: Gain((w >> cfgPGAShift) & cfgPGAMask),
		Mode: Mode((w >> cfgModeShift) & 1),
		Rate: DataRate((w >> cfgDRShift) & cfgDRMask),
	}
}

// ComparatorDisabled reports whether COMP_QUE in w is 0b11.
func ComparatorDisabled(w uint16) bool {
	return (w>>cfgCompQueue)&cfgQueueMask == compQueueDisable
}

// AppendConfigWrite appends the configuration-write transaction for s to
// dst: {0x01, high, low}.
func AppendConfigWrite(dst []byte, s Settings) ([]byte, error) {
	w, err := s.Word()
	if err != nil {
		return dst, err
	}
	return append(dst, regConfig, byte(w>>8), byte(w)), nil
}

// AppendConversionRead appends the pointer write that precedes a
// 2-byte conversion read.
func AppendConversionRead(dst []byte) []byte {
	return append(dst, regConversion)
}

// DecodeConversion decodes the 2-byte conversion register, high byte first.
func DecodeConversion(b []byte) (uint16, error) {
	if len(b) < ConversionReadLen {
		return 0, ErrShortRead
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// MicroVolts interprets raw as a two's complement conversion result at
// gain g. 0x7FFF maps to +full-scale.
func MicroVolts(raw uint16, g Gain) int32 {
	fs := int64(g.FullScaleMilliVolts()) * 1000
	return int32(int64(int16(raw)) * fs / 32768)
}
