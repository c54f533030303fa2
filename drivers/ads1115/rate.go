package ads1115

import (
	"strconv"
	"time"

	"i2cmic-go/x/mathx"
)

// DataRate is the 3-bit rate-selector code written to CONFIG bits 7..5.
type DataRate uint8

const (
	DR8 DataRate = iota
	DR16
	DR32
	DR64
	DR128
	DR250
	DR475
	DR860
)

// Supported conversion rates in samples per second, indexed by DataRate.
var supportedSPS = [...]uint32{8, 16, 32, 64, 128, 250, 475, 860}

const (
	// DefaultSPS replaces a requested rate of zero.
	DefaultSPS uint32 = 128
	// MaxSPS is the fastest rate the converter supports.
	MaxSPS uint32 = 860
	// MinSPS is the slowest rate the converter supports.
	MinSPS uint32 = 8
)

// SPS returns the conversion rate for code r.
func (r DataRate) SPS() uint32 {
	if int(r) >= len(supportedSPS) {
		return 0
	}
	return supportedSPS[r]
}

// Interval returns the tick period for r, rounded to the nearest microsecond.
func (r DataRate) Interval() time.Duration {
	sps := r.SPS()
	if sps == 0 {
		return 0
	}
	return time.Duration(mathx.RoundDiv(uint32(1_000_000), sps)) * time.Microsecond
}

func (r DataRate) String() string {
	if int(r) >= len(supportedSPS) {
		return "DR(" + strconv.Itoa(int(r)) + ")"
	}
	return strconv.Itoa(int(supportedSPS[r])) + "SPS"
}

// DataRateFor returns the code for an exactly supported rate.
func DataRateFor(sps uint32) (DataRate, bool) {
	for i, v := range supportedSPS {
		if v == sps {
			return DataRate(i), true
		}
	}
	return 0, false
}

// Rate is the outcome of negotiating a requested sample rate.
type Rate struct {
	Requested uint32        // as asked for by the caller
	SPS       uint32        // effective rate, always a supported rate
	Code      DataRate      // selector code for SPS
	Interval  time.Duration // tick period, round(1e6/SPS) µs
}

// Negotiate maps a requested rate onto the converter's fixed rate table.
//
// Zero selects DefaultSPS; anything above MaxSPS is clamped. The selected
// code is the smallest supported rate >= the request, or the slowest rate
// when the request is below all of them.
func Negotiate(requested uint32) Rate {
	want := requested
	if want == 0 {
		want = DefaultSPS
	}
	want = mathx.Clamp(want, MinSPS, MaxSPS)

	code := DR860
	for i, v := range supportedSPS {
		if v >= want {
			code = DataRate(i)
			break
		}
	}
	return Rate{
		Requested: requested,
		SPS:       code.SPS(),
		Code:      code,
		Interval:  code.Interval(),
	}
}
