// Package ads1115 provides register constants, the data-rate negotiator and a
// pure codec for the ADS1115 16-bit I²C ADC, plus a thin Device that runs the
// codec's transactions over a tinygo drivers.I2C bus.
package ads1115

const (
	// 7-bit I2C address with ADDR tied to GND.
	AddressDefault = 0x48

	// Register pointer values.
	regConversion = 0x00 // R, 16-bit two's complement result
	regConfig     = 0x01 // R/W
	regLoThresh   = 0x02 // R/W (comparator, unused)
	regHiThresh   = 0x03 // R/W (comparator, unused)

	// --- CONFIG register (0x01) bit layout ---
	cfgOSShift   = 15 // operational status / single-shot start
	cfgMuxShift  = 12 // bits 14..12
	cfgMuxMask   = 0x7
	cfgPGAShift  = 9 // bits 11..9
	cfgPGAMask   = 0x7
	cfgModeShift = 8 // bit 8, 0 = continuous
	cfgDRShift   = 5 // bits 7..5
	cfgDRMask    = 0x7
	cfgCompMode  = 4 // bit 4, comparator mode
	cfgCompPol   = 3 // bit 3, ALERT polarity
	cfgCompLat   = 2 // bit 2, latching comparator
	cfgCompQueue = 0 // bits 1..0, 0b11 disables the comparator
	cfgQueueMask = 0x3

	compQueueDisable = 0x3
)

// Mux selects the input multiplexer setting (bits 14..12).
type Mux uint8

const (
	MuxDiffAIN0AIN1 Mux = iota // AIN0 - AIN1 (power-on default)
	MuxDiffAIN0AIN3
	MuxDiffAIN1AIN3
	MuxDiffAIN2AIN3
	MuxAIN0 // AIN0 - GND
	MuxAIN1
	MuxAIN2
	MuxAIN3
)

// Gain selects the programmable gain amplifier full-scale range (bits 11..9).
type Gain uint8

const (
	Gain6144mV Gain = iota // ±6.144 V
	Gain4096mV             // ±4.096 V
	Gain2048mV             // ±2.048 V (power-on default)
	Gain1024mV             // ±1.024 V
	Gain512mV              // ±0.512 V
	Gain256mV              // ±0.256 V; codes 6 and 7 alias this range
)

// FullScaleMilliVolts returns the positive full-scale input for g.
func (g Gain) FullScaleMilliVolts() int32 {
	switch g {
	case Gain6144mV:
		return 6144
	case Gain4096mV:
		return 4096
	case Gain2048mV:
		return 2048
	case Gain1024mV:
		return 1024
	case Gain512mV:
		return 512
	default:
		return 256
	}
}

// Mode selects continuous or single-shot conversion (bit 8).
type Mode uint8

const (
	ModeContinuous Mode = 0
	ModeSingleShot Mode = 1
)
