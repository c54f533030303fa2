package ads1115

import (
	"i2cmic-go/errcode"

	"tinygo.org/x/drivers"
)

// Device represents an ADS1115 on an I²C bus. It holds no sampling state;
// each method is one bus transaction.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided.
type Device struct {
	bus  drivers.I2C
	addr uint16

	// Fixed buffers to avoid per-call heap allocations on the tick path.
	w [ConfigWriteLen]byte
	r [ConversionReadLen]byte
}

// New binds a Device to bus at addr. Zero addr selects AddressDefault.
// The bus must already be configured; New does not touch the device.
func New(bus drivers.I2C, addr uint16) *Device {
	if addr == 0 {
		addr = AddressDefault
	}
	return &Device{bus: bus, addr: addr}
}

// Address returns the 7-bit bus address.
func (d *Device) Address() uint16 { return d.addr }

// ReadConversion reads the latest conversion result verbatim.
func (d *Device) ReadConversion() (uint16, error) {
	w := AppendConversionRead(d.w[:0])
	if err := d.bus.Tx(d.addr, w, d.r[:]); err != nil {
		return 0, &errcode.E{C: errcode.BusError, Op: "ads1115.read", Err: err}
	}
	return DecodeConversion(d.r[:])
}

// WriteConfig writes s to the CONFIG register.
func (d *Device) WriteConfig(s Settings) error {
	w, err := AppendConfigWrite(d.w[:0], s)
	if err != nil {
		return err
	}
	if err := d.bus.Tx(d.addr, w, nil); err != nil {
		return &errcode.E{C: errcode.BusError, Op: "ads1115.configure", Err: err}
	}
	return nil
}

// ReadConfig reads back the raw CONFIG register.
func (d *Device) ReadConfig() (uint16, error) {
	d.w[0] = regConfig
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:]); err != nil {
		return 0, &errcode.E{C: errcode.BusError, Op: "ads1115.read_config", Err: err}
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}
