//go:build rp2040 || rp2350

package platform

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"i2cmic-go/drivers/i2cmic"
	"i2cmic-go/errcode"
)

// I2C returns the hardware block named id ("i2c0" or "i2c1").
func I2C(id string) (*machine.I2C, error) {
	switch id {
	case "i2c0":
		return machine.I2C0, nil
	case "i2c1":
		return machine.I2C1, nil
	}
	return nil, errcode.New(errcode.UnknownBus, "platform.i2c", id)
}

// I2CSetup returns the bus setup hook for hw: both pins in I²C function
// mode, then the block at the requested frequency.
func I2CSetup(hw *machine.I2C) i2cmic.BusSetup {
	return func(sdaPin, sclPin uint8, hz uint32) error {
		sda := machine.Pin(sdaPin)
		scl := machine.Pin(sclPin)
		sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
		scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
		return hw.Configure(machine.I2CConfig{
			SCL:       scl,
			SDA:       sda,
			Frequency: hz,
		})
	}
}

// UART configures and returns the uartx port named id ("uart0" or "uart1").
// Zero baud keeps the uartx default.
func UART(id string, baud uint32, tx, rx uint8) (*uartx.UART, error) {
	var hw *uartx.UART
	switch id {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return nil, errcode.New(errcode.UnknownBus, "platform.uart", id)
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	}); err != nil {
		return nil, errcode.Wrap(errcode.BusError, "platform.uart", err)
	}
	return hw, nil
}
