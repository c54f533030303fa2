package serial

import (
	"testing"

	"i2cmic-go/errcode"
)

func TestOpenErrors(t *testing.T) {
	if _, err := Open(nil); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("nil config err = %v", err)
	}
	if _, err := Open(DefaultConfig("/nonexistent/ttyI2CMIC")); errcode.Of(err) != errcode.BusError {
		t.Fatalf("missing device err = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig("/dev/ttyACM0")
	if c.Device != "/dev/ttyACM0" || c.Baud != 115200 || c.ReadTimeout != 0 {
		t.Fatalf("cfg = %+v", c)
	}
}
