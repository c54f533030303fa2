package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"ok":                OK,
		"busy":              Busy,
		"invalid_params":    InvalidParams,
		"not_ready":         NotReady,
		"no_memory":         NoMemory,
		"timer_unavailable": TimerUnavailable,
		"bus_error":         BusError,
		"unknown_bus":       UnknownBus,
		"unknown_board":     UnknownBoard,
		"timeout":           Timeout,
		"error":             Error,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestOfUnwrapsWrappers(t *testing.T) {
	cause := errors.New("nack")
	err := Wrap(BusError, "ads1115.read", cause)

	if Of(err) != BusError {
		t.Fatalf("Of(direct) = %q", Of(err))
	}
	outer := fmt.Errorf("tick: %w", err)
	if Of(outer) != BusError {
		t.Fatalf("Of(wrapped) = %q", Of(outer))
	}
	if !errors.Is(outer, cause) {
		t.Fatal("cause lost through Unwrap")
	}
	if !errors.Is(outer, BusError) {
		t.Fatal("errors.Is should match the code")
	}
	if Of(nil) != OK || Of(errors.New("x")) != Error || Of(Busy) != Busy {
		t.Fatal("Of fallbacks")
	}
	if Wrap(BusError, "op", nil) != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
}

func TestEError(t *testing.T) {
	e := New(InvalidParams, "i2cmic.read", "len 9 > capacity 4")
	if got := e.Error(); got != "i2cmic.read: invalid_params: len 9 > capacity 4" {
		t.Fatalf("Error() = %q", got)
	}
	w := &E{C: BusError, Err: errors.New("nack")}
	if got := w.Error(); got != "bus_error: nack" {
		t.Fatalf("Error() = %q", got)
	}
}
