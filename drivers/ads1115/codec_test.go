package ads1115

import (
	"bytes"
	"errors"
	"testing"

	"i2cmic-go/errcode"
)

func TestConfigWordFields(t *testing.T) {
	for code := DR8; code <= DR860; code++ {
		w, err := SamplingSettings(code).Word()
		if err != nil {
			t.Fatalf("code %d: %v", code, err)
		}
		if got := DataRate((w >> 5) & 0x7); got != code {
			t.Fatalf("code %d: bits 7..5 = %d", code, got)
		}
		if (w>>12)&0x7 != 0x4 {
			t.Fatalf("code %d: mux = %#x", code, (w>>12)&0x7)
		}
		if (w>>9)&0x7 != 0x1 {
			t.Fatalf("code %d: pga = %#x", code, (w>>9)&0x7)
		}
		if (w>>8)&1 != 0 {
			t.Fatalf("code %d: mode bit set", code)
		}
		if w&0x3 != 0x3 {
			t.Fatalf("code %d: comparator bits = %#b", code, w&0x3)
		}
		if w&0x801C != 0 {
			t.Fatalf("code %d: stray bits in %#04x", code, w)
		}
	}
}

func TestAppendConfigWrite(t *testing.T) {
	got, err := AppendConfigWrite(nil, SamplingSettings(DR860))
	if err != nil {
		t.Fatal(err)
	}
	// mux 100, pga 001, mode 0, dr 111, comp 00011
	want := []byte{0x01, 0x42, 0xE3}
	if !bytes.Equal(got, want) {
		t.Fatalf("config write = % x, want % x", got, want)
	}

	got, _ = AppendConfigWrite([]byte{0xAA}, SamplingSettings(DR128))
	if !bytes.Equal(got, []byte{0xAA, 0x01, 0x42, 0x83}) {
		t.Fatalf("append keeps prefix: % x", got)
	}
}

func TestConfigWordRejectsOutOfRange(t *testing.T) {
	bad := []Settings{
		{Mux: 8},
		{Gain: 8},
		{Mode: 2},
		{Rate: 8},
	}
	for _, s := range bad {
		_, err := s.Word()
		if !errors.Is(err, ErrField) || errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%+v: err = %v", s, err)
		}
		if out, err := AppendConfigWrite(nil, s); err == nil || len(out) != 0 {
			t.Fatalf("%+v: append should fail without output", s)
		}
	}
}

func TestDecodeConfigInverts(t *testing.T) {
	for mux := Mux(0); mux <= MuxAIN3; mux++ {
		for g := Gain6144mV; g <= 7; g++ {
			for dr := DR8; dr <= DR860; dr++ {
				s := Settings{Mux: mux, Gain: g, Mode: ModeSingleShot, Rate: dr}
				w, err := s.Word()
				if err != nil {
					t.Fatal(err)
				}
				if got := DecodeConfig(w); got != s {
					t.Fatalf("decode(%#04x) = %+v, want %+v", w, got, s)
				}
				if !ComparatorDisabled(w) {
					t.Fatalf("%#04x: comparator enabled", w)
				}
			}
		}
	}
	// Power-on default 0x8583: OS=1, AIN0-AIN1, ±2.048 V, single-shot, 128 SPS.
	s := DecodeConfig(0x8583)
	if s != (Settings{Mux: MuxDiffAIN0AIN1, Gain: Gain2048mV, Mode: ModeSingleShot, Rate: DR128}) {
		t.Fatalf("power-on default decoded as %+v", s)
	}
}

func TestConversionCodec(t *testing.T) {
	if w := AppendConversionRead(nil); !bytes.Equal(w, []byte{0x00}) {
		t.Fatalf("pointer write = % x", w)
	}
	v, err := DecodeConversion([]byte{0x12, 0x34})
	if err != nil || v != 0x1234 {
		t.Fatalf("decode = %#x, %v", v, err)
	}
	v, _ = DecodeConversion([]byte{0xFF, 0xFE})
	if v != 0xFFFE {
		t.Fatalf("decode keeps raw bits: %#x", v)
	}
	if _, err := DecodeConversion([]byte{0x01}); err != ErrShortRead {
		t.Fatalf("short read err = %v", err)
	}
}

func TestMicroVolts(t *testing.T) {
	cases := []struct {
		raw  uint16
		g    Gain
		want int32
	}{
		{0x0000, Gain4096mV, 0},
		{0x4000, Gain4096mV, 2_048_000},
		{0xC000, Gain4096mV, -2_048_000},
		{0x8000, Gain2048mV, -2_048_000},
		{0x0001, Gain256mV, 7}, // 7.8125 µV LSB truncates
	}
	for _, c := range cases {
		if got := MicroVolts(c.raw, c.g); got != c.want {
			t.Fatalf("MicroVolts(%#04x, %d) = %d, want %d", c.raw, c.g, got, c.want)
		}
	}
	if Gain(7).FullScaleMilliVolts() != 256 {
		t.Fatal("gain code 7 aliases ±0.256 V")
	}
}
