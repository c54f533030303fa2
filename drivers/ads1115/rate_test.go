package ads1115

import (
	"testing"
	"time"
)

func TestNegotiateTable(t *testing.T) {
	cases := []struct {
		req  uint32
		sps  uint32
		code DataRate
	}{
		{0, 128, DR128}, // default
		{1, 8, DR8},     // below the slowest rate
		{7, 8, DR8},
		{8, 8, DR8},
		{9, 16, DR16},
		{30, 32, DR32},
		{32, 32, DR32},
		{100, 128, DR128},
		{128, 128, DR128},
		{129, 250, DR250},
		{476, 860, DR860},
		{860, 860, DR860},
		{1000, 860, DR860}, // clamped
		{48000, 860, DR860},
	}
	for _, c := range cases {
		r := Negotiate(c.req)
		if r.SPS != c.sps || r.Code != c.code || r.Requested != c.req {
			t.Fatalf("Negotiate(%d) = %+v, want sps=%d code=%d", c.req, r, c.sps, c.code)
		}
	}
}

func TestNegotiateSmallestSupportedAtOrAbove(t *testing.T) {
	for req := uint32(1); req <= MaxSPS; req++ {
		r := Negotiate(req)
		if r.SPS < req && req >= MinSPS {
			t.Fatalf("req %d: effective %d below request", req, r.SPS)
		}
		if r.Code > 0 && DataRate(r.Code-1).SPS() >= req {
			t.Fatalf("req %d: code %d is not the smallest rate >= request", req, r.Code)
		}
	}
}

func TestIntervalRounding(t *testing.T) {
	cases := map[DataRate]time.Duration{
		DR8:   125000 * time.Microsecond,
		DR128: 7813 * time.Microsecond,
		DR475: 2105 * time.Microsecond,
		DR860: 1163 * time.Microsecond,
	}
	for dr, want := range cases {
		if got := dr.Interval(); got != want {
			t.Fatalf("%v interval = %v, want %v", dr, got, want)
		}
	}
	if Negotiate(0).Interval != 7813*time.Microsecond {
		t.Fatalf("default interval = %v", Negotiate(0).Interval)
	}
	if DataRate(9).Interval() != 0 || DataRate(9).SPS() != 0 {
		t.Fatal("out-of-range code should have no rate")
	}
}

func TestDataRateLookup(t *testing.T) {
	if dr, ok := DataRateFor(475); !ok || dr != DR475 {
		t.Fatalf("DataRateFor(475) = %v, %v", dr, ok)
	}
	if _, ok := DataRateFor(100); ok {
		t.Fatal("100 SPS is not a supported rate")
	}
	if DR860.String() != "860SPS" || DataRate(8).String() != "DR(8)" {
		t.Fatalf("String: %q %q", DR860.String(), DataRate(8).String())
	}
}
