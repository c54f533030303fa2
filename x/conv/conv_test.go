package conv

import "testing"

func TestAppendUint(t *testing.T) {
	cases := map[uint64]string{0: "0", 7: "7", 860: "860", 18446744073709551615: "18446744073709551615"}
	for n, want := range cases {
		if got := string(AppendUint([]byte("x"), n)); got != "x"+want {
			t.Fatalf("AppendUint(%d) = %q", n, got)
		}
	}
	if Utoa(1163) != "1163" {
		t.Fatal("Utoa")
	}
}

func TestAppendHex16(t *testing.T) {
	if got := string(AppendHex16(nil, 0x42E3)); got != "0x42E3" {
		t.Fatalf("got %q", got)
	}
	if got := string(AppendHex16(nil, 0x000A)); got != "0x000A" {
		t.Fatalf("got %q", got)
	}
}
