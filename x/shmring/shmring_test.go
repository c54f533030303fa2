package shmring

import (
	"bytes"
	"testing"
)

// partial caps how many bytes one step may move.
type partial struct{ k int }

func (p partial) limit(b []byte) []byte {
	if len(b) > p.k {
		return b[:p.k]
	}
	return b
}

func TestOrderAcrossWrapWithPartialProgress(t *testing.T) {
	r := New(64)
	prod := partial{k: 7}

	const N = 2000
	src := make([]byte, N)
	for i := range src {
		src[i] = byte(i)
	}

	p := src
	dst := make([]byte, 0, N)
	for len(dst) < N {
		if len(p) > 0 {
			p = p[r.TryWriteFrom(prod.limit(p)):]
		}
		var tmp [17]byte
		n := r.TryReadInto(tmp[:])
		dst = append(dst, tmp[:n]...)
	}
	if !bytes.Equal(dst, src) {
		t.Fatal("stream reordered across wrap")
	}
}

func TestSpans(t *testing.T) {
	r := New(8)
	r.TryWriteFrom([]byte{1, 2, 3, 4, 5, 6})
	r.TryReadInto(make([]byte, 5))
	r.TryWriteFrom([]byte{7, 8, 9, 10})

	p1, p2 := r.ReadAcquire()
	if !bytes.Equal(p1, []byte{6, 7, 8}) || !bytes.Equal(p2, []byte{9, 10}) {
		t.Fatalf("read spans %v %v", p1, p2)
	}
	w1, w2 := r.WriteAcquire()
	if len(w1)+len(w2) != 3 || r.Space() != 3 || r.Available() != 5 {
		t.Fatalf("write spans %d+%d space=%d avail=%d", len(w1), len(w2), r.Space(), r.Available())
	}
	r.ReadRelease(len(p1))
	if got := make([]byte, 8); r.TryReadInto(got) != 2 || got[0] != 9 {
		t.Fatalf("tail = %v", got)
	}
}

func TestTryWriteAll(t *testing.T) {
	r := New(8)
	if !r.TryWriteAll([]byte{1, 2, 3, 4, 5}) {
		t.Fatal("5 bytes should fit")
	}
	if r.TryWriteAll([]byte{6, 7, 8, 9}) {
		t.Fatal("partial write accepted")
	}
	if r.Available() != 5 {
		t.Fatalf("available = %d", r.Available())
	}
}

func TestReadableWritableEdges(t *testing.T) {
	r := New(4)
	select {
	case <-r.Readable():
		t.Fatal("unexpected Readable on empty ring")
	default:
	}
	r.TryWriteFrom([]byte{1, 2, 3, 4})
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable")
	}
	r.TryWriteFrom([]byte{5})
	select {
	case <-r.Readable():
		t.Fatal("Readable fired without an empty edge")
	default:
	}

	r.TryReadInto(make([]byte, 1))
	select {
	case <-r.Writable():
	default:
		t.Fatal("expected Writable after draining a full ring")
	}
}

func TestPow2Helpers(t *testing.T) {
	if CeilPow2(0) != 2 || CeilPow2(3) != 4 || CeilPow2(4096) != 4096 || CeilPow2(4097) != 8192 {
		t.Fatal("CeilPow2")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("New(6) should panic")
		}
	}()
	New(6)
}
