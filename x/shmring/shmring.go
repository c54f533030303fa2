// Package shmring is a single-producer, single-consumer byte ring with
// edge-triggered readiness channels. Indices are monotonic uint32 counters;
// the size must be a power of two.
package shmring

import "sync/atomic"

type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index
	wr   atomic.Uint32 // producer index

	readable chan struct{} // empty -> non-empty
	writable chan struct{} // full -> non-full
}

// New allocates a ring of size bytes. It panics unless size is a power of
// two >= 2.
func New(size int) *Ring {
	if !IsPow2(size) || size < 2 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
		writable: make(chan struct{}, 1),
	}
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n int) bool { return n > 0 && n&(n-1) == 0 }

// CeilPow2 rounds n up to a power of two, with a minimum of 2.
func CeilPow2(n int) int {
	p := 2
	for p < n {
		p <<= 1
	}
	return p
}

func (r *Ring) Size() int { return len(r.buf) }

func (r *Ring) Available() int { return int(r.wr.Load() - r.rd.Load()) }

func (r *Ring) Space() int { return len(r.buf) - r.Available() }

// ---- Producer ----

// WriteAcquire returns the free space as up to two spans. Fill p1 before p2.
func (r *Ring) WriteAcquire() (p1, p2 []byte) {
	rd, wr := r.rd.Load(), r.wr.Load()
	free := uint32(len(r.buf)) - (wr - rd)
	return r.spans(wr, free)
}

// WriteCommit publishes n bytes written into the acquired spans.
func (r *Ring) WriteCommit(n int) {
	if n <= 0 {
		return
	}
	wr := r.wr.Load()
	r.wr.Store(wr + uint32(n))
	// Store before load; pairs with ReadRelease.
	if r.rd.Load() == wr {
		notify(r.readable)
	}
}

// TryWriteFrom copies as much of src as fits and returns the count.
func (r *Ring) TryWriteFrom(src []byte) int {
	p1, p2 := r.WriteAcquire()
	n := copy(p1, src)
	n += copy(p2, src[n:])
	r.WriteCommit(n)
	return n
}

// TryWriteAll writes all of src or nothing.
func (r *Ring) TryWriteAll(src []byte) bool {
	if len(src) > r.Space() {
		return false
	}
	r.TryWriteFrom(src)
	return true
}

// ---- Consumer ----

// ReadAcquire returns the readable bytes as up to two spans in order.
func (r *Ring) ReadAcquire() (p1, p2 []byte) {
	rd, wr := r.rd.Load(), r.wr.Load()
	return r.spans(rd, wr-rd)
}

// ReadRelease frees n bytes at the head.
func (r *Ring) ReadRelease(n int) {
	if n <= 0 {
		return
	}
	rd := r.rd.Load()
	r.rd.Store(rd + uint32(n))
	if r.wr.Load()-rd == uint32(len(r.buf)) {
		notify(r.writable)
	}
}

// TryReadInto copies up to len(dst) bytes out of the ring.
func (r *Ring) TryReadInto(dst []byte) int {
	p1, p2 := r.ReadAcquire()
	n := copy(dst, p1)
	n += copy(dst[n:], p2)
	r.ReadRelease(n)
	return n
}

func (r *Ring) Readable() <-chan struct{} { return r.readable }
func (r *Ring) Writable() <-chan struct{} { return r.writable }

func (r *Ring) spans(at, n uint32) (p1, p2 []byte) {
	if n == 0 {
		return nil, nil
	}
	i := at & r.mask
	first := uint32(len(r.buf)) - i
	if first >= n {
		return r.buf[i : i+n], nil
	}
	return r.buf[i:], r.buf[:n-first]
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
