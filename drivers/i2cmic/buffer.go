package i2cmic

// ring is the fixed-capacity Sample Buffer. cursor is the next index to
// write; [cursor, cap) then [0, cursor) runs oldest to newest.
type ring struct {
	samples []uint16
	cursor  int
}

// newRing allocates the buffer. Callers bound capacity by MaxBufferSize;
// that bound is the only allocation guard.
func newRing(capacity int) *ring {
	return &ring{samples: make([]uint16, capacity)}
}

// put stores v at the cursor and advances it. It reports true when the
// cursor wrapped to zero, i.e. a full cycle has been written.
func (r *ring) put(v uint16) bool {
	r.samples[r.cursor] = v
	r.cursor++
	if r.cursor == len(r.samples) {
		r.cursor = 0
		return true
	}
	return false
}

// unrotate copies len(dst) samples starting at the cursor, wrapping through
// index 0. len(dst) must not exceed the capacity.
func (r *ring) unrotate(dst []uint16) {
	n := copy(dst, r.samples[r.cursor:])
	copy(dst[n:], r.samples[:r.cursor])
}
