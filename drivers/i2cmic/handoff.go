package i2cmic

import "sync/atomic"

// Block is one completed buffer cycle handed to the consumer. The consumer
// owns Samples until Release; the producer never writes a held block.
type Block struct {
	// Seq counts completed cycles since Init, starting at 1. Dropped cycles
	// use up their number, so a jump means cycles were lost.
	Seq uint32
	// Samples holds the cycle oldest-first.
	Samples []uint16

	home chan<- *Block
	held atomic.Bool
}

// Release returns the block to the producer's free list. Further calls
// are ignored.
func (b *Block) Release() {
	if b == nil || !b.held.CompareAndSwap(true, false) {
		return
	}
	select {
	case b.home <- b:
	default:
	}
}

// handoff moves filled blocks from the tick context to the consumer
// without blocking the tick. Both queues hold every block, so sends
// only fail if the free list is empty.
type handoff struct {
	free  chan *Block
	ready chan *Block
	seq   uint32
}

func newHandoff(spares, size int) *handoff {
	h := &handoff{
		free:  make(chan *Block, spares),
		ready: make(chan *Block, spares),
	}
	for i := 0; i < spares; i++ {
		h.free <- &Block{Samples: make([]uint16, size), home: h.free}
	}
	return h
}

// offer copies cycle into a spare block and queues it. It reports false
// when no spare is free and the cycle was dropped.
func (h *handoff) offer(cycle []uint16) bool {
	h.seq++
	var b *Block
	select {
	case b = <-h.free:
	default:
		return false
	}
	copy(b.Samples, cycle)
	b.Seq = h.seq
	b.held.Store(true)
	select {
	case h.ready <- b:
		return true
	default:
		b.held.Store(false)
		h.free <- b
		return false
	}
}
