package stream

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Writer encodes frames onto an io.Writer, one Write call per frame.
type Writer struct {
	w   io.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteFrame encodes f and writes it in a single call.
func (w *Writer) WriteFrame(f Frame) error {
	var err error
	w.buf, err = AppendFrame(w.buf[:0], f)
	if err != nil {
		return err
	}
	_, err = w.w.Write(w.buf)
	return err
}

// Reader decodes frames from a byte stream that may contain noise or
// truncated frames. It scans for the magic, then checks version, length
// and CRC. On a bad frame it reports ErrCorrupt or ErrTooLarge and resumes
// scanning at the byte after the magic.
type Reader struct {
	br *bufio.Reader
	// Skipped counts bytes discarded while hunting for the magic.
	Skipped uint64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, Len(MaxSamples)+64)}
}

// ReadFrame decodes the next frame into f, reusing f.Samples. It returns
// io.EOF at a clean end of input and io.ErrUnexpectedEOF inside a frame.
func (r *Reader) ReadFrame(f *Frame) error {
	if err := r.sync(); err != nil {
		return err
	}
	// Magic consumed; peek the rest of the header.
	hdr, err := r.br.Peek(HeaderLen - 2)
	if err != nil {
		return unexpected(err)
	}
	if hdr[0] != Version {
		return ErrCorrupt
	}
	n := int(binary.BigEndian.Uint16(hdr[8:10]))
	if n > MaxSamples {
		return ErrTooLarge
	}
	body, err := r.br.Peek(Len(n) - 2)
	if err != nil {
		return unexpected(err)
	}
	end := len(body) - TrailerLen
	if CRC16(body[:end]) != binary.BigEndian.Uint16(body[end:]) {
		return ErrCorrupt
	}

	f.Flags = body[1]
	f.Seq = binary.BigEndian.Uint32(body[2:6])
	f.Rate = binary.BigEndian.Uint16(body[6:8])
	if cap(f.Samples) < n {
		f.Samples = make([]uint16, n)
	}
	f.Samples = f.Samples[:n]
	for i := range f.Samples {
		f.Samples[i] = binary.BigEndian.Uint16(body[10+2*i:])
	}
	_, err = r.br.Discard(len(body))
	return err
}

// sync consumes bytes up to and including the next magic pair.
func (r *Reader) sync() error {
	prev := -1
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if err == io.EOF && prev == Magic0 {
				return io.ErrUnexpectedEOF
			}
			if prev >= 0 {
				r.Skipped++
			}
			return err
		}
		if prev == Magic0 && b == Magic1 {
			return nil
		}
		if prev >= 0 {
			r.Skipped++
		}
		prev = int(b)
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
