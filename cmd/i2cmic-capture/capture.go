package main

import (
	"errors"
	"fmt"
	"io"

	"i2cmic-go/drivers/ads1115"
	"i2cmic-go/stream"
)

type report struct {
	Frames    uint64
	Samples   uint64
	Corrupt   uint64
	TooLarge  uint64
	SeqGaps   uint64 // missing sequence numbers
	GapFlags  uint64 // frames flagged as following a loss
	Skipped   uint64 // noise bytes between frames
	Rate      uint16
	Min, Max  uint16
	FirstSeq  uint32
	LastSeq   uint32
	haveRange bool
}

func (r *report) observe(f *stream.Frame) {
	if r.Frames == 0 {
		r.FirstSeq = f.Seq
	} else if f.Seq > r.LastSeq+1 {
		r.SeqGaps += uint64(f.Seq - r.LastSeq - 1)
	}
	r.LastSeq = f.Seq
	r.Frames++
	r.Rate = f.Rate
	if f.Flags&stream.FlagGap != 0 {
		r.GapFlags++
	}
	for _, s := range f.Samples {
		if !r.haveRange || s < r.Min {
			r.Min = s
		}
		if !r.haveRange || s > r.Max {
			r.Max = s
		}
		r.haveRange = true
	}
	r.Samples += uint64(len(f.Samples))
}

// capture decodes frames from src until EOF or limit frames (0 means no
// limit). Each sample is written to dump, one per line, as raw counts or
// microvolts at the streaming gain.
func capture(src io.Reader, limit uint64, dump io.Writer, micro bool) (report, error) {
	var rep report
	rd := stream.NewReader(src)
	var f stream.Frame
	for limit == 0 || rep.Frames < limit {
		err := rd.ReadFrame(&f)
		switch {
		case err == nil:
		case errors.Is(err, stream.ErrCorrupt):
			rep.Corrupt++
			continue
		case errors.Is(err, stream.ErrTooLarge):
			rep.TooLarge++
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			rep.Skipped = rd.Skipped
			return rep, nil
		default:
			rep.Skipped = rd.Skipped
			return rep, err
		}
		rep.observe(&f)
		if dump != nil {
			if err := dumpFrame(dump, &f, micro); err != nil {
				return rep, err
			}
		}
	}
	rep.Skipped = rd.Skipped
	return rep, nil
}

func dumpFrame(w io.Writer, f *stream.Frame, micro bool) error {
	gain := ads1115.SamplingSettings(ads1115.DR860).Gain
	for _, s := range f.Samples {
		var err error
		if micro {
			_, err = fmt.Fprintln(w, ads1115.MicroVolts(s, gain))
		} else {
			_, err = fmt.Fprintln(w, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r report) String() string {
	s := fmt.Sprintf("frames=%d samples=%d rate=%d seq=%d..%d missing=%d flagged=%d corrupt=%d oversized=%d noise=%dB",
		r.Frames, r.Samples, r.Rate, r.FirstSeq, r.LastSeq, r.SeqGaps, r.GapFlags, r.Corrupt, r.TooLarge, r.Skipped)
	if r.haveRange {
		s += fmt.Sprintf(" range=%d..%d", r.Min, r.Max)
	}
	return s
}
