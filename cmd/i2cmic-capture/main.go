//go:build !rp2040 && !rp2350

// Command i2cmic-capture reads the framed sample stream from a serial port
// or stdin, verifies it and reports statistics.
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"

	"i2cmic-go/host/serial"
)

var (
	device = flag.String("device", "", "Serial device path (empty reads stdin)")
	baud   = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	count  = flag.Uint64("count", 0, "Stop after this many frames (0 reads to EOF)")
	dump   = flag.String("dump", "", "Write samples to this file, one per line (- for stdout)")
	micro  = flag.Bool("uv", false, "Dump samples as microvolts")
)

func main() {
	flag.Parse()
	log.SetPrefix("i2cmic-capture: ")
	log.SetFlags(0)

	var src io.Reader = os.Stdin
	if *device != "" {
		cfg := serial.DefaultConfig(*device)
		cfg.Baud = *baud
		p, err := serial.Open(cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer p.Close()
		if err := p.Flush(); err != nil {
			log.Print(err)
		}
		src = p
	}

	var out *bufio.Writer
	switch *dump {
	case "":
	case "-":
		out = bufio.NewWriter(os.Stdout)
	default:
		f, err := os.Create(*dump)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = bufio.NewWriter(f)
	}

	var dst io.Writer
	if out != nil {
		dst = out
	}
	rep, err := capture(src, *count, dst, *micro)
	if out != nil {
		if ferr := out.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	log.Print(rep)
	if err != nil {
		log.Fatal(err)
	}
}
