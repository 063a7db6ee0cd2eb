// Command pngdump decodes a PNG file with the streampng decoder and
// re-encodes it with the standard library, mainly as a way to exercise
// the decoder against real files end to end.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	stdpng "image/png"
	"log"
	"os"

	png "github.com/aurorafox/streampng"
)

type commandOptions struct {
	Input  string
	Output string
	Strict bool
}

var opts commandOptions

func init() {
	flag.StringVar(&opts.Input, "i", "", "set source PNG `input` file")
	flag.StringVar(&opts.Output, "o", "", "set re-encoded PNG `output` file")
	flag.BoolVar(&opts.Strict, "strict", false, "enable strict signature and chunk-order checks")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `pngdump: decode a PNG with streampng and re-encode it
Usage: pngdump -i input.png -o output.png

Options:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if opts.Input == "" || opts.Output == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := dump(opts.Input, opts.Output, opts.Strict); err != nil {
		log.Fatal(err)
	}
}

// nrgbaSink adapts image.NRGBA as a png.PixelSink, the bridge between
// this package's streaming decode and the standard library's encoder.
type nrgbaSink struct {
	img *image.NRGBA
}

func (s nrgbaSink) SetRGBA(x, y int, r, g, b, a uint8) {
	s.img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
}

func dump(input, output string, strict bool) error {
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := png.NewDecoder(f, png.Options{Strict: strict})
	var img *image.NRGBA
	hdr, meta, err := dec.Decode(func(hdr png.Header) (png.PixelSink, error) {
		img = image.NewNRGBA(image.Rect(0, 0, hdr.Width, hdr.Height))
		return nrgbaSink{img: img}, nil
	})
	if err != nil {
		return err
	}
	log.Printf("decoded %dx%d color-type=%d interlace=%d text-entries=%d",
		hdr.Width, hdr.Height, hdr.ColorType, hdr.Interlace, len(meta.Text))
	if meta.Physical != nil {
		x, y := meta.Physical.DPI()
		log.Printf("pHYs: %.1f x %.1f dpi", x, y)
	}

	out, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	return stdpng.Encode(out, img)
}

