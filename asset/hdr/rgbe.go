// Package hdr reads and writes the RGBE (Radiance) high dynamic range image
// container: a shared-exponent byte per pixel, optionally run-length encoded
// per scanline.
//
// http://www.graphics.cornell.edu/online/formats/rgbe/
package hdr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Nexuapex/Akuna/types"
)

var ErrNotRadiance = errors.New("hdr: missing #? magic")

// A decoded high dynamic range image with row-major linear radiance pixels.
type Image struct {
	Width  int
	Height int
	Pixels []types.RGB
}

func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pixels: make([]types.RGB, width*height),
	}
}

// Convert one shared-exponent record to linear RGB, applying the gamma from
// the file header. A zero exponent byte encodes black.
func rgbeToRGB(r, g, b, e byte, gamma float32) types.RGB {
	if e == 0 {
		return types.RGB{}
	}
	exponent := int(e) - 128
	scale := float32(1.0/256.0) * float32(math.Ldexp(1, exponent))
	return types.RGB{
		R: types.Pow(scale*float32(r), gamma),
		G: types.Pow(scale*float32(g), gamma),
		B: types.Pow(scale*float32(b), gamma),
	}
}

// Pack linear RGB into a shared-exponent record.
func rgbToRGBE(c types.RGB) (r, g, b, e byte) {
	dominant := c.MaxComponent()
	if dominant < 1e-32 {
		return 0, 0, 0, 0
	}
	significand, exponent := math.Frexp(float64(dominant))
	scale := float32(significand) * 256.0 / dominant
	return byte(scale * c.R), byte(scale * c.G), byte(scale * c.B), byte(exponent + 128)
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// Decode reads an RGBE stream, accepting both flat and adaptive-RLE bodies.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("hdr: reading magic: %w", err)
	}
	if !strings.HasPrefix(magic, "#?") {
		return nil, ErrNotRadiance
	}

	// Scan header lines until the format declaration; pick up a gamma
	// override on the way, ignore anything else.
	gamma := float32(1)
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, fmt.Errorf("hdr: reading header: %w", err)
		}
		if line == "FORMAT=32-bit_rle_rgbe" {
			break
		}
		if value, ok := strings.CutPrefix(line, "GAMMA="); ok {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
			if err == nil {
				gamma = float32(parsed)
			}
		}
	}

	blank, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("hdr: reading header: %w", err)
	}
	if blank != "" {
		return nil, fmt.Errorf("hdr: expected blank line before resolution, got %q", blank)
	}

	resolution, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("hdr: reading resolution: %w", err)
	}
	var width, height int
	if n, err := fmt.Sscanf(resolution, "-Y %d +X %d", &height, &width); n != 2 || err != nil {
		return nil, fmt.Errorf("hdr: malformed resolution line %q", resolution)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("hdr: invalid resolution %dx%d", width, height)
	}

	img := NewImage(width, height)

	var record [4]byte
	if _, err := io.ReadFull(br, record[:]); err != nil {
		return nil, fmt.Errorf("hdr: truncated body: %w", err)
	}

	if record[0] == 2 && record[1] == 2 && record[2]&0x80 == 0 {
		if err := decodeRLE(br, img, record, gamma); err != nil {
			return nil, err
		}
	} else {
		if err := decodeFlat(br, img, record, gamma); err != nil {
			return nil, err
		}
	}

	return img, nil
}

func decodeFlat(br *bufio.Reader, img *Image, first [4]byte, gamma float32) error {
	record := first
	for i := range img.Pixels {
		img.Pixels[i] = rgbeToRGB(record[0], record[1], record[2], record[3], gamma)
		if i+1 < len(img.Pixels) {
			if _, err := io.ReadFull(br, record[:]); err != nil {
				return fmt.Errorf("hdr: truncated body at pixel %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func decodeRLE(br *bufio.Reader, img *Image, first [4]byte, gamma float32) error {
	width := img.Width

	channels := [4][]byte{
		make([]byte, width),
		make([]byte, width),
		make([]byte, width),
		make([]byte, width),
	}

	record := first
	for y := 0; y < img.Height; y++ {
		if record[0] != 2 || record[1] != 2 || record[2]&0x80 != 0 {
			return fmt.Errorf("hdr: scanline %d: bad RLE header", y)
		}
		length := int(record[2])<<8 | int(record[3])
		if length != width {
			return fmt.Errorf("hdr: scanline %d: length %d does not match width %d", y, length, width)
		}

		for ch := range channels {
			if err := decodeChannel(br, channels[ch]); err != nil {
				return fmt.Errorf("hdr: scanline %d: %w", y, err)
			}
		}

		scanline := img.Pixels[y*width : (y+1)*width]
		for x := 0; x < width; x++ {
			scanline[x] = rgbeToRGB(channels[0][x], channels[1][x], channels[2][x], channels[3][x], gamma)
		}

		if y+1 < img.Height {
			if _, err := io.ReadFull(br, record[:]); err != nil {
				return fmt.Errorf("hdr: truncated scanline header: %w", err)
			}
		}
	}
	return nil
}

// One RLE channel: a leading byte above 128 repeats the next byte, otherwise
// it counts verbatim bytes.
func decodeChannel(br *bufio.Reader, dst []byte) error {
	for i := 0; i < len(dst); {
		code, err := br.ReadByte()
		if err != nil {
			return fmt.Errorf("truncated RLE stream: %w", err)
		}

		if code > 128 {
			count := int(code & 0x7f)
			if i+count > len(dst) {
				return errors.New("RLE run overflows scanline")
			}
			value, err := br.ReadByte()
			if err != nil {
				return fmt.Errorf("truncated RLE run: %w", err)
			}
			for j := 0; j < count; j++ {
				dst[i] = value
				i++
			}
		} else {
			count := int(code)
			if i+count > len(dst) {
				return errors.New("RLE copy overflows scanline")
			}
			if _, err := io.ReadFull(br, dst[i:i+count]); err != nil {
				return fmt.Errorf("truncated RLE copy: %w", err)
			}
			i += count
		}
	}
	return nil
}

// Encode writes the image as an uncompressed RGBE stream with unit gamma and
// exposure.
func Encode(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "#?RADIANCE\n")
	fmt.Fprintf(bw, "GAMMA=%g\n", 1.0)
	fmt.Fprintf(bw, "EXPOSURE=%g\n", 1.0)
	fmt.Fprintf(bw, "FORMAT=32-bit_rle_rgbe\n")
	fmt.Fprintf(bw, "\n")
	fmt.Fprintf(bw, "-Y %d +X %d\n", img.Height, img.Width)

	var record [4]byte
	for _, pixel := range img.Pixels {
		record[0], record[1], record[2], record[3] = rgbToRGBE(pixel)
		if _, err := bw.Write(record[:]); err != nil {
			return fmt.Errorf("hdr: writing body: %w", err)
		}
	}

	return bw.Flush()
}
