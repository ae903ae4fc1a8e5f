package imageio

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// ErrInvalidPPM is returned when a stream is not a binary 8-bit PPM
var ErrInvalidPPM = errors.New("invalid ppm")

// EncodePPM writes fb as a binary P6 image: the header "P6\n<w> <h>\n255\n"
// followed by RGB bytes row by row from the top-left pixel
func EncodePPM(w io.Writer, fb *renderer.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", fb.Width, fb.Height); err != nil {
		return errors.Wrap(err, "writing ppm header")
	}

	row := make([]byte, 3*fb.Width)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.At(x, y)
			row[3*x] = renderer.ToByte(c.X)
			row[3*x+1] = renderer.ToByte(c.Y)
			row[3*x+2] = renderer.ToByte(c.Z)
		}
		if _, err := bw.Write(row); err != nil {
			return errors.Wrapf(err, "writing ppm row %d", y)
		}
	}
	return errors.Wrap(bw.Flush(), "flushing ppm")
}

// DecodePPM reads a binary P6 image with a maximum value of 255
func DecodePPM(r io.Reader) (*image.RGBA, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, err
	}
	if magic != "P6" {
		return nil, errors.Wrapf(ErrInvalidPPM, "magic %q", magic)
	}

	var header [3]int
	for i, name := range []string{"width", "height", "max value"} {
		tok, err := readToken(br)
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			return nil, errors.Wrapf(ErrInvalidPPM, "%s %q", name, tok)
		}
		header[i] = n
	}
	width, height, maxVal := header[0], header[1], header[2]
	if maxVal != 255 {
		return nil, errors.Wrapf(ErrInvalidPPM, "max value %d", maxVal)
	}

	data := make([]byte, 3*width*height)
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, errors.Wrapf(ErrInvalidPPM, "pixel data: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		copy(img.Pix[4*i:4*i+3], data[3*i:3*i+3])
		img.Pix[4*i+3] = 255
	}
	return img, nil
}

// readToken returns the next whitespace separated header field, skipping
// comments. It consumes exactly one whitespace byte after the field.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", errors.Wrapf(ErrInvalidPPM, "header: %v", err)
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", errors.Wrapf(ErrInvalidPPM, "header comment: %v", err)
			}
		case isSpace(b):
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
