package crop

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// MaxSourceBytes caps the size of an uploaded source image.
const MaxSourceBytes = 8 << 20

// jpegQuality for the rasterized wallpaper.
const jpegQuality = 80

// ErrTooLarge is returned for a source image over MaxSourceBytes.
var ErrTooLarge = errors.New("crop: file too large")

// DecodeSource reads and decodes an image, enforcing MaxSourceBytes.
func DecodeSource(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxSourceBytes {
		return nil, ErrTooLarge
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Rasterize cuts rect out of src, after applying the given number of
// clockwise quarter-turns, and returns the result as a JPEG data URI.
// The output canvas is exactly (rect.W, rect.H); the sub-rectangle is
// sampled with bilinear interpolation.
func Rasterize(src image.Image, rect Rect, quarterTurns int) (string, error) {
	if quarterTurns%4 != 0 {
		src = rotateQuarters(src, quarterTurns)
	}

	b := src.Bounds()
	rect = Clamp(rect, float64(b.Dx()), float64(b.Dy()))

	outW, outH := int(rect.W), int(rect.H)
	if outW < 1 || outH < 1 {
		return "", ErrBadGeometry
	}
	sub := image.Rect(
		b.Min.X+int(rect.X),
		b.Min.Y+int(rect.Y),
		b.Min.X+int(rect.X)+outW,
		b.Min.Y+int(rect.Y)+outH,
	)

	dst := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, sub, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode crop: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// rotateQuarters returns src rotated clockwise by n quarter-turns.
func rotateQuarters(src image.Image, n int) image.Image {
	n = ((n % 4) + 4) % 4
	if n == 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if n == 2 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			switch n {
			case 1:
				dst.Set(h-1-y, x, c)
			case 2:
				dst.Set(w-1-x, h-1-y, c)
			case 3:
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}
