// Package imaging normalizes captured clipboard images for storage:
// nearest-neighbor downscaling under pixel/dimension caps and lossless
// PNG re-encoding under a hard byte cap.
//
// Nearest-neighbor is a deliberate quality/speed tradeoff: stored images
// are thumbnail-grade history previews and the downscale must stay O(target
// pixels) even for very large captures.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"
)

const (
	// MaxRawBytes caps the raw RGBA input before any processing, bounding
	// worst-case memory.
	MaxRawBytes = 48 * 1024 * 1024

	// MaxPixels caps the stored pixel count (roughly 1920x1350).
	MaxPixels = 2_600_000

	// MaxDimension caps either stored side.
	MaxDimension = 2200

	// MaxEncodedBytes caps the encoded PNG blob.
	MaxEncodedBytes = 6 * 1024 * 1024
)

var (
	// ErrRawImageTooLarge is returned when the raw RGBA input exceeds MaxRawBytes.
	ErrRawImageTooLarge = errors.New("raw image too large")

	// ErrImageTooLarge is returned when the encoded PNG exceeds MaxEncodedBytes.
	ErrImageTooLarge = errors.New("encoded image too large")
)

// Image is a raw RGBA pixel buffer, 4 bytes per pixel, row-major.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Normalize returns the image unchanged when it fits within MaxPixels and
// MaxDimension, otherwise downsamples it with a single scale ratio so that
// both constraints hold. The second return reports whether scaling occurred.
func Normalize(img *Image) (*Image, bool) {
	ratio := 1.0
	if img.Width > MaxDimension {
		ratio = math.Max(ratio, float64(img.Width)/MaxDimension)
	}
	if img.Height > MaxDimension {
		ratio = math.Max(ratio, float64(img.Height)/MaxDimension)
	}
	if px := img.Width * img.Height; px > MaxPixels {
		ratio = math.Max(ratio, math.Sqrt(float64(px)/MaxPixels))
	}
	if ratio <= 1.0 {
		return img, false
	}

	tw := int(math.Round(float64(img.Width) / ratio))
	th := int(math.Round(float64(img.Height) / ratio))
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return downscaleNearest(img, tw, th), true
}

// downscaleNearest resamples src to tw x th using nearest-neighbor.
// Deterministic and O(tw*th).
func downscaleNearest(src *Image, tw, th int) *Image {
	out := make([]byte, tw*th*4)
	for ty := 0; ty < th; ty++ {
		sy := ty * src.Height / th
		for tx := 0; tx < tw; tx++ {
			sx := tx * src.Width / tw
			s := (sy*src.Width + sx) * 4
			d := (ty*tw + tx) * 4
			copy(out[d:d+4], src.Pix[s:s+4])
		}
	}
	return &Image{Width: tw, Height: th, Pix: out}
}

// EncodePNG losslessly encodes the raw RGBA buffer, enforcing MaxEncodedBytes.
func EncodePNG(img *Image) ([]byte, error) {
	rgba := &image.RGBA{
		Pix:    img.Pix,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	if buf.Len() > MaxEncodedBytes {
		return nil, fmt.Errorf("%w: %d bytes > %d bytes", ErrImageTooLarge, buf.Len(), MaxEncodedBytes)
	}
	return buf.Bytes(), nil
}

// DecodePNG decodes stored PNG bytes back to a raw RGBA buffer.
func DecodePNG(data []byte) (*Image, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("png decode: %w", err)
	}
	b := src.Bounds()
	out := &Image{Width: b.Dx(), Height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy()*4)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			out.Pix[i+0] = byte(r >> 8)
			out.Pix[i+1] = byte(g >> 8)
			out.Pix[i+2] = byte(bl >> 8)
			out.Pix[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return out, nil
}

// CheckRawSize rejects raw RGBA inputs above MaxRawBytes before any
// processing happens.
func CheckRawSize(img *Image) error {
	if len(img.Pix) > MaxRawBytes {
		return fmt.Errorf("%w: %d bytes > %d bytes", ErrRawImageTooLarge, len(img.Pix), MaxRawBytes)
	}
	return nil
}
