package imaging

import (
	"errors"
	"math"
	"testing"
)

// gradient builds a deterministic RGBA test image.
func gradient(w, h int) *Image {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			pix[i+0] = byte(x)
			pix[i+1] = byte(y)
			pix[i+2] = byte(x ^ y)
			pix[i+3] = 0xFF
		}
	}
	return &Image{Width: w, Height: h, Pix: pix}
}

func TestNormalizeSmallUnchanged(t *testing.T) {
	img := gradient(640, 480)
	out, scaled := Normalize(img)
	if scaled {
		t.Fatal("small image reported as scaled")
	}
	if out != img {
		t.Error("small image must be returned unchanged")
	}
}

func TestNormalizeBoundsHold(t *testing.T) {
	cases := []struct{ w, h int }{
		{4000, 3000}, // over both pixel and dimension caps
		{8000, 100},  // over dimension cap only
		{1920, 1500}, // over pixel cap only
		{2300, 10},   // slightly over dimension cap
	}
	for _, c := range cases {
		out, scaled := Normalize(gradient(c.w, c.h))
		if !scaled {
			t.Errorf("%dx%d: expected scaling", c.w, c.h)
			continue
		}
		if out.Width > MaxDimension || out.Height > MaxDimension {
			t.Errorf("%dx%d: output %dx%d exceeds MaxDimension", c.w, c.h, out.Width, out.Height)
		}
		if out.Width*out.Height > MaxPixels {
			t.Errorf("%dx%d: output %dx%d exceeds MaxPixels", c.w, c.h, out.Width, out.Height)
		}

		// Aspect ratio preserved to within rounding of one pixel.
		wantH := float64(out.Width) * float64(c.h) / float64(c.w)
		if math.Abs(float64(out.Height)-wantH) > 1.0 {
			t.Errorf("%dx%d: aspect drift, output %dx%d (want height ≈ %.1f)", c.w, c.h, out.Width, out.Height, wantH)
		}
	}
}

func TestNormalizeMinimumOnePixel(t *testing.T) {
	out, scaled := Normalize(gradient(9000, 1))
	if !scaled {
		t.Fatal("expected scaling")
	}
	if out.Width < 1 || out.Height < 1 {
		t.Errorf("output %dx%d has a zero side", out.Width, out.Height)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	a, _ := Normalize(gradient(4000, 3000))
	b, _ := Normalize(gradient(4000, 3000))
	if a.Width != b.Width || a.Height != b.Height {
		t.Fatalf("dimensions differ: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("pixel %d differs", i)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := gradient(33, 17)
	png, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	back, err := DecodePNG(png)
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if back.Width != img.Width || back.Height != img.Height {
		t.Fatalf("dimensions changed: %dx%d -> %dx%d", img.Width, img.Height, back.Width, back.Height)
	}
	for i := range img.Pix {
		if img.Pix[i] != back.Pix[i] {
			t.Fatalf("pixel byte %d changed: %d -> %d", i, img.Pix[i], back.Pix[i])
		}
	}
}

func TestEncodedSizeGuard(t *testing.T) {
	// Noise does not compress: a full-cap noise image encodes well above
	// MaxEncodedBytes and must be rejected, never persisted.
	img := &Image{Width: 1920, Height: 1350, Pix: make([]byte, 1920*1350*4)}
	state := uint32(0x9E3779B9)
	for i := range img.Pix {
		state = state*1664525 + 1013904223
		img.Pix[i] = byte(state >> 24)
	}
	if _, err := EncodePNG(img); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("noise image: got %v, want ErrImageTooLarge", err)
	}
}

func TestCheckRawSize(t *testing.T) {
	small := &Image{Width: 1, Height: 1, Pix: make([]byte, 4)}
	if err := CheckRawSize(small); err != nil {
		t.Errorf("small image rejected: %v", err)
	}

	huge := &Image{Width: 1, Height: 1, Pix: make([]byte, MaxRawBytes+1)}
	if err := CheckRawSize(huge); !errors.Is(err, ErrRawImageTooLarge) {
		t.Errorf("oversized raw input: got %v, want ErrRawImageTooLarge", err)
	}
}

func TestDecodeGarbageFails(t *testing.T) {
	if _, err := DecodePNG([]byte("not a png")); err == nil {
		t.Error("expected decode error")
	}
}
