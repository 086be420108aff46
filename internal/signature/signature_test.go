package signature

import (
	"strings"
	"testing"
)

func TestTextAndImageNeverCollide(t *testing.T) {
	// A text payload that spells out an image signature must still be
	// distinguishable from a real image signature.
	pix := make([]byte, 4*4*4)
	img := Image(4, 4, pix)
	txt := Text(img)
	if txt == img {
		t.Fatalf("text signature collided with image signature: %q", img)
	}
	if !strings.HasPrefix(txt, "text:") {
		t.Errorf("text signature missing tag: %q", txt)
	}
	if !strings.HasPrefix(img, "image:") {
		t.Errorf("image signature missing tag: %q", img)
	}
}

func TestTextIsLiteral(t *testing.T) {
	if Text("hello") != "text:hello" {
		t.Errorf("Text(hello) = %q", Text("hello"))
	}
	if Text("a") == Text("b") {
		t.Error("distinct texts must have distinct signatures")
	}
}

func TestImageStable(t *testing.T) {
	pix := make([]byte, 100*50*4)
	for i := range pix {
		pix[i] = byte(i)
	}
	a := Image(100, 50, pix)
	b := Image(100, 50, pix)
	if a != b {
		t.Errorf("same payload, different signatures: %q vs %q", a, b)
	}
}

func TestImageSensitiveToDimensions(t *testing.T) {
	pix := make([]byte, 100*50*4)
	if Image(100, 50, pix) == Image(50, 100, pix) {
		t.Error("transposed dimensions produced the same signature")
	}
}

func TestImageSensitiveToEdges(t *testing.T) {
	// The hash samples a window at the head and tail; a change there must
	// change the signature even on buffers far larger than the window.
	pix := make([]byte, 1<<20)
	base := Image(512, 512, pix)

	head := make([]byte, len(pix))
	copy(head, pix)
	head[0] = 0xFF
	if Image(512, 512, head) == base {
		t.Error("head mutation not reflected in signature")
	}

	tail := make([]byte, len(pix))
	copy(tail, pix)
	tail[len(tail)-1] = 0xFF
	if Image(512, 512, tail) == base {
		t.Error("tail mutation not reflected in signature")
	}
}

func TestImageSensitiveToLength(t *testing.T) {
	a := Image(10, 10, make([]byte, 400))
	b := Image(10, 10, make([]byte, 800))
	if a == b {
		t.Error("length change not reflected in signature")
	}
}
