// Package signature computes cheap, stable fingerprints of clipboard
// payloads so the monitor can decide "did the clipboard actually change"
// without full comparisons.
//
// Image signatures hash only a fixed window at the head and tail of the raw
// buffer (plus dimensions and length). Two large images that differ only in
// the middle can collide; that risk is accepted for throughput — a full-
// buffer hash of a 48 MiB capture on every poll tick is not.
package signature

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// sampleWindow is how many bytes of the head and tail are hashed.
const sampleWindow = 4096

// Text returns the signature of a text payload. The type tag guarantees a
// text reading "image:..." can never collide with an image signature.
func Text(s string) string {
	return "text:" + s
}

// Image returns the signature of a raw RGBA payload.
func Image(width, height int, pix []byte) string {
	h := xxh3.New()

	var dims [24]byte
	putUint64(dims[0:], uint64(width))
	putUint64(dims[8:], uint64(height))
	putUint64(dims[16:], uint64(len(pix)))
	_, _ = h.Write(dims[:])

	head := pix
	if len(head) > sampleWindow {
		head = head[:sampleWindow]
	}
	_, _ = h.Write(head)

	if len(pix) > sampleWindow {
		_, _ = h.Write(pix[len(pix)-sampleWindow:])
	}

	return fmt.Sprintf("image:%d:%d:%x", width, height, h.Sum64())
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
