//go:build linux || darwin || windows

package clip

import (
	"fmt"

	"golang.design/x/clipboard"

	"github.com/snappaste/snappaste/internal/imaging"
)

// golangDesignBackend implements the read/write half of Backend on top of
// golang.design/x/clipboard, which hands images back and forth as PNG bytes.
// Platform backends embed it and add their own change detection.
type golangDesignBackend struct{}

func (golangDesignBackend) ReadText() (string, bool) {
	data := clipboard.Read(clipboard.FmtText)
	if data == nil {
		return "", false
	}
	return string(data), true
}

func (golangDesignBackend) ReadImage() (*imaging.Image, error) {
	data := clipboard.Read(clipboard.FmtImage)
	if data == nil {
		return nil, nil
	}
	img, err := imaging.DecodePNG(data)
	if err != nil {
		return nil, fmt.Errorf("clipboard image: %w", err)
	}
	return img, nil
}

func (golangDesignBackend) WriteText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (golangDesignBackend) WriteImage(img *imaging.Image) error {
	png, err := imaging.EncodePNG(img)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}
