package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace.
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrContentTooLong is returned when content exceeds the practical symbol capacity.
	ErrContentTooLong = errors.New("content exceeds QR symbol capacity")
	// ErrRenderFailed is returned when the underlying encoder fails.
	ErrRenderFailed = errors.New("failed to render QR code")
)

// Level selects the error-correction level of the rendered symbol.
type Level int

const (
	// LevelLow recovers up to 7% damage; used for long URL payloads.
	LevelLow Level = iota
	// LevelMedium recovers up to 15% damage; the default for JSON payloads.
	LevelMedium
)

// defaultSize is the edge length in pixels used when no size is given.
const defaultSize = 256

// maxContentBytes caps content well under the version-40 binary limit
// (2953 bytes at level L). Scan payloads are a token plus a timestamp, so a
// few hundred bytes is already generous headroom.
const maxContentBytes = 512

func (l Level) recovery() skipqrcode.RecoveryLevel {
	if l == LevelLow {
		return skipqrcode.Low
	}
	return skipqrcode.Medium
}

// Render encodes content into a PNG image of the given pixel size.
func Render(content string, level Level, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxContentBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooLong, len(content))
	}
	if size <= 0 {
		size = defaultSize
	}
	png, err := skipqrcode.Encode(content, level.recovery(), size)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	return png, nil
}

// RenderDataURI encodes content into a base64 PNG data URI suitable for
// embedding directly in an <img> tag of an HTML email.
func RenderDataURI(content string, level Level, size int) (string, error) {
	png, err := Render(content, level, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
