package camera

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // snapshot endpoints usually serve JPEG
	"image/png"
	"strings"
)

const dataURLPrefix = "data:image/png;base64,"

var (
	ErrNotOpen        = errors.New("camera is not open")
	ErrInvalidDataURL = errors.New("invalid PNG data URL")
)

// Source supplies still frames from a camera.
type Source interface {
	Open(ctx context.Context) error
	Capture(ctx context.Context) (image.Image, error)
	Close() error
}

// Photo is a captured still together with its encodings.
type Photo struct {
	Image   image.Image `json:"-"`
	PNG     []byte      `json:"-"`
	DataURL string      `json:"data_url"`
}

// NewPhoto encodes img as PNG and as a PNG data URL.
func NewPhoto(img image.Image) (Photo, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Photo{}, fmt.Errorf("failed to encode photo: %w", err)
	}
	return Photo{
		Image:   img,
		PNG:     buf.Bytes(),
		DataURL: PNGDataURL(buf.Bytes()),
	}, nil
}

// PNGDataURL wraps encoded PNG bytes in a data:image/png;base64 URL.
func PNGDataURL(raw []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(raw)
}

// DecodePNGDataURL returns the raw PNG bytes carried by a data URL.
func DecodePNGDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, ErrInvalidDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return raw, nil
}

func decodeFrame(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty %s frame", format)
	}
	return img, nil
}
