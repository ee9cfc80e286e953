// Package imagefield decodes images submitted as base64 data URIs
// ("data:image/png;base64,....").
package imagefield

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotDataURI = errors.New("image must be a base64 data URI")
	ErrNotImage   = errors.New("uploaded file is not an image")
	ErrEmpty      = errors.New("image is empty")
)

// Image is a decoded upload.
type Image struct {
	Data        []byte
	ContentType string
	// Extension includes the leading dot, e.g. ".png".
	Extension string
}

// Decode parses a data URI and verifies by content sniffing that the payload
// is an image. The declared media type is not trusted.
func Decode(uri string) (*Image, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, ErrNotDataURI
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDataURI, err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	return &Image{
		Data:        data,
		ContentType: mt.String(),
		Extension:   mt.Extension(),
	}, nil
}
