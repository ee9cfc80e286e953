// Package storage keeps uploaded media blobs. Callers persist the returned
// object key and turn it into a public URL with URL.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Storage is a flat key -> blob store.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewKey builds a unique object key under dir keeping the given extension.
func NewKey(dir, ext string) string {
	return path.Join(dir, uuid.New().String()+ext)
}

func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}
