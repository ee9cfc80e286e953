package imagefield_test

import (
	"encoding/base64"
	"testing"

	"foodgram/pkg/imagefield"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecode(t *testing.T) {
	img, err := imagefield.Decode("data:image/png;base64," + pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.NotEmpty(t, img.Data)
}

func TestDecode_DeclaredTypeIsIgnored(t *testing.T) {
	img, err := imagefield.Decode("data:image/jpeg;base64," + pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestDecode_Errors(t *testing.T) {
	text := base64.StdEncoding.EncodeToString([]byte("definitely not an image"))

	tests := []struct {
		name string
		in   string
		want error
	}{
		{"plain string", "hello", imagefield.ErrNotDataURI},
		{"not base64", "data:image/png;base64,@@@", imagefield.ErrNotDataURI},
		{"missing base64 marker", "data:image/png," + pixelPNG, imagefield.ErrNotDataURI},
		{"empty payload", "data:image/png;base64,", imagefield.ErrEmpty},
		{"text payload", "data:image/png;base64," + text, imagefield.ErrNotImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := imagefield.Decode(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
