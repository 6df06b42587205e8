package utils

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodePNG(t *testing.T) {
	raw, err := QRCodePNG("https://menumagic.example/menu/42")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, QRSize, img.Bounds().Dx())
	assert.Equal(t, QRSize, img.Bounds().Dy())

	// Corners sit inside the quiet zone.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
	r, g, b, _ = img.At(QRSize-1, QRSize-1).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
}

func TestQRCodeDataURI(t *testing.T) {
	uri, err := QRCodeDataURI("https://menumagic.example/menu/1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestQRCodeRejectsEmpty(t *testing.T) {
	_, err := QRCodeDataURI("  ")
	assert.ErrorIs(t, err, ErrEmptyQRContent)
}
