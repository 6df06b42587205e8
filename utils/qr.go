package utils

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	QRSize   = 256
	QRMargin = 2 // quiet zone, in modules
)

var ErrEmptyQRContent = errors.New("qr content is empty")

// QRCodePNG encodes content as a QRSize×QRSize PNG with a QRMargin-module
// quiet zone on every side.
func QRCodePNG(content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyQRContent
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	n := len(bitmap)
	modules := n + 2*QRMargin

	img := image.NewPaletted(image.Rect(0, 0, QRSize, QRSize), color.Palette{color.White, color.Black})
	for y := 0; y < QRSize; y++ {
		my := y*modules/QRSize - QRMargin
		for x := 0; x < QRSize; x++ {
			mx := x*modules/QRSize - QRMargin
			if my >= 0 && my < n && mx >= 0 && mx < n && bitmap[my][mx] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// QRCodeDataURI is QRCodePNG wrapped as a data:image/png;base64 URI.
func QRCodeDataURI(content string) (string, error) {
	raw, err := QRCodePNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
