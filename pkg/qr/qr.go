// Package qr renders QR code images pointing at document detail pages so a
// printed label on a physical folder resolves back to the archive record.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Generator encodes detail-page URLs into PNG images.
type Generator struct {
	baseURL string
	size    int
}

// NewGenerator builds a Generator. baseURL is the public origin of the web
// frontend, size is the square PNG dimension in pixels.
func NewGenerator(baseURL string, size int) *Generator {
	if size <= 0 {
		size = 256
	}
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), size: size}
}

// DetailURL returns the canonical frontend detail URL for a document.
func (g *Generator) DetailURL(kind string, id int64) string {
	return fmt.Sprintf("%s/%s/detail/%d", g.baseURL, kind, id)
}

// GeneratePNG renders the detail URL of the given document as a PNG.
func (g *Generator) GeneratePNG(kind string, id int64) ([]byte, error) {
	png, err := qrcode.Encode(g.DetailURL(kind, id), qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s/%d: %w", kind, id, err)
	}
	return png, nil
}
