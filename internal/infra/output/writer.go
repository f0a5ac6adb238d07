// Package output persists rendered barcode images.
package output

import (
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/kovidgoyal/imaging"
)

// Writer saves images as PNG at best compression.
type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) WriteImage(ctx context.Context, img image.Image, destPath string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := imaging.Save(img, destPath, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("save %s: %w", destPath, err)
	}
	return nil
}
