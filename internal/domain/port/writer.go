package port

import (
	"context"
	"image"
)

// ImageWriter persists a rendered image to a destination path.
type ImageWriter interface {
	WriteImage(ctx context.Context, img image.Image, destPath string) error
}
