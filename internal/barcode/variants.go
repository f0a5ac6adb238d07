package barcode

import (
	"image"

	"github.com/kovidgoyal/imaging"
)

// blurKernelHeight mirrors the box-blur window used for the blurred
// variant, relative to the canvas size along the strip axis.
const blurKernelHeight = 300

// Columns scales the composited barcode to the output canvas.
func Columns(barcode image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(barcode, width, height, imaging.Lanczos)
}

// Blurred smooths the canvas along the strip axis by squeezing it to a few
// pixel lines and stretching it back.
func Blurred(columns image.Image, width, height int, orient Orientation) *image.NRGBA {
	if orient == Horizontal {
		lines := clampLines(width)
		squeezed := imaging.Resize(columns, lines, height, imaging.Lanczos)
		return imaging.Resize(squeezed, width, height, imaging.Lanczos)
	}
	lines := clampLines(height)
	squeezed := imaging.Resize(columns, width, lines, imaging.Lanczos)
	return imaging.Resize(squeezed, width, height, imaging.Lanczos)
}

// Solid collapses every strip to its single blended color, giving a color
// gradient along the barcode's temporal axis.
func Solid(columns image.Image, width, height int, orient Orientation) *image.NRGBA {
	if orient == Horizontal {
		col := imaging.Resize(columns, 1, height, imaging.Lanczos)
		return imaging.Resize(col, width, height, imaging.Lanczos)
	}
	row := imaging.Resize(columns, width, 1, imaging.Lanczos)
	return imaging.Resize(row, width, height, imaging.Lanczos)
}

func clampLines(size int) int {
	lines := size / blurKernelHeight
	if lines < 1 {
		return 1
	}
	return lines
}
