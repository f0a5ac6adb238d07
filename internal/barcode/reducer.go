// Package barcode turns sampled frames into strips and composes the strips
// into the final barcode images.
package barcode

import (
	"fmt"
	"image"

	"github.com/kovidgoyal/imaging"

	"github.com/BenySynakiewicz/Color-Bars/internal/domain/entity"
)

// Mode selects how a frame is reduced to a single strip.
type Mode string

const (
	// ModeResize blends the frame down to one pixel line with Lanczos
	// resampling.
	ModeResize Mode = "resize"
	// ModeMean takes the arithmetic RGB mean along the collapsed axis.
	ModeMean Mode = "mean"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeResize, ModeMean:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown reduction mode %q (use resize or mean)", s)
}

// Orientation is the direction of one strip. Vertical strips stack along
// the x axis, horizontal strips along the y axis.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
)

func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case Vertical, Horizontal:
		return Orientation(s), nil
	}
	return "", fmt.Errorf("unknown orientation %q (use vertical or horizontal)", s)
}

// ReduceStrip collapses one frame to a single pixel line: 1xH for vertical
// strips, Wx1 for horizontal ones. Deterministic: the same frame always
// yields the same strip.
func ReduceStrip(frame entity.Frame, mode Mode, orient Orientation) *image.NRGBA {
	if mode == ModeMean {
		if orient == Horizontal {
			return meanRow(frame)
		}
		return meanColumn(frame)
	}
	if orient == Horizontal {
		return imaging.Resize(frameImage(frame), frame.Width, 1, imaging.Lanczos)
	}
	return imaging.Resize(frameImage(frame), 1, frame.Height, imaging.Lanczos)
}

// frameImage wraps packed RGB24 pixels as an NRGBA image.
func frameImage(frame entity.Frame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		src := frame.Pix[y*frame.Width*3:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < frame.Width; x++ {
			dst[x*4+0] = src[x*3+0]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// meanColumn averages each pixel row across the frame width.
func meanColumn(frame entity.Frame) *image.NRGBA {
	strip := image.NewNRGBA(image.Rect(0, 0, 1, frame.Height))
	n := uint64(frame.Width)
	for y := 0; y < frame.Height; y++ {
		row := frame.Pix[y*frame.Width*3 : (y+1)*frame.Width*3]
		var rSum, gSum, bSum uint64
		for x := 0; x < frame.Width; x++ {
			rSum += uint64(row[x*3+0])
			gSum += uint64(row[x*3+1])
			bSum += uint64(row[x*3+2])
		}
		i := y * strip.Stride
		strip.Pix[i+0] = uint8(rSum / n)
		strip.Pix[i+1] = uint8(gSum / n)
		strip.Pix[i+2] = uint8(bSum / n)
		strip.Pix[i+3] = 0xff
	}
	return strip
}

// meanRow averages each pixel column across the frame height.
func meanRow(frame entity.Frame) *image.NRGBA {
	strip := image.NewNRGBA(image.Rect(0, 0, frame.Width, 1))
	n := uint64(frame.Height)
	for x := 0; x < frame.Width; x++ {
		var rSum, gSum, bSum uint64
		for y := 0; y < frame.Height; y++ {
			i := (y*frame.Width + x) * 3
			rSum += uint64(frame.Pix[i+0])
			gSum += uint64(frame.Pix[i+1])
			bSum += uint64(frame.Pix[i+2])
		}
		strip.Pix[x*4+0] = uint8(rSum / n)
		strip.Pix[x*4+1] = uint8(gSum / n)
		strip.Pix[x*4+2] = uint8(bSum / n)
		strip.Pix[x*4+3] = 0xff
	}
	return strip
}
