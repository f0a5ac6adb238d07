package barcode

import (
	"fmt"
	"image"
	"image/draw"
)

// Compositor accumulates strips into a growing barcode buffer in append
// order: one column per strip for vertical orientation, one row per strip
// for horizontal.
type Compositor struct {
	buf    *image.NRGBA
	orient Orientation
	length int // strip length along the fixed axis
	strips int
}

// NewCompositor allocates a buffer for up to capacity strips of the given
// length. The buffer grows if more strips arrive.
func NewCompositor(orient Orientation, length, capacity int) *Compositor {
	if capacity < 1 {
		capacity = 1
	}
	c := &Compositor{orient: orient, length: length}
	c.buf = image.NewNRGBA(c.rect(capacity))
	return c
}

func (c *Compositor) rect(strips int) image.Rectangle {
	if c.orient == Horizontal {
		return image.Rect(0, 0, c.length, strips)
	}
	return image.Rect(0, 0, strips, c.length)
}

// Append adds strip as the next column (or row). The strip must be a
// single pixel line matching the compositor length.
func (c *Compositor) Append(strip *image.NRGBA) error {
	b := strip.Bounds()
	want := image.Pt(1, c.length)
	if c.orient == Horizontal {
		want = image.Pt(c.length, 1)
	}
	if b.Dx() != want.X || b.Dy() != want.Y {
		return fmt.Errorf("strip is %dx%d, want %dx%d", b.Dx(), b.Dy(), want.X, want.Y)
	}

	if c.strips == c.capacity() {
		c.grow()
	}
	for i := 0; i < c.length; i++ {
		var si, di int
		if c.orient == Horizontal {
			si = strip.PixOffset(b.Min.X+i, b.Min.Y)
			di = c.buf.PixOffset(i, c.strips)
		} else {
			si = strip.PixOffset(b.Min.X, b.Min.Y+i)
			di = c.buf.PixOffset(c.strips, i)
		}
		copy(c.buf.Pix[di:di+4], strip.Pix[si:si+4])
	}
	c.strips++
	return nil
}

func (c *Compositor) capacity() int {
	if c.orient == Horizontal {
		return c.buf.Bounds().Dy()
	}
	return c.buf.Bounds().Dx()
}

func (c *Compositor) grow() {
	next := image.NewNRGBA(c.rect(c.strips * 2))
	draw.Draw(next, c.buf.Bounds(), c.buf, image.Point{}, draw.Src)
	c.buf = next
}

// Len returns the number of strips appended so far.
func (c *Compositor) Len() int {
	return c.strips
}

// Image returns the barcode trimmed to the appended strips.
func (c *Compositor) Image() *image.NRGBA {
	return c.buf.SubImage(c.rect(c.strips)).(*image.NRGBA)
}
