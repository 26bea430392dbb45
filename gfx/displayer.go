package gfx

import (
	"errors"
	"fmt"
	"image/color"

	"periph.io/x/devices/v3/st7796/geom"
	"periph.io/x/devices/v3/st7796/rgb565"
	"tinygo.org/x/drivers"
)

// Rotator is implemented by targets whose orientation can change.
//
// *st7796.Dev implements Rotator.
type Rotator interface {
	Rotation() geom.Rotation
	SetRotation(r geom.Rotation) error
}

// Displayer adapts a Canvas to drivers.Displayer so code written against the
// TinyGo driver interfaces (tinyfont, tinydraw) can draw on it.
//
// SetPixel cannot report errors; the first one is kept and returned by the
// next Display call.
type Displayer struct {
	c   *Canvas
	err error
}

// NewDisplayer returns a drivers.Displayer drawing through c.
func NewDisplayer(c *Canvas) *Displayer {
	return &Displayer{c: c}
}

// Size returns the logical width and height.
func (d *Displayer) Size() (x, y int16) {
	b := d.c.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel writes one pixel immediately. There is no framebuffer.
func (d *Displayer) SetPixel(x, y int16, c color.RGBA) {
	err := d.c.DrawPixel(int(x), int(y), rgb565.FromRGB(c.R, c.G, c.B))
	if err != nil && d.err == nil {
		d.err = err
	}
}

// Display returns the first error since the previous call. Pixels are
// already on the panel.
func (d *Displayer) Display() error {
	err := d.err
	d.err = nil
	return err
}

// Rotation returns the current rotation, or drivers.Rotation0 when the target
// cannot rotate.
func (d *Displayer) Rotation() drivers.Rotation {
	if r, ok := d.c.Target().(Rotator); ok {
		return drivers.Rotation(r.Rotation())
	}
	return drivers.Rotation0
}

// SetRotation changes the target orientation. Mirrored rotations are not
// supported.
func (d *Displayer) SetRotation(rotation drivers.Rotation) error {
	r, ok := d.c.Target().(Rotator)
	if !ok {
		return errors.New("gfx: target cannot rotate")
	}
	if rotation > drivers.Rotation270 {
		return fmt.Errorf("gfx: unsupported rotation %d", rotation)
	}
	return r.SetRotation(geom.Rotation(rotation))
}

var _ drivers.Displayer = &Displayer{}
