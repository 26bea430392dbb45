// Package gfx rasterizes shapes and text onto a display without a
// framebuffer.
//
// Every primitive is decomposed into the fewest rectangular runs it can be
// expressed with: a filled rectangle is one window, a line is one window per
// horizontal or vertical run, a filled triangle or circle is one window per
// scanline. Runs are clipped against the target bounds before they reach the
// display, so drawing partly or fully off-screen is never an error.
package gfx

import (
	"image"
	"log/slog"

	"periph.io/x/devices/v3/st7796/font"
	"periph.io/x/devices/v3/st7796/geom"
	"periph.io/x/devices/v3/st7796/rgb565"
)

// Target is a display that accepts rectangular pixel writes. Rectangles are
// always non-empty and within Bounds when Canvas calls them.
//
// *st7796.Dev implements Target.
type Target interface {
	Bounds() image.Rectangle
	FillRect(r image.Rectangle, c rgb565.Color) error
	WriteRect(r image.Rectangle, pix []rgb565.Color) error
}

// Canvas draws on a Target.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	t     Target
	fonts *font.Table

	// Style is the text style used by DrawText.
	Style TextStyle
	// Logger receives debug records such as skipped glyphs. nil discards.
	Logger *slog.Logger

	cells map[cellKey][]rgb565.Color
}

// New returns a Canvas drawing on t with the glyphs of fonts. A nil table
// selects font.Default().
func New(t Target, fonts *font.Table) *Canvas {
	if fonts == nil {
		fonts = font.Default()
	}
	return &Canvas{
		t:     t,
		fonts: fonts,
		Style: DefaultStyle(),
	}
}

// Target returns the display the canvas draws on.
func (c *Canvas) Target() Target {
	return c.t
}

// Fonts returns the glyph table.
func (c *Canvas) Fonts() *font.Table {
	return c.fonts
}

// Bounds returns the drawable area.
func (c *Canvas) Bounds() image.Rectangle {
	return c.t.Bounds()
}

func (c *Canvas) log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// fill clips r against b and fills what is left.
func (c *Canvas) fill(b, r image.Rectangle, col rgb565.Color) error {
	r = geom.ClipRect(r, b)
	if r.Empty() {
		return nil
	}
	return c.t.FillRect(r, col)
}

// Fill sets the whole drawable area to col.
func (c *Canvas) Fill(col rgb565.Color) error {
	b := c.t.Bounds()
	return c.fill(b, b, col)
}

// DrawPixel sets one pixel. Pixels outside the bounds are ignored.
func (c *Canvas) DrawPixel(x, y int, col rgb565.Color) error {
	b := c.t.Bounds()
	if !(image.Point{X: x, Y: y}).In(b) {
		return nil
	}
	return c.t.FillRect(image.Rect(x, y, x+1, y+1), col)
}

// DrawLine draws a line from (x0, y0) to (x1, y1), both ends included.
//
// The endpoints are ordered before rasterizing, so swapping them draws the
// same pixels. Only the columns (or rows, for steep lines) inside the bounds
// are visited; each pixel is placed by rounding the exact position on the
// line half up, which matches Bresenham's choice.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col rgb565.Color) error {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, y0, x1, y1 = x1, y1, x0, y0
	}
	b := c.t.Bounds()
	if x1 < b.Min.X || x0 >= b.Max.X || max(y0, y1) < b.Min.Y || min(y0, y1) >= b.Max.Y {
		return nil
	}
	dx, dy := dist(x0, x1), dist(y0, y1)
	steep := dy > dx

	// Runs are horizontal for shallow lines and vertical for steep ones.
	var start, last image.Point
	pending := false
	plot := func(p image.Point) error {
		if pending && ((!steep && p.Y == last.Y) || (steep && p.X == last.X)) {
			last = p
			return nil
		}
		if pending {
			if err := c.fill(b, geom.Inclusive(start.X, start.Y, last.X, last.Y), col); err != nil {
				return err
			}
		}
		start, last, pending = p, p, true
		return nil
	}

	if !steep {
		for x := max(x0, b.Min.X); x <= min(x1, b.Max.X-1); x++ {
			var off uint64
			if dx != 0 {
				off = mulDivRound(dist(x, x0), dy, dx)
			}
			if err := plot(image.Point{X: x, Y: toward(y0, y1, off)}); err != nil {
				return err
			}
		}
	} else {
		lo, hi := max(min(y0, y1), b.Min.Y), min(max(y0, y1), b.Max.Y-1)
		for i := 0; i <= hi-lo; i++ {
			y := lo + i
			if y1 < y0 {
				y = hi - i
			}
			off := mulDivRound(dist(y, y0), dx, dy)
			if err := plot(image.Point{X: toward(x0, x1, off), Y: y}); err != nil {
				return err
			}
		}
	}
	if !pending {
		return nil
	}
	return c.fill(b, geom.Inclusive(start.X, start.Y, last.X, last.Y), col)
}

// DrawHLine draws a horizontal line of w pixels starting at (x, y).
func (c *Canvas) DrawHLine(x, y, w int, col rgb565.Color) error {
	if w <= 0 {
		return nil
	}
	return c.fill(c.t.Bounds(), image.Rect(x, y, x+w, y+1), col)
}

// DrawVLine draws a vertical line of h pixels starting at (x, y).
func (c *Canvas) DrawVLine(x, y, h int, col rgb565.Color) error {
	if h <= 0 {
		return nil
	}
	return c.fill(c.t.Bounds(), image.Rect(x, y, x+1, y+h), col)
}

// DrawRect draws the outline of the w×h rectangle at (x, y). Corners are
// written once.
func (c *Canvas) DrawRect(x, y, w, h int, col rgb565.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	b := c.t.Bounds()
	edges := []image.Rectangle{image.Rect(x, y, x+w, y+1)}
	if h > 1 {
		edges = append(edges, image.Rect(x, y+h-1, x+w, y+h))
	}
	if h > 2 {
		edges = append(edges, image.Rect(x, y+1, x+1, y+h-1))
		if w > 1 {
			edges = append(edges, image.Rect(x+w-1, y+1, x+w, y+h-1))
		}
	}
	for _, r := range edges {
		if err := c.fill(b, r, col); err != nil {
			return err
		}
	}
	return nil
}

// FillRect fills the w×h rectangle at (x, y) with a single window.
func (c *Canvas) FillRect(x, y, w, h int, col rgb565.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	return c.fill(c.t.Bounds(), image.Rect(x, y, x+w, y+h), col)
}
