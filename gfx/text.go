package gfx

import (
	"image"

	"periph.io/x/devices/v3/st7796/font"
	"periph.io/x/devices/v3/st7796/geom"
	"periph.io/x/devices/v3/st7796/rgb565"
)

// TextStyle controls how DrawTextStyle renders glyphs.
type TextStyle struct {
	Font font.ID
	// Scale multiplies every glyph pixel into a Scale×Scale block. Values
	// below 1 are treated as 1 and values above MaxScale as MaxScale.
	Scale int
	Color rgb565.Color
	// Background is painted behind the glyph cell when Opaque is set.
	Background rgb565.Color
	Opaque     bool
	// Spacing adds extra pixels between glyphs.
	Spacing int
}

// DefaultStyle is white 8x8 text at scale 1 on a transparent background.
func DefaultStyle() TextStyle {
	return TextStyle{Font: font.Font8x8, Scale: 1, Color: rgb565.White}
}

// MaxScale is the largest text scale. One glyph pixel at MaxScale already
// covers any panel.
const MaxScale = 1024

func (s TextStyle) scale() int {
	return min(max(s.Scale, 1), MaxScale)
}

// maxCells bounds the opaque glyph cache.
const maxCells = 256

type cellKey struct {
	font   font.ID
	r      rune
	scale  int
	fg, bg rgb565.Color
}

// DrawText draws text with its top-left corner at (x, y) using c.Style with
// the given scale and color.
func (c *Canvas) DrawText(x, y int, text string, scale int, col rgb565.Color) error {
	s := c.Style
	s.Scale = scale
	s.Color = col
	return c.DrawTextStyle(x, y, text, s)
}

// DrawTextStyle draws text with its top-left corner at (x, y).
//
// '\n' moves to the start of the next line. Runes missing from the font are
// skipped without advancing the cursor.
func (c *Canvas) DrawTextStyle(x, y int, text string, s TextStyle) error {
	b := c.t.Bounds()
	scale := s.scale()
	lineHeight := c.fonts.LineHeight(s.Font) * scale
	cx, cy := x, y
	for _, r := range text {
		if r == '\n' {
			cx = x
			cy += lineHeight
			continue
		}
		g, err := c.fonts.Glyph(s.Font, r)
		if err != nil {
			c.log().Debug("gfx: skipping glyph", "err", err)
			continue
		}
		if s.Opaque {
			err = c.drawCell(b, cx, cy, r, g, s)
		} else {
			err = c.drawGlyph(b, cx, cy, g, s.Color, scale)
		}
		if err != nil {
			return err
		}
		cx += g.Advance*scale + s.Spacing
	}
	return nil
}

// drawGlyph writes each horizontal run of set bits as one scale-tall block.
// Unset bits are left untouched.
func (c *Canvas) drawGlyph(b image.Rectangle, x, y int, g font.Glyph, col rgb565.Color, scale int) error {
	for gy := 0; gy < g.Height; gy++ {
		top := y + gy*scale
		if top >= b.Max.Y || top+scale <= b.Min.Y {
			continue
		}
		for gx := 0; gx < g.Width; {
			if !g.Set(gx, gy) {
				gx++
				continue
			}
			start := gx
			for gx < g.Width && g.Set(gx, gy) {
				gx++
			}
			r := image.Rect(x+start*scale, top, x+gx*scale, top+scale)
			if err := c.fill(b, r, col); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawCell writes the whole glyph cell, foreground and background, as one
// window. Cells fully inside b are cached.
func (c *Canvas) drawCell(b image.Rectangle, x, y int, r rune, g font.Glyph, s TextStyle) error {
	scale := s.scale()
	cell := image.Rect(x, y, x+g.Width*scale, y+g.Height*scale)
	clip := geom.ClipRect(cell, b)
	if clip.Empty() {
		return nil
	}
	if clip == cell {
		k := cellKey{font: s.Font, r: r, scale: scale, fg: s.Color, bg: s.Background}
		pix, ok := c.cells[k]
		if !ok {
			pix = renderCell(cell, cell, g, s)
			if c.cells == nil || len(c.cells) >= maxCells {
				c.cells = make(map[cellKey][]rgb565.Color)
			}
			c.cells[k] = pix
		}
		return c.t.WriteRect(cell, pix)
	}
	return c.t.WriteRect(clip, renderCell(cell, clip, g, s))
}

// renderCell expands the part clip of the glyph cell into pixels.
func renderCell(cell, clip image.Rectangle, g font.Glyph, s TextStyle) []rgb565.Color {
	scale := s.scale()
	pix := make([]rgb565.Color, 0, clip.Dx()*clip.Dy())
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		gy := (y - cell.Min.Y) / scale
		for x := clip.Min.X; x < clip.Max.X; x++ {
			if g.Set((x-cell.Min.X)/scale, gy) {
				pix = append(pix, s.Color)
			} else {
				pix = append(pix, s.Background)
			}
		}
	}
	return pix
}

// TextWidth returns the width in pixels of the widest line of text.
func (c *Canvas) TextWidth(text string, s TextStyle) int {
	scale := s.scale()
	widest, w, n := 0, 0, 0
	for _, r := range text {
		if r == '\n' {
			widest = max(widest, lineWidth(w, n, s.Spacing))
			w, n = 0, 0
			continue
		}
		g, ok := c.fonts.Lookup(s.Font, r)
		if !ok {
			continue
		}
		w += g.Advance * scale
		n++
	}
	return max(widest, lineWidth(w, n, s.Spacing))
}

func lineWidth(w, n, spacing int) int {
	if n == 0 {
		return 0
	}
	return w + (n-1)*spacing
}

// TextHeight returns the height in pixels of text, one line height per line.
func (c *Canvas) TextHeight(text string, s TextStyle) int {
	lines := 1
	for _, r := range text {
		if r == '\n' {
			lines++
		}
	}
	return lines * c.fonts.LineHeight(s.Font) * s.scale()
}

// DrawCenteredText draws text horizontally centered on row y.
func (c *Canvas) DrawCenteredText(y int, text string, s TextStyle) error {
	b := c.t.Bounds()
	x := b.Min.X + (b.Dx()-c.TextWidth(text, s))/2
	return c.DrawTextStyle(x, y, text, s)
}
