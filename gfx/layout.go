package gfx

import (
	"time"

	"periph.io/x/devices/v3/st7796/rgb565"
)

// Screen furniture: a title bar along the top edge, a date and time bar along
// the bottom edge and underlined section titles. Text uses the canvas font.

// HeaderHeight is the height of the bar drawn by DrawHeader.
const HeaderHeight = 30

// FooterHeight is the height of the bar drawn by DrawFooter, separator line
// included.
const FooterHeight = 21

// DrawHeader fills the top HeaderHeight rows with bg and writes text at scale
// 2 in fg. A non-empty mode is shown as "Mode: <mode>" right aligned.
func (c *Canvas) DrawHeader(text, mode string, bg, fg rgb565.Color) error {
	b := c.t.Bounds()
	if err := c.FillRect(b.Min.X, b.Min.Y, b.Dx(), HeaderHeight, bg); err != nil {
		return err
	}
	s := c.Style
	s.Opaque = false
	s.Color = fg
	s.Scale = 2
	if err := c.DrawTextStyle(b.Min.X+10, b.Min.Y+10, text, s); err != nil {
		return err
	}
	if mode == "" {
		return nil
	}
	s.Scale = 1
	m := "Mode: " + mode
	return c.DrawTextStyle(b.Max.X-c.TextWidth(m, s)-10, b.Min.Y+15, m, s)
}

// DrawFooter draws a separator line in line color above a bg bar holding the
// date (left) and time (right) of now in fg.
func (c *Canvas) DrawFooter(now time.Time, bg, fg, line rgb565.Color) error {
	b := c.t.Bounds()
	if err := c.DrawHLine(b.Min.X, b.Max.Y-FooterHeight, b.Dx(), line); err != nil {
		return err
	}
	if err := c.FillRect(b.Min.X, b.Max.Y-FooterHeight+1, b.Dx(), FooterHeight-1, bg); err != nil {
		return err
	}
	s := c.Style
	s.Opaque = false
	s.Color = fg
	s.Scale = 1
	if err := c.DrawTextStyle(b.Min.X+10, b.Max.Y-15, now.Format("02/01/2006"), s); err != nil {
		return err
	}
	clock := now.Format("15:04:05")
	return c.DrawTextStyle(b.Max.X-c.TextWidth(clock, s)-10, b.Max.Y-15, clock, s)
}

// DrawSectionTitle writes title at scale 1 with a line under it, 10 pixels
// below its top.
func (c *Canvas) DrawSectionTitle(x, y int, title string, col rgb565.Color) error {
	s := c.Style
	s.Opaque = false
	s.Color = col
	s.Scale = 1
	if err := c.DrawTextStyle(x, y, title, s); err != nil {
		return err
	}
	return c.DrawHLine(x, y+10, c.TextWidth(title, s), col)
}
