package gfx

import (
	"cmp"
	"fmt"
	"image"
	"math"
	"slices"

	"periph.io/x/devices/v3/st7796/rgb565"
)

// DrawTriangle draws the outline of the triangle p0, p1, p2.
func (c *Canvas) DrawTriangle(p0, p1, p2 image.Point, col rgb565.Color) error {
	if err := c.DrawLine(p0.X, p0.Y, p1.X, p1.Y, col); err != nil {
		return err
	}
	if err := c.DrawLine(p1.X, p1.Y, p2.X, p2.Y, col); err != nil {
		return err
	}
	return c.DrawLine(p2.X, p2.Y, p0.X, p0.Y, col)
}

// FillTriangle fills the triangle p0, p1, p2 one scanline at a time. Each row
// from the top vertex to the bottom vertex is written exactly once, spanning
// the leftmost to the rightmost edge crossing of that row.
func (c *Canvas) FillTriangle(p0, p1, p2 image.Point, col rgb565.Color) error {
	b := c.t.Bounds()
	edges := [3][2]image.Point{{p0, p1}, {p1, p2}, {p2, p0}}
	top := min(p0.Y, p1.Y, p2.Y)
	bottom := max(p0.Y, p1.Y, p2.Y)

	for y := max(top, b.Min.Y); y <= min(bottom, b.Max.Y-1); y++ {
		lo, hi := math.MaxInt, math.MinInt
		for _, e := range edges {
			a, z := e[0], e[1]
			if a.Y > z.Y {
				a, z = z, a
			}
			if y < a.Y || y > z.Y {
				continue
			}
			if a.Y == z.Y {
				lo = min(lo, a.X, z.X)
				hi = max(hi, a.X, z.X)
				continue
			}
			// Rounded half away from a.X.
			x := toward(a.X, z.X, mulDivRound(dist(y, a.Y), dist(a.X, z.X), dist(a.Y, z.Y)))
			lo = min(lo, x)
			hi = max(hi, x)
		}
		if lo > hi || hi < b.Min.X || lo >= b.Max.X {
			continue
		}
		r := image.Rect(max(lo, b.Min.X), y, min(hi, b.Max.X-1)+1, y+1)
		if err := c.fill(b, r, col); err != nil {
			return err
		}
	}
	return nil
}

// circleRows calls fn with each row of b within r rows of cy and its
// distance from cy.
func circleRows(b image.Rectangle, cy, r int, fn func(y, dy int) error) error {
	for y := b.Min.Y; y < b.Max.Y; y++ {
		d := dist(y, cy)
		if d > uint64(r) {
			continue
		}
		if err := fn(y, int(d)); err != nil {
			return err
		}
	}
	return nil
}

// fillOffsets fills the pixels cx+lo through cx+hi of row y.
func (c *Canvas) fillOffsets(b image.Rectangle, cx, y, lo, hi int, col rgb565.Color) error {
	lo = max(lo, satSub(b.Min.X, cx))
	hi = min(hi, satSub(b.Max.X-1, cx))
	if lo > hi {
		return nil
	}
	return c.fill(b, image.Rect(cx+lo, y, cx+hi+1, y+1), col)
}

// DrawCircle draws the midpoint circle outline of radius r centered on
// (cx, cy). Each outline pixel is written once; pixels of the same row that
// touch are merged into one run. r = 0 draws the center pixel.
//
// Only rows inside the bounds are computed, so the radius is not limited by
// the panel size.
func (c *Canvas) DrawCircle(cx, cy, r int, col rgb565.Color) error {
	if r < 0 {
		return nil
	}
	b := c.t.Bounds()
	a := newArc(r)
	var right, runs []span
	return circleRows(b, cy, r, func(y, dy int) error {
		right = a.row(dy, right[:0])
		runs = runs[:0]
		for _, s := range right {
			runs = append(runs, s, span{-s.hi, -s.lo})
		}
		if len(runs) == 0 {
			return nil
		}
		slices.SortFunc(runs, func(p, q span) int { return cmp.Compare(p.lo, q.lo) })
		cur := runs[0]
		for _, s := range runs[1:] {
			if s.lo <= cur.hi+1 {
				cur.hi = max(cur.hi, s.hi)
				continue
			}
			if err := c.fillOffsets(b, cx, y, cur.lo, cur.hi, col); err != nil {
				return err
			}
			cur = s
		}
		return c.fillOffsets(b, cx, y, cur.lo, cur.hi, col)
	})
}

// FillCircle fills the circle of radius r centered on (cx, cy) with one
// horizontal chord per row. The chords end on the DrawCircle outline.
func (c *Canvas) FillCircle(cx, cy, r int, col rgb565.Color) error {
	if r < 0 {
		return nil
	}
	b := c.t.Bounds()
	a := newArc(r)
	var right []span
	return circleRows(b, cy, r, func(y, dy int) error {
		right = a.row(dy, right[:0])
		hw := 0
		for _, s := range right {
			hw = max(hw, s.hi)
		}
		return c.fillOffsets(b, cx, y, -hw, hw, col)
	})
}

// Kind selects the primitive of a Shape.
type Kind uint8

const (
	Pixel Kind = iota
	Line
	Rect
	Triangle
	Circle
)

func (k Kind) String() string {
	switch k {
	case Pixel:
		return "pixel"
	case Line:
		return "line"
	case Rect:
		return "rect"
	case Triangle:
		return "triangle"
	case Circle:
		return "circle"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Shape is a one-off drawing request.
//
//	Pixel:    P[0]
//	Line:     P[0] to P[1]
//	Rect:     origin P[0], size W×H
//	Triangle: P[0], P[1], P[2]
//	Circle:   center P[0], radius R
type Shape struct {
	Kind   Kind
	P      [3]image.Point
	W, H   int
	R      int
	Color  rgb565.Color
	Filled bool
}

// Draw rasterizes s.
func (c *Canvas) Draw(s Shape) error {
	p := s.P
	switch s.Kind {
	case Pixel:
		return c.DrawPixel(p[0].X, p[0].Y, s.Color)
	case Line:
		return c.DrawLine(p[0].X, p[0].Y, p[1].X, p[1].Y, s.Color)
	case Rect:
		if s.Filled {
			return c.FillRect(p[0].X, p[0].Y, s.W, s.H, s.Color)
		}
		return c.DrawRect(p[0].X, p[0].Y, s.W, s.H, s.Color)
	case Triangle:
		if s.Filled {
			return c.FillTriangle(p[0], p[1], p[2], s.Color)
		}
		return c.DrawTriangle(p[0], p[1], p[2], s.Color)
	case Circle:
		if s.Filled {
			return c.FillCircle(p[0].X, p[0].Y, s.R, s.Color)
		}
		return c.DrawCircle(p[0].X, p[0].Y, s.R, s.Color)
	}
	return fmt.Errorf("gfx: unknown shape kind %d", s.Kind)
}
