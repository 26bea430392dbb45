// Package font provides the bitmap glyph tables used for text rendering.
//
// A Table maps a (font ID, rune) pair to an immutable Glyph. Tables are built
// once, at startup, and only read afterwards. Glyphs can come from the
// built-in fonts, from any golang.org/x/image/font.Face, or from a TrueType
// file rasterized at a fixed size.
package font

import (
	"fmt"
	"math/bits"
	"slices"
	"sync"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ID names a font within a Table.
type ID string

// Built-in fonts of the Default table.
const (
	Font8x8   ID = "8x8"
	Basic7x13 ID = "7x13"
)

// MaxWidth is the widest glyph a Table accepts.
const MaxWidth = 32

// Glyph is the bitmap of one character at its base size.
type Glyph struct {
	Width   int
	Height  int
	Advance int // Horizontal cursor advance in pixels
	// Rows holds one bitmask per pixel row. Bit Width-1-x is pixel x, so the
	// leftmost pixel is the most significant used bit.
	Rows []uint32
}

// Set reports whether pixel (x, y) of the glyph is lit.
func (g Glyph) Set(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height || y >= len(g.Rows) {
		return false
	}
	return g.Rows[y]>>uint(g.Width-1-x)&1 == 1
}

// Key identifies a glyph in a Table.
type Key struct {
	Font ID
	Rune rune
}

// UnknownGlyphError is returned when a rune has no glyph in a font.
type UnknownGlyphError struct {
	Font ID
	Rune rune
}

func (e *UnknownGlyphError) Error() string {
	return fmt.Sprintf("font: no glyph for %q (%U) in font %q", e.Rune, e.Rune, e.Font)
}

// Table is a set of glyphs keyed by font and rune.
//
// A Table is not safe for concurrent mutation. Build it completely before
// sharing it; Lookup is safe for concurrent use once building is done.
type Table struct {
	glyphs     map[Key]Glyph
	lineHeight map[ID]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		glyphs:     make(map[Key]Glyph),
		lineHeight: make(map[ID]int),
	}
}

// Add stores a glyph. Replacing an existing glyph is allowed.
func (t *Table) Add(id ID, r rune, g Glyph) error {
	if g.Width <= 0 || g.Width > MaxWidth {
		return fmt.Errorf("font: glyph %q width %d out of range 1..%d", r, g.Width, MaxWidth)
	}
	if g.Height <= 0 || len(g.Rows) != g.Height {
		return fmt.Errorf("font: glyph %q has %d rows, want height %d", r, len(g.Rows), g.Height)
	}
	if g.Advance <= 0 {
		g.Advance = g.Width
	}
	g.Rows = slices.Clone(g.Rows)
	t.glyphs[Key{Font: id, Rune: r}] = g
	if g.Height > t.lineHeight[id] {
		t.lineHeight[id] = g.Height
	}
	return nil
}

// Lookup returns the glyph of r in font id. The boolean is false when the
// table has no such glyph.
func (t *Table) Lookup(id ID, r rune) (Glyph, bool) {
	g, ok := t.glyphs[Key{Font: id, Rune: r}]
	return g, ok
}

// Glyph is Lookup with an error result, for callers that report misses.
func (t *Table) Glyph(id ID, r rune) (Glyph, error) {
	g, ok := t.Lookup(id, r)
	if !ok {
		return Glyph{}, &UnknownGlyphError{Font: id, Rune: r}
	}
	return g, nil
}

// LineHeight returns the height of the tallest glyph of font id, or 0 when
// the font is unknown.
func (t *Table) LineHeight(id ID) int {
	return t.lineHeight[id]
}

// Fonts returns the font IDs present in the table, sorted.
func (t *Table) Fonts() []ID {
	ids := make([]ID, 0, len(t.lineHeight))
	for id := range t.lineHeight {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of glyphs in the table.
func (t *Table) Len() int {
	return len(t.glyphs)
}

// Clone returns an independent copy of the table, e.g. to extend Default().
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, g := range t.glyphs {
		c.glyphs[k] = g
	}
	for id, h := range t.lineHeight {
		c.lineHeight[id] = h
	}
	return c
}

// AddFace rasterizes runes from face and stores them as font id. Pixels whose
// coverage is at least half are lit. Runes the face lacks are skipped; the
// number of glyphs added is returned.
func (t *Table) AddFace(id ID, face xfont.Face, runes []rune) (int, error) {
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := (m.Ascent + m.Descent).Ceil()
	if height <= 0 {
		return 0, fmt.Errorf("font: face for %q has no height", id)
	}
	dot := fixed.P(0, ascent)
	n := 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			continue
		}
		width := advance.Ceil()
		if width > MaxWidth {
			return n, fmt.Errorf("font: glyph %q of %q is %d pixels wide, max %d", r, id, width, MaxWidth)
		}
		if width <= 0 {
			width = dr.Dx()
		}
		if width <= 0 {
			continue
		}
		rows := make([]uint32, height)
		for y := max(dr.Min.Y, 0); y < min(dr.Max.Y, height); y++ {
			for x := max(dr.Min.X, 0); x < min(dr.Max.X, width); x++ {
				_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					rows[y] |= 1 << uint(width-1-x)
				}
			}
		}
		if err := t.Add(id, r, Glyph{Width: width, Height: height, Advance: advance.Ceil(), Rows: rows}); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// AddTrueType parses a TrueType font, rasterizes runes at size points (72 DPI,
// so points equal pixels) and stores them as font id.
func (t *Table) AddTrueType(id ID, ttf []byte, size float64, runes []rune) (int, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return 0, fmt.Errorf("font: parse %q: %w", id, err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	defer face.Close()
	return t.AddFace(id, face, runes)
}

// ASCII returns the printable ASCII runes, ' ' through '~'.
func ASCII() []rune {
	runes := make([]rune, 0, 95)
	for r := rune(0x20); r <= 0x7E; r++ {
		runes = append(runes, r)
	}
	return runes
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the shared built-in table holding Font8x8 and Basic7x13.
// Do not Add to it; Clone it first.
func Default() *Table {
	defaultOnce.Do(func() {
		t := NewTable()
		for i, rows := range basic8x8 {
			g := Glyph{Width: 8, Height: 8, Advance: 8, Rows: make([]uint32, 8)}
			for y, b := range rows {
				g.Rows[y] = uint32(bits.Reverse8(b))
			}
			if err := t.Add(Font8x8, rune(0x20+i), g); err != nil {
				panic(err)
			}
		}
		if _, err := t.AddFace(Basic7x13, basicfont.Face7x13, ASCII()); err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}
