// Package rgb565 provides the RGB565 color type and a matching image format.
package rgb565

import (
	"image"
	"image/color"
)

// Color is a packed 16-bit RGB565 pixel: rrrrrggg gggbbbbb.
//
// Build it with FromRGB or Model.Convert so the channel widths stay right.
type Color uint16

// Named colors, as packed by FromRGB.
const (
	Black     Color = 0x0000 // FromRGB(0x00, 0x00, 0x00)
	White     Color = 0xFFFF // FromRGB(0xFF, 0xFF, 0xFF)
	Red       Color = 0xF800 // FromRGB(0xFF, 0x00, 0x00)
	Green     Color = 0x07E0 // FromRGB(0x00, 0xFF, 0x00)
	Blue      Color = 0x001F // FromRGB(0x00, 0x00, 0xFF)
	Yellow    Color = 0xFFE0 // FromRGB(0xFF, 0xFF, 0x00)
	Cyan      Color = 0x07FF // FromRGB(0x00, 0xFF, 0xFF)
	Magenta   Color = 0xF81F // FromRGB(0xFF, 0x00, 0xFF)
	Orange    Color = 0xFD20 // FromRGB(0xFF, 0xA4, 0x00)
	Gray      Color = 0x8410 // FromRGB(0x80, 0x80, 0x80)
	DarkGreen Color = 0x0400 // FromRGB(0x00, 0x80, 0x00)
)

// FromRGB packs 8-bit channels into RGB565 by dropping the low bits of each
// channel.
func FromRGB(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// RGB expands the color back to 8-bit channels. The high bits are replicated
// into the low bits so White maps to 0xFF and not 0xF8.
func (c Color) RGB() (r, g, b uint8) {
	r5 := uint8(c >> 11)
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8) * 0x101
	g = uint32(g8) * 0x101
	b = uint32(b8) * 0x101
	return r, g, b, 0xFFFF
}

// Bytes returns the big-endian wire encoding of the color.
func (c Color) Bytes() [2]byte {
	return [2]byte{byte(c >> 8), byte(c)}
}

// RGB666 returns the 18-bit wire encoding of the color: one byte per channel,
// 6 significant bits left-aligned.
func (c Color) RGB666() [3]byte {
	r, g, b := c.RGB()
	return [3]byte{r & 0xFC, g & 0xFC, b & 0xFC}
}

func toRGB565(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return FromRGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts colors to Color.
var Model = color.ModelFunc(toRGB565)

// Image is an RGB565 image. Pixels are stored big-endian, 2 bytes per pixel,
// in the same order the controller expects them in a memory write.
type Image struct {
	Pix    []byte          // Pixel data (2 bytes per pixel)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewImage creates a new Image with the specified bounds.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Image) ColorModel() color.Model {
	return Model
}

// Bounds returns the image bounds.
func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

// Opaque reports that every pixel is opaque.
func (p *Image) Opaque() bool {
	return true
}

// At implements image.Image.
func (p *Image) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

// RGB565At returns the color of the pixel at (x, y).
func (p *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	i := p.PixOffset(x, y)
	return Color(p.Pix[i])<<8 | Color(p.Pix[i+1])
}

// Set implements draw.Image.
func (p *Image) Set(x, y int, c color.Color) {
	p.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the pixel at (x, y) without color conversion.
func (p *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	p.Pix[i] = byte(c >> 8)
	p.Pix[i+1] = byte(c)
}

// Fill sets every pixel to c.
func (p *Image) Fill(c Color) {
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i+1 < len(p.Pix); i += 2 {
		p.Pix[i] = hi
		p.Pix[i+1] = lo
	}
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}
