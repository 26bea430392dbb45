package rgb565

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestFromRGB(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Color
	}{
		{"black", 0x00, 0x00, 0x00, 0x0000},
		{"white", 0xFF, 0xFF, 0xFF, 0xFFFF},
		{"red", 0xFF, 0x00, 0x00, 0xF800},
		{"green", 0x00, 0xFF, 0x00, 0x07E0},
		{"blue", 0x00, 0x00, 0xFF, 0x001F},
		{"low bits dropped", 0x07, 0x03, 0x07, 0x0000},
		{"mixed", 0x12, 0x34, 0x56, 0x11AA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromRGB(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("FromRGB(%#x, %#x, %#x) = %#04x, want %#04x", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestNamedColors(t *testing.T) {
	tests := []struct {
		name    string
		c       Color
		r, g, b uint8
	}{
		{"Black", Black, 0x00, 0x00, 0x00},
		{"White", White, 0xFF, 0xFF, 0xFF},
		{"Red", Red, 0xFF, 0x00, 0x00},
		{"Green", Green, 0x00, 0xFF, 0x00},
		{"Blue", Blue, 0x00, 0x00, 0xFF},
		{"Yellow", Yellow, 0xFF, 0xFF, 0x00},
		{"Cyan", Cyan, 0x00, 0xFF, 0xFF},
		{"Magenta", Magenta, 0xFF, 0x00, 0xFF},
		{"Orange", Orange, 0xFF, 0xA4, 0x00},
		{"Gray", Gray, 0x80, 0x80, 0x80},
		{"DarkGreen", DarkGreen, 0x00, 0x80, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if want := FromRGB(tt.r, tt.g, tt.b); tt.c != want {
				t.Errorf("%s = %#04x, FromRGB gives %#04x", tt.name, tt.c, want)
			}
		})
	}
}

func TestColorRGBExpansion(t *testing.T) {
	tests := []struct {
		c       Color
		r, g, b uint8
	}{
		{Black, 0x00, 0x00, 0x00},
		{White, 0xFF, 0xFF, 0xFF},
		{Red, 0xFF, 0x00, 0x00},
		{Gray, 0x84, 0x82, 0x84},
	}

	for _, tt := range tests {
		r, g, b := tt.c.RGB()
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("%#04x.RGB() = (%#x, %#x, %#x), want (%#x, %#x, %#x)", tt.c, r, g, b, tt.r, tt.g, tt.b)
		}
		// Packing the expanded channels must give back the same color.
		if back := FromRGB(r, g, b); back != tt.c {
			t.Errorf("FromRGB(%#04x.RGB()) = %#04x", tt.c, back)
		}
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := White.RGBA()
	if r != 0xFFFF || g != 0xFFFF || b != 0xFFFF || a != 0xFFFF {
		t.Errorf("White.RGBA() = (%x, %x, %x, %x)", r, g, b, a)
	}
	r, g, b, a = Black.RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0xFFFF {
		t.Errorf("Black.RGBA() = (%x, %x, %x, %x)", r, g, b, a)
	}
}

func TestColorWireEncodings(t *testing.T) {
	if got := Orange.Bytes(); got != [2]byte{0xFD, 0x20} {
		t.Errorf("Orange.Bytes() = %x", got)
	}
	if got := White.RGB666(); got != [3]byte{0xFC, 0xFC, 0xFC} {
		t.Errorf("White.RGB666() = %x", got)
	}
	if got := Red.RGB666(); got != [3]byte{0xFC, 0x00, 0x00} {
		t.Errorf("Red.RGB666() = %x", got)
	}
}

func TestModelConvert(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  Color
	}{
		{"passthrough", Color(0x1234), 0x1234},
		{"black", color.Black, Black},
		{"white", color.White, White},
		{"rgba red", color.RGBA{0xFF, 0x00, 0x00, 0xFF}, Red},
		{"gray16", color.Gray16{Y: 0x8080}, Gray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Model.Convert(tt.input).(Color); got != tt.want {
				t.Errorf("Model.Convert(%v) = %#04x, want %#04x", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewImage(t *testing.T) {
	tests := []struct {
		name       string
		rect       image.Rectangle
		wantStride int
		wantPixLen int
	}{
		{"320x480", image.Rect(0, 0, 320, 480), 640, 307200},
		{"3x2", image.Rect(0, 0, 3, 2), 6, 12},
		{"offset rect", image.Rect(10, 20, 14, 22), 8, 16},
		{"empty", image.Rect(0, 0, 0, 5), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(tt.rect)
			if img.Rect != tt.rect {
				t.Errorf("Rect = %v, want %v", img.Rect, tt.rect)
			}
			if img.Stride != tt.wantStride {
				t.Errorf("Stride = %d, want %d", img.Stride, tt.wantStride)
			}
			if len(img.Pix) != tt.wantPixLen {
				t.Errorf("len(Pix) = %d, want %d", len(img.Pix), tt.wantPixLen)
			}
		})
	}
}

func TestImageByteOrder(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 2, 1))
	img.SetRGB565(0, 0, Red)
	img.SetRGB565(1, 0, Blue)

	want := []byte{0xF8, 0x00, 0x00, 0x1F}
	for i, b := range want {
		if img.Pix[i] != b {
			t.Errorf("Pix[%d] = 0x%02X, want 0x%02X", i, img.Pix[i], b)
		}
	}
}

func TestImageSetGet(t *testing.T) {
	img := NewImage(image.Rect(5, 5, 8, 7))
	colors := [][3]Color{
		{Red, Green, Blue},
		{Cyan, Magenta, Yellow},
	}
	for y, row := range colors {
		for x, c := range row {
			img.Set(5+x, 5+y, c)
		}
	}
	for y, row := range colors {
		for x, want := range row {
			if got := img.RGB565At(5+x, 5+y); got != want {
				t.Errorf("RGB565At(%d, %d) = %#04x, want %#04x", 5+x, 5+y, got, want)
			}
		}
	}
}

func TestImageOutOfBounds(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 2, 2))
	img.Fill(White)

	// Writes outside the rectangle are ignored.
	img.SetRGB565(-1, 0, Red)
	img.SetRGB565(2, 0, Red)
	img.SetRGB565(0, 2, Red)
	for i := 0; i < len(img.Pix); i++ {
		if img.Pix[i] != 0xFF {
			t.Fatalf("Pix[%d] = 0x%02X after out of bounds write", i, img.Pix[i])
		}
	}
	if got := img.RGB565At(5, 5); got != Black {
		t.Errorf("RGB565At outside bounds = %#04x, want Black", got)
	}
}

func TestImageDraw(t *testing.T) {
	img := NewImage(image.Rect(0, 0, 4, 4))
	draw.Draw(img, image.Rect(1, 1, 3, 3), image.NewUniform(color.RGBA{0, 0xFF, 0, 0xFF}), image.Point{}, draw.Src)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := Black
			if x >= 1 && x < 3 && y >= 1 && y < 3 {
				want = Green
			}
			if got := img.RGB565At(x, y); got != want {
				t.Errorf("RGB565At(%d, %d) = %#04x, want %#04x", x, y, got, want)
			}
		}
	}
}

func TestImageInterfaces(t *testing.T) {
	var _ image.Image = &Image{}
	var _ draw.Image = &Image{}

	img := NewImage(image.Rect(0, 0, 1, 1))
	if img.ColorModel() != Model {
		t.Error("ColorModel() did not return Model")
	}
	if !img.Opaque() {
		t.Error("Opaque() = false")
	}
}
