// Package rgb565 provides the 16-bit RGB565 color and image format used by the
// ST7796 display controller.
//
// Each pixel is 5 bits of red, 6 bits of green and 5 bits of blue packed in a
// uint16. On the wire and in Image.Pix the most significant byte is sent first.
//
// Memory layout example for a 2-pixel row:
//
//	Pixels: 0       1
//	Colors: Red     Blue
//	Value:  0xF800  0x001F
//	Bytes:  F8 00   00 1F
//
// This package provides:
//
// - Color: a packed RGB565 color, built with FromRGB or Model.Convert
// - Model: a color model converting standard Go colors to Color
// - Image: an image.Image implementation whose Pix can be streamed as-is
//
// Example usage:
//
//	img := rgb565.NewImage(image.Rect(0, 0, 320, 480))
//	img.SetRGB565(10, 20, rgb565.FromRGB(0x12, 0x34, 0x56))
//	draw.Draw(img, img.Bounds(), image.NewUniform(rgb565.Blue), image.Point{}, draw.Src)
package rgb565
