// Package st7796 controls a ST7796 TFT LCD controller via SPI.
//
// The ST7796 is a 16.7M-color TFT controller driving panels of up to 320×480
// pixels, commonly sold as 3.5" and 4" SPI modules. This driver implements
// the display.Drawer interface from periph.io and keeps no framebuffer: each
// operation sets an addressing window on the controller and streams pixels
// into it.
//
// # Display Characteristics
//
// - 320×480 native resolution, portrait
// - 16-bit RGB565 (default) or 18-bit RGB666 interface pixel format
// - Four rotations in 90° steps through the memory access control register
// - Display inversion, sleep mode and vertical scrolling
//
// # Hardware Connection
//
// Connect the ST7796 module to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/SCK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC/RS       → GPIO (any available pin)
//	CS          → SPI Chip Select, or a GPIO passed as Opts.CS
//	RST         → Optional: GPIO for hardware reset
//	LED/BL      → 3.3V or a GPIO for backlight control
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/devices/v3/st7796"
//		"periph.io/x/devices/v3/st7796/geom"
//		"periph.io/x/devices/v3/st7796/rgb565"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		p, _ := spireg.Open("")
//		defer p.Close()
//
//		dev, _ := st7796.NewSPI(p, gpioreg.ByName("GPIO24"), &st7796.Opts{
//			W:        320,
//			H:        480,
//			Rotation: geom.Rotate90,
//			RST:      gpioreg.ByName("GPIO25"),
//		})
//		defer dev.Halt()
//
//		dev.FillScreen(rgb565.Black)
//		dev.FillRect(image.Rect(10, 10, 110, 60), rgb565.Red)
//	}
//
// # Drawing
//
// FillRect, WriteRect and Draw each send one window and one pixel stream.
// For lines, circles, triangles and text, wrap the device in a gfx.Canvas,
// which decomposes shapes into the fewest rectangles it can:
//
//	c := gfx.New(dev, nil)
//	c.DrawLine(0, 0, 479, 319, rgb565.Yellow)
//	c.FillCircle(240, 160, 50, rgb565.Blue)
//	c.DrawText(10, 10, "Hello", 2, rgb565.White)
//
// Low level access is available through SetWindow and WritePixels. The window
// corners are inclusive and WritePixels must carry exactly the number of
// pixels the window holds:
//
//	dev.SetWindow(0, 0, 9, 9)
//	dev.WritePixels(make([]rgb565.Color, 100))
//
// # Coordinates
//
// All coordinates are logical: (0, 0) is the top-left corner for the current
// rotation and Bounds() is 320×480 at 0° and 180°, 480×320 at 90° and 270°.
// Rectangles outside Bounds are rejected with an error wrapping
// ErrOutOfBounds. The geom package converts between logical and physical
// coordinates.
//
// # Errors
//
// A failed SPI transfer or GPIO write leaves the controller in an unknown
// state. The error wraps ErrTransport and the device refuses everything but
// Init until it is reinitialized.
//
// # Datasheet
//
// https://www.displayfuture.com/Display/datasheet/controller/ST7796s.pdf
package st7796
