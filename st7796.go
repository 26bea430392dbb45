// Package st7796 controls a ST7796 TFT LCD controller via SPI.
//
// The ST7796 drives panels of up to 320x480 pixels in 16-bit (RGB565) or
// 18-bit (RGB666) color. The driver keeps no framebuffer: every operation is
// an addressing window followed by a pixel stream.
//
// See the examples for how to use this package.
package st7796

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/st7796/geom"
	"periph.io/x/devices/v3/st7796/rgb565"
)

const (
	cmdSWRESET = 0x01 // Software reset
	cmdSLPIN   = 0x10 // Sleep in
	cmdSLPOUT  = 0x11 // Sleep out
	cmdINVOFF  = 0x20 // Display inversion off
	cmdINVON   = 0x21 // Display inversion on
	cmdDISPOFF = 0x28 // Display off
	cmdDISPON  = 0x29 // Display on
	cmdCASET   = 0x2A // Column address set
	cmdRASET   = 0x2B // Row address set
	cmdRAMWR   = 0x2C // Memory write
	cmdVSCRDEF = 0x33 // Vertical scrolling definition
	cmdMADCTL  = 0x36 // Memory data access control
	cmdVSCSAD  = 0x37 // Vertical scroll start address
	cmdCOLMOD  = 0x3A // Interface pixel format
	cmdDIC     = 0xB4 // Display inversion control
	cmdEM      = 0xB7 // Entry mode set
	cmdPWR1    = 0xC0 // Power control 1
	cmdPWR2    = 0xC1 // Power control 2
	cmdPWR3    = 0xC2 // Power control 3
	cmdVCMPCTL = 0xC5 // VCOM control
	cmdPGC     = 0xE0 // Positive gamma control
	cmdNGC     = 0xE1 // Negative gamma control
	cmdDOCA    = 0xE8 // Display output ctrl adjust
	cmdCSCON   = 0xF0 // Command set control
)

// Memory data access control bits.
const (
	madctlMY  = 0x80 // Row address order
	madctlMX  = 0x40 // Column address order
	madctlMV  = 0x20 // Row/column exchange
	madctlBGR = 0x08 // BGR subpixel order
)

// Native panel geometry.
const (
	maxWidth  = 320
	maxHeight = 480
)

// PixelFormat is the interface pixel format used for memory writes.
type PixelFormat uint8

const (
	// RGB565 sends 2 bytes per pixel, big-endian.
	RGB565 PixelFormat = iota
	// RGB666 sends 3 bytes per pixel, 6 significant bits per channel,
	// left-aligned in each byte.
	RGB666
)

// BytesPerPixel returns the number of bytes one pixel takes on the wire.
func (f PixelFormat) BytesPerPixel() int {
	if f == RGB666 {
		return 3
	}
	return 2
}

func (f PixelFormat) String() string {
	if f == RGB666 {
		return "RGB666"
	}
	return "RGB565"
}

func (f PixelFormat) colmod() byte {
	if f == RGB666 {
		return 0x66
	}
	return 0x55
}

func (f PixelFormat) append(b []byte, c rgb565.Color) []byte {
	if f == RGB666 {
		p := c.RGB666()
		return append(b, p[0], p[1], p[2])
	}
	return append(b, byte(c>>8), byte(c))
}

// State is the lifecycle state of the controller as tracked by the driver.
type State uint8

const (
	Uninitialized State = iota
	Ready
	Asleep
	Faulted
	Halted
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Asleep:
		return "asleep"
	case Faulted:
		return "faulted"
	case Halted:
		return "halted"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Opts is the configuration for the ST7796 display.
type Opts struct {
	// Physical (unrotated, portrait) dimensions in pixels.
	W int // Width (default: 320, ≤320)
	H int // Height (default: 480, ≤480)

	Rotation geom.Rotation // Initial rotation
	Format   PixelFormat   // Interface pixel format (default: RGB565)
	Speed    physic.Frequency

	// RGB selects RGB subpixel order. Most ST7796 modules are wired BGR,
	// which is the default.
	RGB bool
	// NoInvert leaves display inversion off. IPS modules need it on, which is
	// the default.
	NoInvert bool

	// Optional pins. RST nil means software reset; CS nil means the SPI port
	// drives chip-select itself.
	RST gpio.PinOut
	CS  gpio.PinOut

	Logger *slog.Logger
}

// DefaultOpts is the configuration of the common 3.5" 320x480 module.
var DefaultOpts = Opts{
	W:     maxWidth,
	H:     maxHeight,
	Speed: 40 * physic.MegaHertz,
}

// Command is one controller command with its parameters and the delay the
// controller needs after it.
type Command struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

// Dev is the device handle for the ST7796 display.
//
// A Dev serializes its own operations. SetWindow followed by WritePixels is
// two operations, though: goroutines sharing a Dev must hold their own lock
// around the pair. FillRect, WriteRect, FillScreen and Draw are atomic.
type Dev struct {
	mu sync.Mutex

	// Communication
	c         conn.Conn
	dc        gpio.PinOut
	rst       gpio.PinOut
	cs        gpio.PinOut
	maxTxSize int
	cmdBuf    [1]byte
	buf       []byte

	// Configuration
	phys         image.Point
	format       PixelFormat
	bgr          bool
	invert       bool
	initRotation geom.Rotation
	log          *slog.Logger
	sleep        func(time.Duration)

	// Display state
	rotation geom.Rotation
	rect     image.Rectangle // Logical bounds
	window   image.Rectangle // Last armed window
	armed    int             // Pixels the armed window still expects
	state    State
}

// sleep is replaced in tests.
var sleep = time.Sleep

// NewSPI creates a new ST7796 device connected via SPI and initializes it.
//
// The SPI port is configured in Mode0 (CPOL=0, CPHA=0), 8-bit transfers. The
// dc (Data/Command) GPIO pin is required: the ST7796 is driven in 4-wire mode.
//
// opts can be nil to use DefaultOpts.
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil || dc == gpio.INVALID {
		return nil, errors.New("st7796: dc pin is required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.W == 0 && o.H == 0 {
		o.W, o.H = maxWidth, maxHeight
	}
	if o.W <= 0 || o.W > maxWidth {
		return nil, fmt.Errorf("st7796: width must be between 1 and %d", maxWidth)
	}
	if o.H <= 0 || o.H > maxHeight {
		return nil, fmt.Errorf("st7796: height must be between 1 and %d", maxHeight)
	}
	if o.Rotation > geom.Rotate270 {
		return nil, fmt.Errorf("st7796: invalid rotation %d", o.Rotation)
	}
	if o.Format > RGB666 {
		return nil, fmt.Errorf("st7796: invalid pixel format %d", o.Format)
	}
	if o.Speed == 0 {
		o.Speed = DefaultOpts.Speed
	}

	c, err := p.Connect(o.Speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("st7796: %w", err)
	}

	d := newDev(c, dc, &o)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(c conn.Conn, dc gpio.PinOut, o *Opts) *Dev {
	// Get the maxTxSize from the conn if it implements conn.Limits, otherwise
	// use 4096 bytes.
	maxTxSize := 0
	if limits, ok := c.(conn.Limits); ok {
		maxTxSize = limits.MaxTxSize()
	}
	if maxTxSize <= 0 {
		maxTxSize = 4096
	}
	// Whole pixels in both formats.
	bufLen := maxTxSize - maxTxSize%6
	if bufLen == 0 {
		bufLen = 6
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	phys := image.Point{X: o.W, Y: o.H}
	return &Dev{
		c:            c,
		dc:           dc,
		rst:          o.RST,
		cs:           o.CS,
		maxTxSize:    maxTxSize,
		buf:          make([]byte, 0, bufLen),
		phys:         phys,
		format:       o.Format,
		bgr:          !o.RGB,
		invert:       !o.NoInvert,
		initRotation: o.Rotation,
		log:          logger,
		sleep:        sleep,
		rotation:     o.Rotation,
		rect:         image.Rectangle{Max: geom.LogicalSize(phys, o.Rotation)},
	}
}

// Init resets the controller and sends the power-on sequence: sleep out,
// pixel format, panel tuning, display on, then the configured rotation.
//
// Init is the only operation accepted from the Uninitialized, Faulted and
// Halted states. A failure leaves the device Faulted.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.Debug("st7796: init", "size", d.phys, "format", d.format, "rotation", d.initRotation)
	d.disarm()
	if err := d.reset(); err != nil {
		return d.fault(err)
	}
	for _, c := range d.initSequence() {
		if err := d.send(c); err != nil {
			return err
		}
	}
	if err := d.setRotation(d.initRotation); err != nil {
		return err
	}
	d.state = Ready
	return nil
}

// reset pulses the hardware reset line. Chip-select is released first so the
// controller starts from an idle bus.
func (d *Dev) reset() error {
	if d.cs != nil {
		if err := d.cs.Out(gpio.High); err != nil {
			return fmt.Errorf("failed to release CS: %w", err)
		}
	}
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to pull RST high: %w", err)
	}
	d.sleep(50 * time.Millisecond)
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to pull RST low: %w", err)
	}
	d.sleep(100 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to pull RST high: %w", err)
	}
	d.sleep(50 * time.Millisecond)
	return nil
}

func (d *Dev) initSequence() []Command {
	var cmds []Command
	if d.rst == nil {
		cmds = append(cmds, Command{Cmd: cmdSWRESET, Delay: 150 * time.Millisecond})
	}
	cmds = append(cmds,
		Command{Cmd: cmdSLPOUT, Delay: 120 * time.Millisecond},
		Command{Cmd: cmdCOLMOD, Data: []byte{d.format.colmod()}},
		Command{Cmd: cmdCSCON, Data: []byte{0xC3}}, // Enable command set part 1
		Command{Cmd: cmdCSCON, Data: []byte{0x96}}, // Enable command set part 2
		Command{Cmd: cmdDIC, Data: []byte{0x02}},   // 2-dot inversion
		Command{Cmd: cmdEM, Data: []byte{0xC6}},
		Command{Cmd: cmdPWR1, Data: []byte{0xC0, 0x00}},
		Command{Cmd: cmdPWR2, Data: []byte{0x13}},
		Command{Cmd: cmdPWR3, Data: []byte{0xA7}},
		Command{Cmd: cmdVCMPCTL, Data: []byte{0x21}},
		Command{Cmd: cmdDOCA, Data: []byte{0x40, 0x8A, 0x1B, 0x1B, 0x23, 0x0A, 0xAC, 0x33}},
		Command{Cmd: cmdPGC, Data: []byte{0xD2, 0x05, 0x08, 0x06, 0x05, 0x02, 0x2A, 0x44, 0x46, 0x39, 0x15, 0x15, 0x2D, 0x32}},
		Command{Cmd: cmdNGC, Data: []byte{0x96, 0x08, 0x0C, 0x09, 0x09, 0x25, 0x2E, 0x43, 0x42, 0x35, 0x11, 0x11, 0x28, 0x2E}},
		Command{Cmd: cmdCSCON, Data: []byte{0x3C}}, // Disable command set part 1
		Command{Cmd: cmdCSCON, Data: []byte{0x69}, Delay: 120 * time.Millisecond},
	)
	if d.invert {
		cmds = append(cmds, Command{Cmd: cmdINVON})
	} else {
		cmds = append(cmds, Command{Cmd: cmdINVOFF})
	}
	return append(cmds, Command{Cmd: cmdDISPON, Delay: 20 * time.Millisecond})
}

// madctl returns the memory access control byte for a rotation. The 0° base
// mirrors columns; the other rotations are relative to it and match
// geom.ToPhysical.
func madctl(r geom.Rotation, bgr bool) byte {
	var b byte
	switch r {
	case geom.Rotate0:
		b = madctlMX
	case geom.Rotate90:
		b = madctlMY | madctlMX | madctlMV
	case geom.Rotate180:
		b = madctlMY
	case geom.Rotate270:
		b = madctlMV
	}
	if bgr {
		b |= madctlBGR
	}
	return b
}

// ready returns ErrNotReady unless the device accepts drawing operations.
func (d *Dev) ready() error {
	if d.state != Ready {
		return fmt.Errorf("%w (%s)", ErrNotReady, d.state)
	}
	return nil
}

func (d *Dev) disarm() {
	d.window = image.Rectangle{}
	d.armed = 0
}

// fault records a transport failure. The controller state is unknown from now
// on, so nothing but Init is accepted.
func (d *Dev) fault(err error) error {
	d.state = Faulted
	d.disarm()
	d.log.Error("st7796: transport failure", "err", err)
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

// transact runs fn with chip-select asserted and releases it afterwards.
// Errors are transport errors and fault the device.
func (d *Dev) transact(fn func() error) error {
	if d.cs != nil {
		if err := d.cs.Out(gpio.Low); err != nil {
			return d.fault(err)
		}
	}
	err := fn()
	if d.cs != nil {
		if err2 := d.cs.Out(gpio.High); err == nil {
			err = err2
		}
	}
	if err != nil {
		return d.fault(err)
	}
	return nil
}

// send sends one command as its own transaction and waits for its delay.
func (d *Dev) send(c Command) error {
	if err := d.transact(func() error { return d.writeCommand(c.Cmd, c.Data) }); err != nil {
		return err
	}
	if c.Delay > 0 {
		d.sleep(c.Delay)
	}
	return nil
}

// writeCommand sends a command byte with DC low, then its parameters with DC
// high.
func (d *Dev) writeCommand(cmd byte, params []byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	d.cmdBuf[0] = cmd
	if err := d.c.Tx(d.cmdBuf[:], nil); err != nil {
		return err
	}
	if len(params) == 0 {
		return nil
	}
	return d.writeData(params)
}

// writeData sends data bytes with DC high, split to the port's transfer limit.
func (d *Dev) writeData(data []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(data) != 0 {
		n := min(len(data), d.maxTxSize)
		if err := d.c.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// writeWindow sets the column and row address and starts a memory write.
// r is half-open and must lie within bounds.
func (d *Dev) writeWindow(r image.Rectangle) error {
	x0, x1 := r.Min.X, r.Max.X-1
	y0, y1 := r.Min.Y, r.Max.Y-1
	if err := d.writeCommand(cmdCASET, []byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}); err != nil {
		return err
	}
	if err := d.writeCommand(cmdRASET, []byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}); err != nil {
		return err
	}
	return d.writeCommand(cmdRAMWR, nil)
}

// stream encodes n pixels produced by at and sends them with DC high, one
// transfer per buffer.
func (d *Dev) stream(n int, at func(i int) rgb565.Color) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	per := max(cap(d.buf)/d.format.BytesPerPixel(), 1)
	for i := 0; i < n; {
		k := min(per, n-i)
		b := d.buf[:0]
		for j := 0; j < k; j++ {
			b = d.format.append(b, at(i+j))
		}
		if err := d.c.Tx(b, nil); err != nil {
			return err
		}
		i += k
	}
	return nil
}

// checkRect validates a non-empty rectangle against the logical bounds.
func (d *Dev) checkRect(op string, r image.Rectangle) error {
	if !r.In(d.rect) {
		return &BoundsError{Op: op, Rect: r, Bounds: d.rect}
	}
	return nil
}

// SetRotation sets the panel orientation. Width and height swap for 90° and
// 270°. Pixel RAM is left untouched and any armed window is dropped.
func (d *Dev) SetRotation(r geom.Rotation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	return d.setRotation(r)
}

func (d *Dev) setRotation(r geom.Rotation) error {
	if r > geom.Rotate270 {
		return fmt.Errorf("st7796: invalid rotation %d", r)
	}
	if err := d.send(Command{Cmd: cmdMADCTL, Data: []byte{madctl(r, d.bgr)}}); err != nil {
		return err
	}
	d.rotation = r
	d.rect = image.Rectangle{Max: geom.LogicalSize(d.phys, r)}
	d.disarm()
	d.log.Debug("st7796: rotation", "rotation", r, "bounds", d.rect)
	return nil
}

// Rotation returns the current rotation.
func (d *Dev) Rotation() geom.Rotation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rotation
}

// State returns the lifecycle state.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Format returns the interface pixel format.
func (d *Dev) Format() PixelFormat {
	return d.format
}

// PhysicalSize returns the unrotated panel size.
func (d *Dev) PhysicalSize() image.Point {
	return d.phys
}

// Window returns the armed addressing window, or an empty rectangle.
func (d *Dev) Window() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.armed == 0 {
		return image.Rectangle{}
	}
	return d.window
}

// SetWindow arms the addressing window with inclusive corners (x0, y0) and
// (x1, y1). The next WritePixels must carry exactly
// (x1-x0+1)*(y1-y0+1) colors.
func (d *Dev) SetWindow(x0, y0, x1, y1 int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	r := image.Rectangle{Min: image.Point{X: x0, Y: y0}, Max: image.Point{X: x1 + 1, Y: y1 + 1}}
	if x0 > x1 || y0 > y1 || !r.In(d.rect) {
		return &BoundsError{Op: "SetWindow", Rect: r, Bounds: d.rect}
	}
	d.disarm()
	if err := d.transact(func() error { return d.writeWindow(r) }); err != nil {
		return err
	}
	d.window = r
	d.armed = r.Dx() * r.Dy()
	return nil
}

// WritePixels streams colors into the window armed by SetWindow. The window
// is consumed; writing again requires a new SetWindow.
func (d *Dev) WritePixels(colors []rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	if d.armed == 0 {
		return fmt.Errorf("%w: WritePixels without an armed window", ErrInvariant)
	}
	if len(colors) != d.armed {
		err := fmt.Errorf("%w: window %v expects %d pixels, got %d", ErrInvariant, d.window, d.armed, len(colors))
		d.disarm()
		return err
	}
	d.disarm()
	return d.transact(func() error {
		return d.stream(len(colors), func(i int) rgb565.Color { return colors[i] })
	})
}

// FillRect fills r with one color in a single window. An empty r is a no-op;
// r must otherwise lie within Bounds.
func (d *Dev) FillRect(r image.Rectangle, c rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fillRect(r, c)
}

func (d *Dev) fillRect(r image.Rectangle, c rgb565.Color) error {
	if err := d.ready(); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := d.checkRect("FillRect", r); err != nil {
		return err
	}
	d.disarm()
	return d.transact(func() error {
		if err := d.writeWindow(r); err != nil {
			return err
		}
		return d.stream(r.Dx()*r.Dy(), func(int) rgb565.Color { return c })
	})
}

// WriteRect writes pix, row by row, into r in a single window. len(pix) must
// be r.Dx()*r.Dy().
func (d *Dev) WriteRect(r image.Rectangle, pix []rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := d.checkRect("WriteRect", r); err != nil {
		return err
	}
	if n := r.Dx() * r.Dy(); len(pix) != n {
		return fmt.Errorf("%w: rectangle %v needs %d pixels, got %d", ErrInvariant, r, n, len(pix))
	}
	d.disarm()
	return d.transact(func() error {
		if err := d.writeWindow(r); err != nil {
			return err
		}
		return d.stream(len(pix), func(i int) rgb565.Color { return pix[i] })
	})
}

// FillScreen sets every pixel to c.
func (d *Dev) FillScreen(c rgb565.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fillRect(d.rect, c)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. It returns the logical bounds for the
// current rotation; Min is always {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rect
}

// Draw implements display.Drawer.
//
// dst is clipped to the display; src is read starting at sp for the clipped
// region and streamed in a single window. Draw is synchronous.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}

	clipped := dst.Intersect(d.rect)
	if clipped.Empty() {
		return nil
	}
	sp = sp.Add(clipped.Min.Sub(dst.Min))
	w := clipped.Dx()

	at := func(i int) rgb565.Color {
		return rgb565.Model.Convert(src.At(sp.X+i%w, sp.Y+i/w)).(rgb565.Color)
	}
	// Fast path: no color conversion.
	if img, ok := src.(*rgb565.Image); ok {
		at = func(i int) rgb565.Color {
			return img.RGB565At(sp.X+i%w, sp.Y+i/w)
		}
	}

	d.disarm()
	return d.transact(func() error {
		if err := d.writeWindow(clipped); err != nil {
			return err
		}
		return d.stream(w*clipped.Dy(), at)
	})
}

// Write writes a full frame of raw pixel data in the configured pixel format,
// row by row in the current rotation. The data must be exactly
// width*height*Format().BytesPerPixel() bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return 0, err
	}
	if n := d.rect.Dx() * d.rect.Dy() * d.format.BytesPerPixel(); len(pixels) != n {
		return 0, fmt.Errorf("%w: invalid frame size; expected %d bytes, got %d bytes", ErrInvariant, n, len(pixels))
	}
	d.disarm()
	err := d.transact(func() error {
		if err := d.writeWindow(d.rect); err != nil {
			return err
		}
		return d.writeData(pixels)
	})
	if err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Invert turns display inversion on or off.
func (d *Dev) Invert(invert bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	cmd := byte(cmdINVOFF)
	if invert {
		cmd = cmdINVON
	}
	if err := d.send(Command{Cmd: cmd}); err != nil {
		return err
	}
	d.invert = invert
	return nil
}

// Sleep puts the controller in sleep mode. Pixel RAM is retained.
func (d *Dev) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.send(Command{Cmd: cmdSLPIN, Delay: 5 * time.Millisecond}); err != nil {
		return err
	}
	d.disarm()
	d.state = Asleep
	return nil
}

// Wake leaves sleep mode.
func (d *Dev) Wake() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Asleep {
		return fmt.Errorf("%w (%s)", ErrNotReady, d.state)
	}
	if err := d.send(Command{Cmd: cmdSLPOUT, Delay: 120 * time.Millisecond}); err != nil {
		return err
	}
	d.state = Ready
	return nil
}

// SetScrollArea defines the vertical scrolling area as the physical rows
// between a fixed top area of top rows and a fixed bottom area of bottom rows.
func (d *Dev) SetScrollArea(top, bottom int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	// VSCRDEF is defined over the full 480 line memory.
	scroll := maxHeight - top - bottom
	if top < 0 || bottom < 0 || scroll <= 0 {
		return fmt.Errorf("%w: scroll area top=%d bottom=%d", ErrOutOfBounds, top, bottom)
	}
	return d.send(Command{Cmd: cmdVSCRDEF, Data: []byte{
		byte(top >> 8), byte(top),
		byte(scroll >> 8), byte(scroll),
		byte(bottom >> 8), byte(bottom),
	}})
}

// Scroll sets the memory line shown at the top of the scrolling area.
func (d *Dev) Scroll(line int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.ready(); err != nil {
		return err
	}
	if line < 0 || line >= maxHeight {
		return fmt.Errorf("%w: scroll line %d", ErrOutOfBounds, line)
	}
	return d.send(Command{Cmd: cmdVSCSAD, Data: []byte{byte(line >> 8), byte(line)}})
}

// Halt turns the display off and puts the controller to sleep.
// After calling Halt, the display will not respond to further commands
// until Init is called again.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disarm()
	if d.state == Faulted || d.state == Uninitialized {
		d.state = Halted
		return nil
	}
	d.state = Halted
	if err := d.send(Command{Cmd: cmdDISPOFF}); err != nil {
		return err
	}
	return d.send(Command{Cmd: cmdSLPIN, Delay: 5 * time.Millisecond})
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("st7796.Dev{%dx%d, %s, %s}", d.rect.Dx(), d.rect.Dy(), d.rotation, d.format)
}

var _ display.Drawer = &Dev{}
