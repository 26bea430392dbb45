package httpdraw

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"periph.io/x/devices/v3/st7796"
	"periph.io/x/devices/v3/st7796/geom"
	"periph.io/x/devices/v3/st7796/gfx"
	"periph.io/x/devices/v3/st7796/rgb565"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    rgb565.Color
		wantErr bool
	}{
		{"#ff0000", rgb565.Red, false},
		{"00FF00", rgb565.Green, false},
		{" #0000ff ", rgb565.Blue, false},
		{"#ffffff", rgb565.White, false},
		{"#fff", 0, true},
		{"#gg0000", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseColor(%q) = %#04x, want %#04x", tt.in, uint16(got), uint16(tt.want))
			}
		})
	}
}

func TestInfo(t *testing.T) {
	_, dev, h := newTestServer()
	w := do(h, http.MethodGet, "/api/v1/info", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Code int      `json:"code"`
		Data infoResp `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Width != 320 || resp.Data.Height != 480 || resp.Data.Rotation != 0 {
		t.Errorf("info = %+v", resp.Data)
	}
	if len(resp.Data.Fonts) != 2 || resp.Data.Device != dev.String() {
		t.Errorf("info = %+v", resp.Data)
	}
}

func TestDrawRoutes(t *testing.T) {
	tests := []struct {
		path  string
		body  string
		check func(t *testing.T, dev *fakeDev)
	}{
		{"/api/v1/fill", `{"color":"#ff0000"}`, func(t *testing.T, dev *fakeDev) {
			if len(dev.pix) != 320*480 || dev.pix[image.Pt(319, 479)] != rgb565.Red {
				t.Error("screen not filled")
			}
		}},
		{"/api/v1/pixel", `{"x":3,"y":4,"color":"#00ff00"}`, func(t *testing.T, dev *fakeDev) {
			if len(dev.pix) != 1 || dev.pix[image.Pt(3, 4)] != rgb565.Green {
				t.Errorf("pixels = %v", dev.pix)
			}
		}},
		{"/api/v1/line", `{"x0":0,"y0":0,"x1":9,"y1":0,"color":"#ffffff"}`, func(t *testing.T, dev *fakeDev) {
			if dev.fills != 1 || len(dev.pix) != 10 {
				t.Errorf("%d fills, %d pixels", dev.fills, len(dev.pix))
			}
		}},
		{"/api/v1/rect", `{"x":10,"y":10,"w":5,"h":4,"color":"#ffffff","filled":true}`, func(t *testing.T, dev *fakeDev) {
			if dev.fills != 1 || len(dev.pix) != 20 {
				t.Errorf("%d fills, %d pixels", dev.fills, len(dev.pix))
			}
		}},
		{"/api/v1/rect", `{"x":10,"y":10,"w":5,"h":4,"color":"#ffffff"}`, func(t *testing.T, dev *fakeDev) {
			if len(dev.pix) != 14 {
				t.Errorf("%d pixels", len(dev.pix))
			}
		}},
		{"/api/v1/triangle", `{"points":[{"x":10,"y":0},{"x":0,"y":10},{"x":20,"y":10}],"color":"#ffff00","filled":true}`, func(t *testing.T, dev *fakeDev) {
			if dev.fills != 11 {
				t.Errorf("%d fills, want one per row", dev.fills)
			}
		}},
		{"/api/v1/circle", `{"x":50,"y":50,"r":0,"color":"#ffffff"}`, func(t *testing.T, dev *fakeDev) {
			if len(dev.pix) != 1 {
				t.Errorf("%d pixels", len(dev.pix))
			}
		}},
		{"/api/v1/circle", `{"x":50,"y":50,"r":10,"color":"#ffffff","filled":true}`, func(t *testing.T, dev *fakeDev) {
			if dev.fills != 21 {
				t.Errorf("%d fills, want one per row", dev.fills)
			}
		}},
		{"/api/v1/text", `{"x":0,"y":0,"text":"Hi","color":"#ffffff","background":"#000000","scale":2}`, func(t *testing.T, dev *fakeDev) {
			if dev.writes != 2 || len(dev.pix) != 2*16*16 {
				t.Errorf("%d writes, %d pixels", dev.writes, len(dev.pix))
			}
		}},
		{"/api/v1/text", `{"y":0,"text":"AB","color":"#ffffff","background":"#000000","center":true}`, func(t *testing.T, dev *fakeDev) {
			if _, ok := dev.pix[image.Pt(152, 0)]; !ok {
				t.Error("text not centered")
			}
		}},
		{"/api/v1/text", `{"x":0,"y":0,"text":"A","font":"7x13","color":"#ffffff","background":"#000000"}`, func(t *testing.T, dev *fakeDev) {
			if len(dev.pix) != 7*13 {
				t.Errorf("%d pixels", len(dev.pix))
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			_, dev, h := newTestServer()
			w := do(h, http.MethodPost, tt.path, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status %d: %s", w.Code, w.Body)
			}
			tt.check(t, dev)
		})
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		path string
		body string
	}{
		{"/api/v1/fill", `{`},
		{"/api/v1/fill", `{}`},
		{"/api/v1/fill", `{"color":"red"}`},
		{"/api/v1/pixel", `{"x":1,"y":1,"color":"#12345"}`},
		{"/api/v1/rotation", `{"degrees":45}`},
		{"/api/v1/triangle", `{"points":[{"x":1,"y":1}],"color":"#ffffff"}`},
		{"/api/v1/circle", `{"x":1,"y":1,"r":-1,"color":"#ffffff"}`},
		{"/api/v1/text", `{"text":"A","color":"#ffffff","font":"nope"}`},
		{"/api/v1/text", `{"text":"A","color":"#ffffff","background":"black"}`},
		{"/api/v1/text", `{"color":"#ffffff"}`},
		{"/api/v1/circle", `{"x":160,"y":240,"r":1152921504606846976,"color":"#ffffff","filled":true}`},
		{"/api/v1/circle", `{"x":160,"y":240,"r":4097,"color":"#ffffff"}`},
		{"/api/v1/line", `{"x0":-300000000,"y0":-300000000,"x1":300000000,"y1":300000000,"color":"#ffffff"}`},
		{"/api/v1/pixel", `{"x":5000,"y":0,"color":"#ffffff"}`},
		{"/api/v1/rect", `{"x":0,"y":0,"w":100000,"h":1,"color":"#ffffff","filled":true}`},
		{"/api/v1/triangle", `{"points":[{"x":0,"y":0},{"x":9000,"y":0},{"x":0,"y":10}],"color":"#ffffff"}`},
		{"/api/v1/text", `{"text":"A","color":"#ffffff","scale":65}`},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			_, dev, h := newTestServer()
			w := do(h, http.MethodPost, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400: %s", w.Code, w.Body)
			}
			if dev.fills+dev.writes != 0 {
				t.Fatal("rejected request drew")
			}
		})
	}
}

func TestOffscreenShapes(t *testing.T) {
	tests := []struct {
		path string
		body string
	}{
		{"/api/v1/circle", `{"x":-4096,"y":-4096,"r":4096,"color":"#ffffff"}`},
		{"/api/v1/circle", `{"x":4096,"y":4096,"r":4096,"color":"#ffffff","filled":true}`},
		{"/api/v1/line", `{"x0":-4096,"y0":4096,"x1":4096,"y1":-4096,"color":"#ffffff"}`},
		{"/api/v1/text", `{"x":4096,"y":4096,"text":"far away","scale":64,"color":"#ffffff"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			_, dev, h := newTestServer()
			w := do(h, http.MethodPost, tt.path, tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status %d: %s", w.Code, w.Body)
			}
			for p := range dev.pix {
				if !p.In(dev.Bounds()) {
					t.Fatalf("pixel %v outside the display", p)
				}
			}
		})
	}
}

func TestInfo_concurrentRotation(t *testing.T) {
	_, _, h := newTestServer()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				body := fmt.Sprintf(`{"degrees":%d}`, 90*((i+j)%4))
				if w := do(h, http.MethodPost, "/api/v1/rotation", body); w.Code != http.StatusOK {
					t.Errorf("rotation status %d: %s", w.Code, w.Body)
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if w := do(h, http.MethodGet, "/api/v1/info", ""); w.Code != http.StatusOK {
					t.Errorf("info status %d: %s", w.Code, w.Body)
				}
			}
		}()
	}
	wg.Wait()
}

func TestRotation(t *testing.T) {
	_, dev, h := newTestServer()
	w := do(h, http.MethodPost, "/api/v1/rotation", `{"degrees":90}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if dev.rot != geom.Rotate90 {
		t.Fatalf("rotation = %s", dev.rot)
	}
	if !strings.Contains(w.Body.String(), `"width":480`) {
		t.Fatalf("body = %s", w.Body)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		path string
		body string
		want int
	}{
		{"out of bounds", nil, "/api/v1/scroll", `{"top":0,"bottom":0,"line":480}`, http.StatusUnprocessableEntity},
		{"not ready", fmt.Errorf("%w (halted)", st7796.ErrNotReady), "/api/v1/fill", `{"color":"#ffffff"}`, http.StatusServiceUnavailable},
		{"transport", fmt.Errorf("%w: spi broken", st7796.ErrTransport), "/api/v1/fill", `{"color":"#ffffff"}`, http.StatusInternalServerError},
		{"rotation transport", fmt.Errorf("%w: spi broken", st7796.ErrTransport), "/api/v1/rotation", `{"degrees":180}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, dev, h := newTestServer()
			dev.err = tt.err
			w := do(h, http.MethodPost, tt.path, tt.body)
			if w.Code != tt.want {
				t.Fatalf("status %d, want %d: %s", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestScroll(t *testing.T) {
	_, dev, h := newTestServer()
	w := do(h, http.MethodPost, "/api/v1/scroll", `{"top":10,"bottom":20,"line":100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if dev.scroll != [3]int{10, 20, 100} {
		t.Fatalf("scroll = %v", dev.scroll)
	}
}

func newTestServer() (*Server, *fakeDev, http.Handler) {
	dev := newFakeDev()
	s := New(gfx.New(dev, nil), dev, nil)
	return s, dev, s.Router()
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// fakeDev is a 320x480 display that records pixels. err, when set, fails
// every drawing call.
type fakeDev struct {
	rot    geom.Rotation
	pix    map[image.Point]rgb565.Color
	fills  int
	writes int
	scroll [3]int
	err    error
}

func newFakeDev() *fakeDev {
	return &fakeDev{pix: map[image.Point]rgb565.Color{}}
}

func (d *fakeDev) String() string {
	return fmt.Sprintf("fakeDev{%s}", d.rot)
}

func (d *fakeDev) Bounds() image.Rectangle {
	return image.Rectangle{Max: geom.LogicalSize(image.Pt(320, 480), d.rot)}
}

func (d *fakeDev) FillRect(r image.Rectangle, c rgb565.Color) error {
	if d.err != nil {
		return d.err
	}
	d.fills++
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.pix[image.Pt(x, y)] = c
		}
	}
	return nil
}

func (d *fakeDev) WriteRect(r image.Rectangle, pix []rgb565.Color) error {
	if d.err != nil {
		return d.err
	}
	if len(pix) != r.Dx()*r.Dy() {
		return errors.New("fakeDev: pixel count mismatch")
	}
	d.writes++
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.pix[image.Pt(x, y)] = pix[i]
			i++
		}
	}
	return nil
}

func (d *fakeDev) Rotation() geom.Rotation {
	return d.rot
}

func (d *fakeDev) SetRotation(r geom.Rotation) error {
	if d.err != nil {
		return d.err
	}
	d.rot = r
	return nil
}

func (d *fakeDev) SetScrollArea(top, bottom int) error {
	if d.err != nil {
		return d.err
	}
	d.scroll[0], d.scroll[1] = top, bottom
	return nil
}

func (d *fakeDev) Scroll(line int) error {
	if d.err != nil {
		return d.err
	}
	if line < 0 || line >= 480 {
		return fmt.Errorf("%w: scroll line %d", st7796.ErrOutOfBounds, line)
	}
	d.scroll[2] = line
	return nil
}
