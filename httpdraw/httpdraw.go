// Package httpdraw exposes a gfx.Canvas over a small JSON HTTP API.
//
// Coordinates and sizes are limited to ±4096, radii to 4096 and text scale to
// 64; larger values are rejected with 400. Shapes partly or fully off the
// panel are clipped.
//
// Every request is serialized: a request draws completely before the next one
// touches the display.
package httpdraw

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"periph.io/x/devices/v3/st7796"
	"periph.io/x/devices/v3/st7796/font"
	"periph.io/x/devices/v3/st7796/geom"
	"periph.io/x/devices/v3/st7796/gfx"
	"periph.io/x/devices/v3/st7796/rgb565"
)

// Device is the part of the display the API controls directly. *st7796.Dev
// implements it.
type Device interface {
	Bounds() image.Rectangle
	Rotation() geom.Rotation
	SetRotation(r geom.Rotation) error
	SetScrollArea(top, bottom int) error
	Scroll(line int) error
}

// Server serves the drawing API.
type Server struct {
	mu  sync.Mutex
	c   *gfx.Canvas
	dev Device
	log *slog.Logger
}

// New returns a Server drawing on c. dev must be the canvas target. A nil
// logger discards.
func New(c *gfx.Canvas, dev Device, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{c: c, dev: dev, log: logger}
}

// Router returns the gin engine with every route registered under /api/v1.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/info", s.getInfo)
		v1.POST("/fill", s.fill)
		v1.POST("/rotation", s.setRotation)
		v1.POST("/scroll", s.scroll)
		v1.POST("/pixel", s.pixel)
		v1.POST("/line", s.line)
		v1.POST("/rect", s.rect)
		v1.POST("/triangle", s.triangle)
		v1.POST("/circle", s.circle)
		v1.POST("/text", s.text)
	}
	return r
}

type response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response{Code: 0, Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, response{Code: status, Message: msg})
}

// failDraw maps a display error to a status code.
func (s *Server) failDraw(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, st7796.ErrOutOfBounds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, st7796.ErrNotReady):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error("httpdraw: draw failed", "path", c.FullPath(), "err", err)
	}
	fail(c, status, err.Error())
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("httpdraw: request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

// parseColor accepts "#rrggbb" or "rrggbb".
func parseColor(v string) (rgb565.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(h) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", v)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", v)
	}
	return rgb565.FromRGB(uint8(n>>16), uint8(n>>8), uint8(n)), nil
}

// bind decodes the JSON body into req and parses its color. It writes the
// 400 response itself and reports whether the handler should go on.
func bind(c *gin.Context, req any, color *string, out *rgb565.Color) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return false
	}
	col, err := parseColor(*color)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return false
	}
	*out = col
	return true
}

// draw runs fn with the display to itself and writes the response.
func (s *Server) draw(c *gin.Context, fn func() error) {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()
	if err != nil {
		s.failDraw(c, err)
		return
	}
	ok(c, gin.H{"drawn": true})
}

type infoResp struct {
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Rotation int      `json:"rotation"`
	Fonts    []string `json:"fonts"`
	Device   string   `json:"device"`
}

func (s *Server) getInfo(c *gin.Context) {
	s.mu.Lock()
	b := s.dev.Bounds()
	rot := s.dev.Rotation()
	name := fmt.Sprint(s.dev)
	s.mu.Unlock()
	var fonts []string
	for _, id := range s.c.Fonts().Fonts() {
		fonts = append(fonts, string(id))
	}
	ok(c, infoResp{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Rotation: rot.Degrees(),
		Fonts:    fonts,
		Device:   name,
	})
}

type fillReq struct {
	Color string `json:"color" binding:"required"`
}

func (s *Server) fill(c *gin.Context) {
	var req fillReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	s.draw(c, func() error { return s.c.Fill(col) })
}

type rotationReq struct {
	Degrees int `json:"degrees"`
}

func (s *Server) setRotation(c *gin.Context) {
	var req rotationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	r, err := geom.ParseRotation(req.Degrees)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	err = s.dev.SetRotation(r)
	b := s.dev.Bounds()
	s.mu.Unlock()
	if err != nil {
		s.failDraw(c, err)
		return
	}
	ok(c, gin.H{"rotation": r.Degrees(), "width": b.Dx(), "height": b.Dy()})
}

type scrollReq struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Line   int `json:"line"`
}

func (s *Server) scroll(c *gin.Context) {
	var req scrollReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s.draw(c, func() error {
		if err := s.dev.SetScrollArea(req.Top, req.Bottom); err != nil {
			return err
		}
		return s.dev.Scroll(req.Line)
	})
}

type pixelReq struct {
	X     int    `json:"x" binding:"min=-4096,max=4096"`
	Y     int    `json:"y" binding:"min=-4096,max=4096"`
	Color string `json:"color" binding:"required"`
}

func (s *Server) pixel(c *gin.Context) {
	var req pixelReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	s.draw(c, func() error { return s.c.DrawPixel(req.X, req.Y, col) })
}

type lineReq struct {
	X0    int    `json:"x0" binding:"min=-4096,max=4096"`
	Y0    int    `json:"y0" binding:"min=-4096,max=4096"`
	X1    int    `json:"x1" binding:"min=-4096,max=4096"`
	Y1    int    `json:"y1" binding:"min=-4096,max=4096"`
	Color string `json:"color" binding:"required"`
}

func (s *Server) line(c *gin.Context) {
	var req lineReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	s.draw(c, func() error { return s.c.DrawLine(req.X0, req.Y0, req.X1, req.Y1, col) })
}

type rectReq struct {
	X      int    `json:"x" binding:"min=-4096,max=4096"`
	Y      int    `json:"y" binding:"min=-4096,max=4096"`
	W      int    `json:"w" binding:"min=-4096,max=4096"`
	H      int    `json:"h" binding:"min=-4096,max=4096"`
	Color  string `json:"color" binding:"required"`
	Filled bool   `json:"filled"`
}

func (s *Server) rect(c *gin.Context) {
	var req rectReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	shape := gfx.Shape{Kind: gfx.Rect, W: req.W, H: req.H, Color: col, Filled: req.Filled}
	shape.P[0] = image.Pt(req.X, req.Y)
	s.draw(c, func() error { return s.c.Draw(shape) })
}

type point struct {
	X int `json:"x" binding:"min=-4096,max=4096"`
	Y int `json:"y" binding:"min=-4096,max=4096"`
}

type triangleReq struct {
	Points []point `json:"points" binding:"required,len=3,dive"`
	Color  string  `json:"color" binding:"required"`
	Filled bool    `json:"filled"`
}

func (s *Server) triangle(c *gin.Context) {
	var req triangleReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	shape := gfx.Shape{Kind: gfx.Triangle, Color: col, Filled: req.Filled}
	for i, p := range req.Points {
		shape.P[i] = image.Pt(p.X, p.Y)
	}
	s.draw(c, func() error { return s.c.Draw(shape) })
}

type circleReq struct {
	X      int    `json:"x" binding:"min=-4096,max=4096"`
	Y      int    `json:"y" binding:"min=-4096,max=4096"`
	R      int    `json:"r" binding:"min=0,max=4096"`
	Color  string `json:"color" binding:"required"`
	Filled bool   `json:"filled"`
}

func (s *Server) circle(c *gin.Context) {
	var req circleReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	shape := gfx.Shape{Kind: gfx.Circle, R: req.R, Color: col, Filled: req.Filled}
	shape.P[0] = image.Pt(req.X, req.Y)
	s.draw(c, func() error { return s.c.Draw(shape) })
}

type textReq struct {
	X          int    `json:"x" binding:"min=-4096,max=4096"`
	Y          int    `json:"y" binding:"min=-4096,max=4096"`
	Text       string `json:"text" binding:"required"`
	Font       string `json:"font"`
	Scale      int    `json:"scale" binding:"min=0,max=64"`
	Spacing    int    `json:"spacing" binding:"min=-64,max=64"`
	Color      string `json:"color" binding:"required"`
	Background string `json:"background"`
	// Center ignores X and centers the text horizontally.
	Center bool `json:"center"`
}

func (s *Server) text(c *gin.Context) {
	var req textReq
	var col rgb565.Color
	if !bind(c, &req, &req.Color, &col) {
		return
	}
	style := s.c.Style
	style.Color = col
	style.Scale = req.Scale
	style.Spacing = req.Spacing
	if req.Font != "" {
		style.Font = font.ID(req.Font)
		if s.c.Fonts().LineHeight(style.Font) == 0 {
			fail(c, http.StatusBadRequest, fmt.Sprintf("unknown font %q", req.Font))
			return
		}
	}
	if req.Background != "" {
		bg, err := parseColor(req.Background)
		if err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		style.Background = bg
		style.Opaque = true
	}
	s.draw(c, func() error {
		if req.Center {
			return s.c.DrawCenteredText(req.Y, req.Text, style)
		}
		return s.c.DrawTextStyle(req.X, req.Y, req.Text, style)
	})
}
