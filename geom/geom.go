// Package geom holds the coordinate helpers shared by the ST7796 driver and
// the rasterizer: panel rotation and rectangle clipping.
//
// Logical coordinates are the ones callers draw in, after rotation. Physical
// coordinates address the panel in its unrotated (0°, portrait) orientation.
package geom

import (
	"fmt"
	"image"
)

// Rotation is a clockwise panel rotation.
type Rotation uint8

// Supported rotations.
const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// ParseRotation converts a rotation in degrees (0, 90, 180 or 270) to a
// Rotation.
func ParseRotation(degrees int) (Rotation, error) {
	switch degrees {
	case 0:
		return Rotate0, nil
	case 90:
		return Rotate90, nil
	case 180:
		return Rotate180, nil
	case 270:
		return Rotate270, nil
	}
	return Rotate0, fmt.Errorf("geom: invalid rotation %d, want 0, 90, 180 or 270", degrees)
}

// Degrees returns the rotation angle.
func (r Rotation) Degrees() int {
	return int(r&3) * 90
}

// Swapped reports whether the rotation exchanges width and height.
func (r Rotation) Swapped() bool {
	return r&1 == 1
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", r.Degrees())
}

// LogicalSize returns the drawable size for a panel of physical size phys
// under rotation r.
func LogicalSize(phys image.Point, r Rotation) image.Point {
	if r.Swapped() {
		return image.Point{X: phys.Y, Y: phys.X}
	}
	return phys
}

// ToPhysical maps logical point p to the physical pixel it addresses on a
// panel of physical size phys rotated by r.
//
// It matches the memory access control encoding the driver programs for each
// rotation, so a logical coordinate always lands on the same physical pixel
// the controller writes.
func ToPhysical(p image.Point, r Rotation, phys image.Point) image.Point {
	w, h := phys.X, phys.Y
	switch r & 3 {
	case Rotate90:
		return image.Point{X: p.Y, Y: h - 1 - p.X}
	case Rotate180:
		return image.Point{X: w - 1 - p.X, Y: h - 1 - p.Y}
	case Rotate270:
		return image.Point{X: w - 1 - p.Y, Y: p.X}
	}
	return p
}

// ToLogical is the inverse of ToPhysical.
func ToLogical(p image.Point, r Rotation, phys image.Point) image.Point {
	w, h := phys.X, phys.Y
	switch r & 3 {
	case Rotate90:
		return image.Point{X: h - 1 - p.Y, Y: p.X}
	case Rotate180:
		return image.Point{X: w - 1 - p.X, Y: h - 1 - p.Y}
	case Rotate270:
		return image.Point{X: p.Y, Y: w - 1 - p.X}
	}
	return p
}

// ClipRect intersects r with bounds. Inverted rectangles are canonicalized
// first. The result is image.Rectangle{} when there is no overlap; callers
// treat that as nothing to draw.
func ClipRect(r, bounds image.Rectangle) image.Rectangle {
	return r.Canon().Intersect(bounds)
}

// Inclusive returns the rectangle spanning the inclusive corners (x0, y0) and
// (x1, y1), in either order.
func Inclusive(x0, y0, x1, y1 int) image.Rectangle {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return image.Rect(x0, y0, x1+1, y1+1)
}
