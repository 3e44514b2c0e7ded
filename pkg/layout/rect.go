// Package layout places dashboard tiles into a terminal-sized grid. Tiles
// declare a requested width and height; Compute flows them left-to-right,
// top-to-bottom into absolute rectangles. The computation is a pure function
// of its inputs, which makes relayout after a terminal resize fully
// predictable and testable.
package layout

// Rect represents a rectangular area in terminal cells.
type Rect struct {
	X, Y, Width, Height int
}

// Empty returns true if this rectangle has zero area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the X coordinate of the right edge (exclusive).
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the Y coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Contains returns true if the point (px, py) lies within this rectangle.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.Right() && py >= r.Y && py < r.Bottom()
}

// Intersect returns the overlapping region of two rectangles.
// If there is no overlap, returns a zero-size Rect.
func (r Rect) Intersect(other Rect) Rect {
	x1 := max(r.X, other.X)
	y1 := max(r.Y, other.Y)
	x2 := min(r.Right(), other.Right())
	y2 := min(r.Bottom(), other.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Overlaps returns true if the two rectangles share at least one cell.
func (r Rect) Overlaps(other Rect) bool {
	return !r.Intersect(other).Empty()
}
