package layout

// Request is one tile's desired geometry, in cells.
type Request struct {
	Width  int
	Height int
}

// Compute flows the ordered requests into a cols x rows terminal and returns
// one rectangle per request, in the same order.
//
// Placement is row-major: tiles accumulate left-to-right; when the next
// tile's width would run past the right edge, a new row starts below the
// tallest tile placed on the current row. A tile wider than the whole
// terminal is clipped to the terminal width, and a tile whose height runs
// past the bottom edge is clipped to the remaining rows. Once placement
// passes the bottom of the terminal, the remaining tiles receive zero-size
// rectangles: they are not drawn, but callers keep polling them so content
// is fresh when space reappears.
//
// The output depends only on the inputs. Calling Compute twice with the same
// terminal size and requests yields identical rectangles.
func Compute(cols, rows int, requests []Request) []Rect {
	rects := make([]Rect, len(requests))
	if cols <= 0 || rows <= 0 {
		return rects
	}

	x, y, rowHeight := 0, 0, 0
	for i, req := range requests {
		w := req.Width
		if w > cols {
			w = cols
		}
		if w <= 0 || req.Height <= 0 {
			continue
		}

		// Wrap to the next row when the tile no longer fits.
		if x > 0 && x+w > cols {
			y += rowHeight
			x = 0
			rowHeight = 0
		}

		if y >= rows {
			continue
		}

		h := req.Height
		if y+h > rows {
			h = rows - y
		}

		rects[i] = Rect{X: x, Y: y, Width: w, Height: h}
		x += w
		if req.Height > rowHeight {
			rowHeight = req.Height
		}
	}

	return rects
}
