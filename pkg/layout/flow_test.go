package layout

import "testing"

// assertRects fails the test if got and want differ.
func assertRects(t *testing.T, got, want []Rect) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(got)=%d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("rect[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputeSingleTile(t *testing.T) {
	// The canonical case: one 22x11 tile on an 80x24 terminal lands at the
	// origin with its requested size.
	rects := Compute(80, 24, []Request{{Width: 22, Height: 11}})
	assertRects(t, rects, []Rect{{X: 0, Y: 0, Width: 22, Height: 11}})
}

func TestComputeRowPacking(t *testing.T) {
	rects := Compute(80, 24, []Request{
		{Width: 30, Height: 5},
		{Width: 30, Height: 8},
		{Width: 30, Height: 3},
	})
	// The third tile does not fit on the first row (60+30 > 80) and starts
	// a new row below the tallest tile of the first row.
	assertRects(t, rects, []Rect{
		{X: 0, Y: 0, Width: 30, Height: 5},
		{X: 30, Y: 0, Width: 30, Height: 8},
		{X: 0, Y: 8, Width: 30, Height: 3},
	})
}

func TestComputeNoOverlapNoOverflow(t *testing.T) {
	requests := []Request{
		{Width: 25, Height: 4}, {Width: 25, Height: 6}, {Width: 25, Height: 2},
		{Width: 50, Height: 5}, {Width: 10, Height: 3},
	}
	rects := Compute(60, 40, requests)
	for i, r := range rects {
		if r.Right() > 60 {
			t.Errorf("rect[%d] %v exceeds terminal width", i, r)
		}
		for j := i + 1; j < len(rects); j++ {
			if !r.Empty() && !rects[j].Empty() && r.Overlaps(rects[j]) {
				t.Errorf("rect[%d] %v overlaps rect[%d] %v", i, r, j, rects[j])
			}
		}
	}
}

func TestComputeWideTileClippedToTerminalWidth(t *testing.T) {
	rects := Compute(40, 24, []Request{{Width: 100, Height: 5}})
	assertRects(t, rects, []Rect{{X: 0, Y: 0, Width: 40, Height: 5}})
}

func TestComputeTallTileClippedToRemainingRows(t *testing.T) {
	rects := Compute(80, 10, []Request{
		{Width: 80, Height: 6},
		{Width: 80, Height: 8},
	})
	// The second tile starts at row 6 and is clipped to the 4 rows left.
	assertRects(t, rects, []Rect{
		{X: 0, Y: 0, Width: 80, Height: 6},
		{X: 0, Y: 6, Width: 80, Height: 4},
	})
}

func TestComputeOverflowTilesGetZeroRect(t *testing.T) {
	rects := Compute(80, 10, []Request{
		{Width: 80, Height: 10},
		{Width: 20, Height: 5},
		{Width: 20, Height: 5},
	})
	if rects[0].Empty() {
		t.Fatalf("first tile should fit, got %v", rects[0])
	}
	for i := 1; i < 3; i++ {
		if !rects[i].Empty() {
			t.Errorf("rect[%d] = %v, want zero-size (no room)", i, rects[i])
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	requests := []Request{
		{Width: 45, Height: 2}, {Width: 24, Height: 10}, {Width: 36, Height: 20},
	}
	first := Compute(100, 30, requests)
	second := Compute(100, 30, requests)
	assertRects(t, second, first)
}

func TestComputeDegenerateTerminal(t *testing.T) {
	for _, size := range [][2]int{{0, 24}, {80, 0}, {-1, -1}} {
		rects := Compute(size[0], size[1], []Request{{Width: 10, Height: 5}})
		if !rects[0].Empty() {
			t.Errorf("terminal %dx%d: got %v, want zero-size", size[0], size[1], rects[0])
		}
	}
}

func TestComputeIgnoresNonPositiveRequests(t *testing.T) {
	rects := Compute(80, 24, []Request{
		{Width: 0, Height: 5},
		{Width: 20, Height: 5},
	})
	if !rects[0].Empty() {
		t.Errorf("zero-width request got %v, want zero-size", rects[0])
	}
	assertRects(t, rects[1:], []Rect{{X: 0, Y: 0, Width: 20, Height: 5}})
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: 5, Width: 10, Height: 10}
	got := a.Intersect(b)
	want := Rect{X: 5, Y: 5, Width: 5, Height: 5}
	if got != want {
		t.Errorf("Intersect: got %v, want %v", got, want)
	}
	if disjoint := a.Intersect(Rect{X: 20, Y: 20, Width: 5, Height: 5}); !disjoint.Empty() {
		t.Errorf("disjoint Intersect: got %v, want empty", disjoint)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 5}
	if !r.Contains(2, 3) || !r.Contains(5, 7) {
		t.Error("Contains should include corners inside the rect")
	}
	if r.Contains(6, 3) || r.Contains(2, 8) {
		t.Error("Contains should exclude the right/bottom edges")
	}
}
