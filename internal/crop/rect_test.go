package crop

import "testing"

func TestDefaultRectCenteredAt60Percent(t *testing.T) {
	r := DefaultRect(2000, 1000)

	if r.W != 1200 || r.H != 600 {
		t.Errorf("default size = %vx%v, want 1200x600", r.W, r.H)
	}
	if r.X != 400 || r.Y != 200 {
		t.Errorf("default position = (%v,%v), want (400,200)", r.X, r.Y)
	}
}

func TestDefaultRectTinyImage(t *testing.T) {
	r := DefaultRect(25, 25)
	if r.W < MinSize || r.H < MinSize {
		t.Errorf("default rect %vx%v below minimum size", r.W, r.H)
	}
}

func TestClampKeepsRectInBounds(t *testing.T) {
	cases := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"negative origin", Rect{X: -50, Y: -10, W: 100, H: 100}, Rect{X: 0, Y: 0, W: 100, H: 100}},
		{"past right edge", Rect{X: 950, Y: 0, W: 100, H: 100}, Rect{X: 900, Y: 0, W: 100, H: 100}},
		{"past bottom edge", Rect{X: 0, Y: 550, W: 100, H: 100}, Rect{X: 0, Y: 500, W: 100, H: 100}},
		{"oversized", Rect{X: 0, Y: 0, W: 5000, H: 5000}, Rect{X: 0, Y: 0, W: 1000, H: 600}},
		{"below minimum", Rect{X: 10, Y: 10, W: 5, H: 5}, Rect{X: 10, Y: 10, W: MinSize, H: MinSize}},
	}

	for _, c := range cases {
		if got := Clamp(c.in, 1000, 600); got != c.want {
			t.Errorf("%s: Clamp(%+v) = %+v, want %+v", c.name, c.in, got, c.want)
		}
	}
}

func TestTranslateStopsAtEdges(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 200}

	moved := Translate(r, -500, -500, 1000, 1000)
	if moved.X != 0 || moved.Y != 0 {
		t.Errorf("translate past origin = (%v,%v), want (0,0)", moved.X, moved.Y)
	}
	if moved.W != 200 || moved.H != 200 {
		t.Errorf("translate changed size to %vx%v", moved.W, moved.H)
	}

	moved = Translate(r, 5000, 5000, 1000, 1000)
	if moved.X != 800 || moved.Y != 800 {
		t.Errorf("translate past far edge = (%v,%v), want (800,800)", moved.X, moved.Y)
	}
}

func TestContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 100, H: 50}
	if !r.Contains(Point{X: 50, Y: 30}) {
		t.Error("interior point not contained")
	}
	if !r.Contains(Point{X: 10, Y: 10}) {
		t.Error("corner point not contained")
	}
	if r.Contains(Point{X: 111, Y: 30}) {
		t.Error("exterior point contained")
	}
}
