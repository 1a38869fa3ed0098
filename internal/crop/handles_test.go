package crop

import (
	"math"
	"testing"
)

func TestHitHandleCornersAndEdges(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 100}

	cases := []struct {
		p    Point
		want Handle
	}{
		{Point{100, 100}, HandleNW},
		{Point{300, 100}, HandleNE},
		{Point{100, 200}, HandleSW},
		{Point{300, 200}, HandleSE},
		{Point{200, 100}, HandleN},
		{Point{200, 200}, HandleS},
		{Point{300, 150}, HandleE},
		{Point{100, 150}, HandleW},
		{Point{200, 150}, HandleNone}, // center: inside, not a handle
		{Point{500, 500}, HandleNone}, // far outside
	}

	for _, c := range cases {
		if got := HitHandle(c.p, r, 1); got != c.want {
			t.Errorf("HitHandle(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestHitHandleScalesWithDisplayRatio(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 100}

	// Image shown at half size: hit zones are twice as wide in image space.
	p := Point{100 + 12, 100}
	if got := HitHandle(p, r, 1); got != HandleNone {
		t.Errorf("12px off at ratio 1 = %v, want none", got)
	}
	if got := HitHandle(p, r, 0.5); got != HandleNW {
		t.Errorf("12px off at ratio 0.5 = %v, want nw", got)
	}
}

func TestResizeHandleSemantics(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 100}
	const iw, ih = 1000, 1000

	cases := []struct {
		h    Handle
		dx   float64
		dy   float64
		want Rect
	}{
		// North: y and height move together, bottom edge fixed.
		{HandleN, 0, -20, Rect{X: 100, Y: 80, W: 200, H: 120}},
		// South: height only.
		{HandleS, 0, 30, Rect{X: 100, Y: 100, W: 200, H: 130}},
		// East: width only.
		{HandleE, 40, 0, Rect{X: 100, Y: 100, W: 240, H: 100}},
		// West: x and width, right edge fixed.
		{HandleW, -10, 0, Rect{X: 90, Y: 100, W: 210, H: 100}},
		// North-west: all four adjust, opposite corner (300,200) fixed.
		{HandleNW, -10, -20, Rect{X: 90, Y: 80, W: 210, H: 120}},
		{HandleNE, 10, -20, Rect{X: 100, Y: 80, W: 210, H: 120}},
		{HandleSW, -10, 20, Rect{X: 90, Y: 100, W: 210, H: 120}},
		{HandleSE, 10, 20, Rect{X: 100, Y: 100, W: 210, H: 120}},
	}

	for _, c := range cases {
		got := Resize(r, c.h, c.dx, c.dy, iw, ih, 0)
		if got != c.want {
			t.Errorf("Resize(%v, %v, %v) = %+v, want %+v", c.h, c.dx, c.dy, got, c.want)
		}
	}
}

func TestResizeRejectsBelowMinimum(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 30, H: 30}

	// Shrinking width under MinSize leaves the rectangle untouched.
	if got := Resize(r, HandleE, -15, 0, 1000, 1000, 0); got != r {
		t.Errorf("undersized resize applied: %+v", got)
	}
	if got := Resize(r, HandleN, 0, 15, 1000, 1000, 0); got != r {
		t.Errorf("undersized resize applied: %+v", got)
	}
}

func TestResizeClampsToImage(t *testing.T) {
	r := Rect{X: 900, Y: 100, W: 80, H: 80}
	got := Resize(r, HandleE, 100, 0, 1000, 1000, 0)
	if got.X+got.W > 1000 {
		t.Errorf("resize escaped image bounds: %+v", got)
	}
}

func TestResizeAspectLock(t *testing.T) {
	r := Rect{X: 100, Y: 100, W: 200, H: 100}
	const aspect = 2.0

	got := Resize(r, HandleE, 40, 0, 1000, 1000, aspect)
	if math.Abs(got.W/got.H-aspect) > 1e-9 {
		t.Errorf("aspect after east resize = %v, want %v", got.W/got.H, aspect)
	}

	got = Resize(r, HandleSE, 40, 0, 1000, 1000, aspect)
	if math.Abs(got.W/got.H-aspect) > 1e-9 {
		t.Errorf("aspect after corner resize = %v, want %v", got.W/got.H, aspect)
	}
	if got.Y != r.Y {
		t.Errorf("south-east corner moved the top edge to %v", got.Y)
	}

	// The driving dimension wins: height is recomputed, not applied.
	got = Resize(r, HandleS, 0, 60, 1000, 1000, aspect)
	if math.Abs(got.W/got.H-aspect) > 1e-9 {
		t.Errorf("aspect after south resize = %v, want %v", got.W/got.H, aspect)
	}
}

func TestResizeSequencePreservesInvariants(t *testing.T) {
	const iw, ih = 800, 600
	r := DefaultRect(iw, ih)

	steps := []struct {
		h      Handle
		dx, dy float64
	}{
		{HandleNW, -500, -500},
		{HandleSE, 900, 900},
		{HandleN, 0, 550},
		{HandleW, 790, 0},
		{HandleS, 0, -550},
		{HandleE, -790, 0},
	}

	for i, s := range steps {
		r = Resize(r, s.h, s.dx, s.dy, iw, ih, 0)
		if r.W < MinSize || r.H < MinSize {
			t.Fatalf("step %d: size %vx%v below minimum", i, r.W, r.H)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > iw || r.Y+r.H > ih {
			t.Fatalf("step %d: rect %+v outside image", i, r)
		}
	}
}
