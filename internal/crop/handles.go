package crop

import "math"

// Handle identifies one of the eight resize grips on the crop rectangle:
// four corners and four edge midpoints.
type Handle int

const (
	HandleNone Handle = iota
	HandleN
	HandleS
	HandleE
	HandleW
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

// HandleHitRadius is the half-size of a handle's hit zone in on-screen
// pixels; HitHandle converts it to image space via the display ratio.
const HandleHitRadius = 8.0

func (h Handle) String() string {
	switch h {
	case HandleN:
		return "n"
	case HandleS:
		return "s"
	case HandleE:
		return "e"
	case HandleW:
		return "w"
	case HandleNW:
		return "nw"
	case HandleNE:
		return "ne"
	case HandleSW:
		return "sw"
	case HandleSE:
		return "se"
	default:
		return "none"
	}
}

// handlePositions returns the anchor point of each grip on r.
func handlePositions(r Rect) map[Handle]Point {
	midX := r.X + r.W/2
	midY := r.Y + r.H/2
	return map[Handle]Point{
		HandleNW: {r.X, r.Y},
		HandleN:  {midX, r.Y},
		HandleNE: {r.X + r.W, r.Y},
		HandleE:  {r.X + r.W, midY},
		HandleSE: {r.X + r.W, r.Y + r.H},
		HandleS:  {midX, r.Y + r.H},
		HandleSW: {r.X, r.Y + r.H},
		HandleW:  {r.X, midY},
	}
}

// HitHandle finds the grip under p, if any. displayRatio is on-screen
// pixels per image pixel; the hit zone grows as the image is shown
// smaller so grips stay grabbable. Corners take priority over edges when
// zones overlap on a tiny rectangle.
func HitHandle(p Point, r Rect, displayRatio float64) Handle {
	if displayRatio <= 0 {
		displayRatio = 1
	}
	radius := HandleHitRadius / displayRatio

	order := []Handle{
		HandleNW, HandleNE, HandleSW, HandleSE,
		HandleN, HandleS, HandleE, HandleW,
	}
	positions := handlePositions(r)
	for _, h := range order {
		anchor := positions[h]
		if math.Abs(p.X-anchor.X) <= radius && math.Abs(p.Y-anchor.Y) <= radius {
			return h
		}
	}
	return HandleNone
}

// Resize moves the grip h by (dx, dy) and returns the adjusted
// rectangle. Each grip drives its own subset of {x, y, w, h} so the
// opposite corner or edge stays fixed. An update that would take either
// dimension below MinSize is rejected wholesale, returning r unchanged.
// With aspect > 0 the ratio w/h is locked: the driving dimension wins
// and the other is recomputed from it. The result is clamped to the
// image bounds.
func Resize(r Rect, h Handle, dx, dy, imageW, imageH, aspect float64) Rect {
	out := r
	switch h {
	case HandleN:
		out.Y += dy
		out.H -= dy
	case HandleS:
		out.H += dy
	case HandleE:
		out.W += dx
	case HandleW:
		out.X += dx
		out.W -= dx
	case HandleNW:
		out.X += dx
		out.Y += dy
		out.W -= dx
		out.H -= dy
	case HandleNE:
		out.Y += dy
		out.W += dx
		out.H -= dy
	case HandleSW:
		out.X += dx
		out.W -= dx
		out.H += dy
	case HandleSE:
		out.W += dx
		out.H += dy
	default:
		return r
	}

	if aspect > 0 {
		out = lockAspect(r, out, h, aspect)
	}

	if out.W < MinSize || out.H < MinSize {
		return r
	}
	if out.X < 0 || out.Y < 0 || out.X+out.W > imageW || out.Y+out.H > imageH {
		out = Clamp(out, imageW, imageH)
	}
	return out
}

// lockAspect recomputes the non-driving dimension from the driving one.
// Edge grips drive the axis they move on and stay centered on the other;
// corner grips drive width and keep the opposite corner fixed.
func lockAspect(prev, next Rect, h Handle, aspect float64) Rect {
	switch h {
	case HandleE, HandleW:
		next.H = next.W / aspect
		next.Y = prev.Y + (prev.H-next.H)/2
	case HandleN, HandleS:
		next.W = next.H * aspect
		next.X = prev.X + (prev.W-next.W)/2
	case HandleNW, HandleNE:
		next.H = next.W / aspect
		next.Y = prev.Y + prev.H - next.H
	case HandleSW, HandleSE:
		next.H = next.W / aspect
		next.Y = prev.Y
	}
	return next
}
