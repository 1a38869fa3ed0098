package crop

// MinSize is the smallest width or height a crop rectangle may have, in
// source-image pixels.
const MinSize = 20.0

// defaultFraction of each image dimension covered by the seeded rectangle.
const defaultFraction = 0.6

// Point is a coordinate in source-image pixel space.
type Point struct {
	X float64
	Y float64
}

// Rect is a crop selection in source-image pixel coordinates. A valid
// Rect satisfies 0 <= X, 0 <= Y, X+W <= image width, Y+H <= image height
// and W, H >= MinSize; every mutation in this package preserves that.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// DefaultRect seeds the editor with a centered rectangle covering 60% of
// each dimension.
func DefaultRect(imageW, imageH float64) Rect {
	w := imageW * defaultFraction
	h := imageH * defaultFraction
	if w < MinSize {
		w = MinSize
	}
	if h < MinSize {
		h = MinSize
	}
	return Rect{
		X: (imageW - w) / 2,
		Y: (imageH - h) / 2,
		W: w,
		H: h,
	}
}

// Clamp forces r fully inside [0,imageW] x [0,imageH] without letting
// either dimension drop below MinSize. Size is fixed first, then
// position, so a rectangle pushed past an edge slides back in.
func Clamp(r Rect, imageW, imageH float64) Rect {
	if r.W < MinSize {
		r.W = MinSize
	}
	if r.H < MinSize {
		r.H = MinSize
	}
	if r.W > imageW {
		r.W = imageW
	}
	if r.H > imageH {
		r.H = imageH
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.W > imageW {
		r.X = imageW - r.W
	}
	if r.Y+r.H > imageH {
		r.Y = imageH - r.H
	}
	return r
}

// Contains reports whether p falls inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Translate moves r by (dx, dy), clamped to the image bounds. Size never
// changes during a move.
func Translate(r Rect, dx, dy, imageW, imageH float64) Rect {
	r.X += dx
	r.Y += dy
	return Clamp(r, imageW, imageH)
}
