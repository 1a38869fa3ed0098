package crop

import "errors"

// State is the editor lifecycle phase.
type State string

const (
	StateIdle        State = "idle"
	StateLoaded      State = "image-loaded"
	StateInteracting State = "interacting"
	StateApplied     State = "applied"
	StateCancelled   State = "cancelled"
)

// GestureKind is the single interaction chosen at pointer-down. Exactly
// one is active per gesture; hit-testing picks handles first, then
// inside-the-rectangle move, then outside-the-rectangle create, with pan
// overriding all three when the modifier is held.
type GestureKind string

const (
	GestureNone   GestureKind = ""
	GestureCreate GestureKind = "create"
	GestureMove   GestureKind = "move"
	GestureResize GestureKind = "resize"
	GesturePan    GestureKind = "pan"
)

var (
	ErrNoImage     = errors.New("crop: no image loaded")
	ErrBadGeometry = errors.New("crop: image dimensions must be positive")
)

// Editor is the crop selection state machine. Pointer coordinates are
// given in on-screen pixels; the editor converts them to image space
// using the display ratio set at load time and the current zoom.
type Editor struct {
	state   State
	imageW  float64
	imageH  float64
	ratio   float64 // displayed pixels per natural pixel, excluding zoom
	zoom    float64
	aspect  float64 // 0 means unlocked
	turns   int     // quarter-turns applied at rasterization
	rect    Rect
	history *History

	gesture GestureKind
	handle  Handle
	last    Point // previous pointer position, image space
	origin  Point // pointer-down position, image space (create gesture)
	panX    float64
	panY    float64
}

// NewEditor returns an editor in the idle state.
func NewEditor() *Editor {
	return &Editor{state: StateIdle, zoom: 1}
}

// Load seeds the editor for an image of the given natural size displayed
// at displayRatio. The rectangle starts centered at 60% of each
// dimension and the history holds that single entry.
func (e *Editor) Load(imageW, imageH, displayRatio float64) error {
	if imageW <= 0 || imageH <= 0 {
		return ErrBadGeometry
	}
	if displayRatio <= 0 {
		displayRatio = 1
	}
	e.imageW, e.imageH = imageW, imageH
	e.ratio = displayRatio
	e.zoom = 1
	e.aspect = 0
	e.turns = 0
	e.panX, e.panY = 0, 0
	e.rect = DefaultRect(imageW, imageH)
	e.history = NewHistory(e.rect)
	e.state = StateLoaded
	e.gesture = GestureNone
	return nil
}

// State returns the current lifecycle phase.
func (e *Editor) State() State { return e.state }

// Rect returns the current crop rectangle.
func (e *Editor) Rect() Rect { return e.rect }

// Gesture returns the active interaction, if any.
func (e *Editor) Gesture() GestureKind { return e.gesture }

// toImage converts an on-screen point to image-pixel space.
func (e *Editor) toImage(screenX, screenY float64) Point {
	scale := e.ratio * e.zoom
	return Point{X: screenX/scale - e.panX, Y: screenY/scale - e.panY}
}

// PointerDown begins a gesture. The hit test runs in image space:
// handles first, then inside-rectangle move, then outside-rectangle
// create; a held modifier forces a pan regardless of position.
func (e *Editor) PointerDown(screenX, screenY float64, panModifier bool) {
	if e.state != StateLoaded {
		return
	}
	p := e.toImage(screenX, screenY)
	e.last = p
	e.state = StateInteracting

	if panModifier {
		e.gesture = GesturePan
		return
	}
	if h := HitHandle(p, e.rect, e.ratio*e.zoom); h != HandleNone {
		e.gesture = GestureResize
		e.handle = h
		return
	}
	if e.rect.Contains(p) {
		e.gesture = GestureMove
		return
	}
	e.gesture = GestureCreate
	e.origin = p
	e.rect = Clamp(Rect{X: p.X, Y: p.Y, W: MinSize, H: MinSize}, e.imageW, e.imageH)
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(screenX, screenY float64) {
	if e.state != StateInteracting {
		return
	}
	p := e.toImage(screenX, screenY)
	dx, dy := p.X-e.last.X, p.Y-e.last.Y
	e.last = p

	switch e.gesture {
	case GestureMove:
		e.rect = Translate(e.rect, dx, dy, e.imageW, e.imageH)
	case GestureResize:
		e.rect = Resize(e.rect, e.handle, dx, dy, e.imageW, e.imageH, e.aspect)
	case GestureCreate:
		e.rect = rectFromCorners(e.origin, p, e.imageW, e.imageH, e.aspect)
	case GesturePan:
		e.panX += dx
		e.panY += dy
	}
}

// PointerUp completes the gesture. Rectangle-changing gestures push the
// result onto the history; a pan does not.
func (e *Editor) PointerUp() {
	if e.state != StateInteracting {
		return
	}
	if e.gesture != GesturePan && e.rect != e.history.Current() {
		e.history.Push(e.rect)
	}
	e.gesture = GestureNone
	e.handle = HandleNone
	e.state = StateLoaded
}

// PointerLeave releases the gesture when the pointer exits the editor
// surface; the global move/up listeners installed for the drag must come
// off even without a proper pointer-up.
func (e *Editor) PointerLeave() {
	e.PointerUp()
}

// SetAspect locks the rectangle to the given w/h ratio, or unlocks with
// 0. Locking immediately reshapes the current rectangle around its
// center and records the change.
func (e *Editor) SetAspect(aspect float64) {
	if e.state != StateLoaded {
		return
	}
	e.aspect = aspect
	if aspect <= 0 {
		return
	}
	r := e.rect
	h := r.W / aspect
	r.Y += (r.H - h) / 2
	r.H = h
	r = Clamp(r, e.imageW, e.imageH)
	if r != e.rect {
		e.rect = r
		e.history.Push(r)
	}
}

// SetZoom adjusts the display zoom within [0.1, 10]. Zoom affects
// pointer conversion only; the rectangle stays in image coordinates.
func (e *Editor) SetZoom(zoom float64) {
	if zoom < 0.1 {
		zoom = 0.1
	}
	if zoom > 10 {
		zoom = 10
	}
	e.zoom = zoom
}

// Rotate adds a clockwise quarter-turn applied when the crop is
// rasterized. The coordinate space follows the rotation: width and
// height swap so every later gesture, clamp and the final selection
// live in the rotated source's bounds, and the rectangle reseeds
// because its old coordinates are meaningless after the turn.
func (e *Editor) Rotate() {
	if e.state != StateLoaded {
		return
	}
	e.turns = (e.turns + 1) % 4
	e.imageW, e.imageH = e.imageH, e.imageW
	e.rect = DefaultRect(e.imageW, e.imageH)
	e.history.Push(e.rect)
}

// Turns returns the pending quarter-turn count.
func (e *Editor) Turns() int { return e.turns }

// Undo restores the previous rectangle; no-op at the oldest entry.
func (e *Editor) Undo() {
	if e.state != StateLoaded {
		return
	}
	e.rect, _ = e.history.Undo()
}

// Redo restores an undone rectangle; no-op at the newest entry.
func (e *Editor) Redo() {
	if e.state != StateLoaded {
		return
	}
	e.rect, _ = e.history.Redo()
}

// Apply finalizes the selection and returns it. The editor reaches the
// terminal applied state; callers rasterize via Rasterize.
func (e *Editor) Apply() (Rect, error) {
	if e.state != StateLoaded {
		return Rect{}, ErrNoImage
	}
	e.state = StateApplied
	return e.rect, nil
}

// Cancel discards all transient state with no output.
func (e *Editor) Cancel() {
	e.state = StateCancelled
	e.gesture = GestureNone
	e.history = nil
}

// rectFromCorners builds the rectangle spanned by a create-drag from
// origin to p, honoring the minimum size, an optional aspect lock and
// the image bounds.
func rectFromCorners(origin, p Point, imageW, imageH, aspect float64) Rect {
	x0, x1 := origin.X, p.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := origin.Y, p.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r := Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	if aspect > 0 {
		r.H = r.W / aspect
	}
	return Clamp(r, imageW, imageH)
}
