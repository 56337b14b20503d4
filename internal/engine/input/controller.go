package input

import (
	gomath "math"

	"github.com/fablewright/overmap/internal/engine/camera"
	"github.com/fablewright/overmap/internal/engine/picking"
	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/internal/engine/scene"
	"github.com/fablewright/overmap/internal/world"
	"github.com/fablewright/overmap/pkg/math"
)

// Mouse button values, matching SDL.
const (
	ButtonPrimary   uint8 = 1
	ButtonMiddle    uint8 = 2
	ButtonSecondary uint8 = 3
)

const (
	// A drag whose total movement stays under this is a tap.
	tapSlop = 4.0

	// Icon hit-test radius in pixels.
	HitRadius = 30.0
)

// dragMode is the gesture phase.
type dragMode int

const (
	modeIdle dragMode = iota
	modeRotate
	modePan
)

// Controller runs the gesture state machine. It writes camera state
// directly on the input path for zero-latency drags and reports picks
// upward through callbacks.
type Controller struct {
	cam *camera.Camera
	st  *world.State
	vp  scene.Viewport

	// OnSelectLocation fires after a successful icon hit-test tap.
	OnSelectLocation func(id string)
	// OnCreateLocation fires after a successful ground raycast tap in
	// placement mode. Coordinates are rounded to integers.
	OnCreateLocation func(x, y int)

	placement bool

	mode         dragMode
	lastX, lastY float32
	moved        float32

	// Active touch points by finger id.
	fingers   map[int64]math.Vec2
	lastPinch float32
}

// NewController wires the gesture machine to a camera and world state.
func NewController(cam *camera.Camera, st *world.State, vp scene.Viewport) *Controller {
	return &Controller{
		cam:     cam,
		st:      st,
		vp:      vp,
		fingers: make(map[int64]math.Vec2),
	}
}

// SetViewport updates the viewport used for picking math.
func (c *Controller) SetViewport(vp scene.Viewport) {
	c.vp = vp
}

// SetPlacementMode toggles location-placement mode. The mode stays on
// until the caller toggles it off; taps while active request creation
// instead of selection.
func (c *Controller) SetPlacementMode(on bool) {
	c.placement = on
}

// PlacementMode reports whether placement mode is active.
func (c *Controller) PlacementMode() bool {
	return c.placement
}

// Handle feeds one translated event through the state machine.
func (c *Controller) Handle(ev Event) {
	switch ev.Type {
	case EventPointerDown:
		c.pointerDown(ev.X, ev.Y, ev.Button)
	case EventPointerMove:
		c.pointerMove(ev.X, ev.Y)
	case EventPointerUp:
		c.pointerUp(ev.X, ev.Y)
	case EventWheel:
		c.cam.ZoomBy(ev.Wheel)
	case EventFingerDown:
		c.fingerDown(ev.Finger, ev.X, ev.Y)
	case EventFingerMove:
		c.fingerMove(ev.Finger, ev.X, ev.Y)
	case EventFingerUp:
		c.fingerUp(ev.Finger, ev.X, ev.Y)
	case EventWindowResize:
		c.vp = scene.Viewport{W: float32(ev.Width), H: float32(ev.Height)}
	}
}

func (c *Controller) pointerDown(x, y float32, button uint8) {
	switch button {
	case ButtonSecondary, ButtonMiddle:
		c.mode = modePan
	default:
		c.mode = modeRotate
	}
	c.lastX, c.lastY = x, y
	c.moved = 0
}

func (c *Controller) pointerMove(x, y float32) {
	if c.mode == modeIdle {
		return
	}
	dx := x - c.lastX
	dy := y - c.lastY
	c.lastX, c.lastY = x, y
	c.moved += abs(dx) + abs(dy)

	switch c.mode {
	case modeRotate:
		c.cam.Rotate(dx, dy)
	case modePan:
		c.cam.PanBy(dx, dy)
	}
}

func (c *Controller) pointerUp(x, y float32) {
	wasDrag := c.moved > tapSlop
	c.mode = modeIdle
	if !wasDrag {
		c.tap(x, y)
	}
}

func (c *Controller) fingerDown(id int64, x, y float32) {
	c.fingers[id] = math.Vec2{X: x, Y: y}
	c.lastPinch = 0
	if len(c.fingers) == 1 {
		c.mode = modeRotate
		c.lastX, c.lastY = x, y
		c.moved = 0
	} else {
		// Second finger promotes the drag to pan+zoom.
		c.mode = modePan
	}
}

func (c *Controller) fingerMove(id int64, x, y float32) {
	prev, ok := c.fingers[id]
	if !ok {
		return
	}
	c.fingers[id] = math.Vec2{X: x, Y: y}
	c.moved += abs(x-prev.X) + abs(y-prev.Y)

	if len(c.fingers) == 1 && c.mode == modeRotate {
		c.cam.Rotate(x-prev.X, y-prev.Y)
		return
	}
	if len(c.fingers) == 2 {
		c.twoFingerUpdate(id, prev)
	}
}

// twoFingerUpdate pans by the moved finger's delta (halved, since each
// finger contributes) and zooms by the pinch distance ratio.
func (c *Controller) twoFingerUpdate(movedID int64, prev math.Vec2) {
	var a, b math.Vec2
	i := 0
	for _, p := range c.fingers {
		if i == 0 {
			a = p
		} else {
			b = p
		}
		i++
	}

	cur := c.fingers[movedID]
	c.cam.PanBy((cur.X-prev.X)/2, (cur.Y-prev.Y)/2)

	dist := a.Distance(b)
	if c.lastPinch > 0 && dist > 0 {
		c.cam.ScaleBy(dist / c.lastPinch)
	}
	c.lastPinch = dist
}

func (c *Controller) fingerUp(id int64, x, y float32) {
	// SDL delivers FINGERUP per finger; releasing all ends the drag.
	delete(c.fingers, id)
	if len(c.fingers) > 0 {
		c.lastPinch = 0
		return
	}
	wasDrag := c.moved > tapSlop || c.mode == modePan
	c.mode = modeIdle
	if !wasDrag {
		c.tap(x, y)
	}
}

// tap resolves a no-movement release: a location pick, or in placement
// mode a ground raycast and creation request.
func (c *Controller) tap(x, y float32) {
	if c.placement {
		gx, gy := picking.PickGround(c.cam.Live, c.vp.W/2, c.vp.H/2, x, y, c.cam.HeightAt)
		if c.OnCreateLocation != nil {
			c.OnCreateLocation(roundInt(gx), roundInt(gy))
		}
		return
	}

	cands := c.candidates()
	if id, ok := picking.Nearest(cands, x, y, HitRadius); ok && c.OnSelectLocation != nil {
		c.OnSelectLocation(id)
	}
}

// candidates projects every known location's icon to screen space with
// the current camera, mirroring where the compositor draws the badges.
func (c *Controller) candidates() []picking.Candidate {
	if c.st == nil {
		return nil
	}
	s := c.cam.Live
	m := projection.NewMatrix(s.Yaw, s.Pitch, s.Scale, s.Pan, c.vp.W/2, c.vp.H/2)

	cands := make([]picking.Candidate, 0, len(c.st.Locations))
	for _, loc := range c.st.Locations {
		if !loc.Known {
			continue
		}
		ground := c.cam.HeightAt(loc.X, loc.Y)
		pt := m.Project(loc.X, loc.Y, scene.IconHeight(ground))
		cands = append(cands, picking.Candidate{ID: loc.ID, X: pt.X, Y: pt.Y})
	}
	return cands
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func roundInt(v float32) int {
	return int(gomath.Round(float64(v)))
}
