// Package window owns the SDL2 window and the 2D drawing surface the
// scene compositor paints on.
package window

import (
	"fmt"
	gomath "math"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/internal/engine/scene"
	"github.com/fablewright/overmap/internal/logger"
	"github.com/fablewright/overmap/pkg/math"
)

func init() {
	// SDL rendering must stay on the main thread.
	runtime.LockOSThread()
}

// Dash pattern for anchor lines, in pixels.
const (
	dashOn  = 6
	dashOff = 4
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool

	// MaxPixelRatio caps the device-pixel-ratio scaling of the
	// offscreen target, bounding raster cost on high-density displays.
	MaxPixelRatio float32
}

// Window wraps the SDL2 window, its renderer, and an offscreen target
// texture matched to the drawable pixel size. It implements
// scene.Canvas; all drawing lands on the target, which Present blits
// to the window.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	renderer  *sdl.Renderer

	target *sdl.Texture
	ratio  float32
	w, h   int32
}

// New creates the window and its renderer.
func New(cfg Config) (*Window, error) {
	if cfg.MaxPixelRatio <= 0 {
		cfg.MaxPixelRatio = 1.5
	}
	w := &Window{config: cfg}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	flags := uint32(sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	rflags := uint32(sdl.RENDERER_ACCELERATED)
	if cfg.VSync {
		rflags |= sdl.RENDERER_PRESENTVSYNC
	}
	w.renderer, err = sdl.CreateRenderer(w.sdlWindow, -1, rflags)
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	if err := w.rebuildTarget(); err != nil {
		w.Close()
		return nil, err
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Float32("pixel_ratio", w.ratio),
	)
	return w, nil
}

// rebuildTarget sizes the offscreen texture to the drawable area,
// device-pixel-ratio scaled but capped so dense displays do not blow
// up fill cost.
func (w *Window) rebuildTarget() error {
	winW, winH := w.sdlWindow.GetSize()
	drawW, _, err := w.renderer.GetOutputSize()
	if err != nil {
		drawW = winW
	}

	ratio := float32(1)
	if winW > 0 {
		ratio = float32(drawW) / float32(winW)
	}
	if ratio > w.config.MaxPixelRatio {
		ratio = w.config.MaxPixelRatio
	}

	if w.target != nil {
		w.target.Destroy()
	}
	target, err := w.renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_TARGET,
		int32(float32(winW)*ratio),
		int32(float32(winH)*ratio),
	)
	if err != nil {
		return fmt.Errorf("creating render target: %w", err)
	}

	w.target = target
	w.ratio = ratio
	w.w, w.h = winW, winH
	return nil
}

// Resize rebuilds the offscreen target after a window resize.
func (w *Window) Resize() error {
	return w.rebuildTarget()
}

// Viewport returns the drawing surface size in window units. Drawing
// and picking both work in this space; the pixel ratio is applied by
// the renderer scale.
func (w *Window) Viewport() scene.Viewport {
	return scene.Viewport{W: float32(w.w), H: float32(w.h)}
}

// Begin binds the offscreen target for a frame repaint.
func (w *Window) Begin() {
	w.renderer.SetRenderTarget(w.target)
	w.renderer.SetScale(w.ratio, w.ratio)
	w.renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)
}

// Present blits the offscreen target to the window.
func (w *Window) Present() {
	w.renderer.SetScale(1, 1)
	w.renderer.SetRenderTarget(nil)
	w.renderer.Copy(w.target, nil, nil)
	w.renderer.Present()
}

// Close destroys SDL resources.
func (w *Window) Close() {
	if w.target != nil {
		w.target.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// --- scene.Canvas implementation ---

// Clear repaints the whole surface with one color. Every frame starts
// here; there are no partial updates.
func (w *Window) Clear(c projection.Color) {
	w.renderer.SetDrawColor(c.R, c.G, c.B, 255)
	w.renderer.Clear()
}

// FillPolygon rasterizes a convex polygon as a triangle fan.
func (w *Window) FillPolygon(pts []math.Vec2, c projection.Color) {
	if len(pts) < 3 {
		return
	}
	col := sdl.Color{R: c.R, G: c.G, B: c.B, A: 255}
	verts := make([]sdl.Vertex, len(pts))
	for i, p := range pts {
		verts[i] = sdl.Vertex{
			Position: sdl.FPoint{X: p.X, Y: p.Y},
			Color:    col,
		}
	}
	indices := make([]int32, 0, (len(pts)-2)*3)
	for i := 1; i < len(pts)-1; i++ {
		indices = append(indices, 0, int32(i), int32(i+1))
	}
	w.renderer.RenderGeometry(nil, verts, indices)
}

// StrokePolyline draws connected line segments.
func (w *Window) StrokePolyline(pts []math.Vec2, c projection.Color, closed bool) {
	if len(pts) < 2 {
		return
	}
	w.renderer.SetDrawColor(c.R, c.G, c.B, 255)
	fpts := make([]sdl.FPoint, 0, len(pts)+1)
	for _, p := range pts {
		fpts = append(fpts, sdl.FPoint{X: p.X, Y: p.Y})
	}
	if closed {
		fpts = append(fpts, fpts[0])
	}
	w.renderer.DrawLinesF(fpts)
}

// DashedLine draws a dashed segment from a to b.
func (w *Window) DashedLine(a, b math.Vec2, c projection.Color) {
	w.renderer.SetDrawColor(c.R, c.G, c.B, 255)

	dx, dy := b.X-a.X, b.Y-a.Y
	length := float32(gomath.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	ux, uy := dx/length, dy/length

	for at := float32(0); at < length; at += dashOn + dashOff {
		end := at + dashOn
		if end > length {
			end = length
		}
		w.renderer.DrawLineF(
			a.X+ux*at, a.Y+uy*at,
			a.X+ux*end, a.Y+uy*end,
		)
	}
}

// FillCircle rasterizes a filled circle as a triangle fan.
func (w *Window) FillCircle(center math.Vec2, radius float32, c projection.Color) {
	const segments = 16
	col := sdl.Color{R: c.R, G: c.G, B: c.B, A: 255}

	verts := make([]sdl.Vertex, 0, segments+1)
	verts = append(verts, sdl.Vertex{
		Position: sdl.FPoint{X: center.X, Y: center.Y},
		Color:    col,
	})
	for i := 0; i <= segments; i++ {
		angle := float64(i) / segments * 2 * gomath.Pi
		verts = append(verts, sdl.Vertex{
			Position: sdl.FPoint{
				X: center.X + radius*float32(gomath.Cos(angle)),
				Y: center.Y + radius*float32(gomath.Sin(angle)),
			},
			Color: col,
		})
	}
	indices := make([]int32, 0, segments*3)
	for i := 1; i <= segments; i++ {
		indices = append(indices, 0, int32(i), int32(i+1))
	}
	w.renderer.RenderGeometry(nil, verts, indices)
}

// StrokeCircle draws a circle outline.
func (w *Window) StrokeCircle(center math.Vec2, radius float32, c projection.Color) {
	const segments = 24
	w.renderer.SetDrawColor(c.R, c.G, c.B, 255)

	fpts := make([]sdl.FPoint, 0, segments+1)
	for i := 0; i <= segments; i++ {
		angle := float64(i) / segments * 2 * gomath.Pi
		fpts = append(fpts, sdl.FPoint{
			X: center.X + radius*float32(gomath.Cos(angle)),
			Y: center.Y + radius*float32(gomath.Sin(angle)),
		})
	}
	w.renderer.DrawLinesF(fpts)
}
