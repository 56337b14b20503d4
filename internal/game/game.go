// Package game wires the engine together: world state, camera, grid
// cache, compositor, and the reactive redraw loop.
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/fablewright/overmap/internal/config"
	"github.com/fablewright/overmap/internal/engine/camera"
	"github.com/fablewright/overmap/internal/engine/grid"
	"github.com/fablewright/overmap/internal/engine/input"
	"github.com/fablewright/overmap/internal/engine/scene"
	"github.com/fablewright/overmap/internal/engine/window"
	"github.com/fablewright/overmap/internal/logger"
	"github.com/fablewright/overmap/internal/world"
)

// idleWait is how long the loop sleeps when nothing needs redrawing.
// There is no fixed-rate render loop: frames happen only on change.
const idleWait = 5 * time.Millisecond

// Game is the interactive map client.
type Game struct {
	cfg *config.Config

	st    *world.State
	cam   *camera.Camera
	cache *grid.Cache

	win        *window.Window
	translator *input.Translator
	ctrl       *input.Controller

	selectedID string

	running bool
	dirty   bool
}

// New creates the game: loads or generates the world, opens the
// window, and wires the gesture controller callbacks.
func New(cfg *config.Config) (*Game, error) {
	st, err := loadWorld(cfg)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:   cfg,
		st:    st,
		cam:   camera.New(st.HeightAt),
		cache: &grid.Cache{},
		dirty: true,
	}

	g.win, err = window.New(window.Config{
		Title:         "Overmap",
		Width:         cfg.Graphics.Width,
		Height:        cfg.Graphics.Height,
		Fullscreen:    cfg.Graphics.Fullscreen,
		VSync:         cfg.Graphics.VSync,
		MaxPixelRatio: cfg.Graphics.MaxPixelRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.translator = input.NewTranslator(cfg.Graphics.Width, cfg.Graphics.Height)
	g.ctrl = input.NewController(g.cam, g.st, g.win.Viewport())
	g.ctrl.OnSelectLocation = g.selectLocation
	g.ctrl.OnCreateLocation = g.createLocation

	// Focus the camera on the active location, if the world has one.
	if active := st.ActiveLocation(); active != nil {
		g.cam.Reset(active.X, active.Y)
		g.selectedID = active.ID
	}

	logger.Info("game initialized",
		zap.Int("chunks", len(st.Chunks)),
		zap.Int("locations", len(st.Locations)),
		zap.Int("regions", len(st.Regions)),
	)
	return g, nil
}

func loadWorld(cfg *config.Config) (*world.State, error) {
	if cfg.World.Snapshot != "" {
		st, err := world.LoadSnapshot(cfg.World.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("loading world: %w", err)
		}
		logger.Info("world loaded", zap.String("snapshot", cfg.World.Snapshot))
		return st, nil
	}

	logger.Info("generating demo world", zap.Int64("seed", cfg.World.Seed))
	return world.Generate(world.DefaultGenOptions(cfg.World.Seed)), nil
}

// Run drives the event loop. Rendering is reactive: a frame is drawn
// only when the committed camera, the viewport, or the world changed.
func (g *Game) Run() error {
	g.running = true
	lastVersion := uint64(0)

	for g.running {
		if g.translator.Update() {
			break
		}

		for _, ev := range g.translator.Events() {
			g.handleEvent(ev)
		}

		// Flush the fast-path camera state; any change schedules a frame.
		if g.cam.Commit() {
			g.dirty = true
		}
		if g.st.TerrainVersion != lastVersion {
			lastVersion = g.st.TerrainVersion
			g.dirty = true
		}

		if g.dirty {
			g.render()
			g.dirty = false
		} else {
			time.Sleep(idleWait)
		}
	}

	return nil
}

func (g *Game) handleEvent(ev input.Event) {
	switch ev.Type {
	case input.EventQuit:
		g.running = false

	case input.EventWindowResize:
		if err := g.win.Resize(); err != nil {
			logger.Error("resize failed", zap.Error(err))
		}
		g.ctrl.Handle(ev)
		g.dirty = true

	case input.EventKeyDown:
		g.handleKey(ev.Key)

	default:
		g.ctrl.Handle(ev)
	}
}

func (g *Game) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		g.running = false

	case sdl.SCANCODE_R:
		g.resetView()

	case sdl.SCANCODE_B:
		on := !g.ctrl.PlacementMode()
		g.ctrl.SetPlacementMode(on)
		logger.Info("placement mode", zap.Bool("on", on))
	}
}

// resetView snaps the camera back to the active location, or the
// origin when none is set.
func (g *Game) resetView() {
	if active := g.st.ActiveLocation(); active != nil {
		g.cam.Reset(active.X, active.Y)
		return
	}
	g.cam.Reset(0, 0)
}

func (g *Game) selectLocation(id string) {
	g.selectedID = id
	g.dirty = true
	if loc := g.st.Locations[id]; loc != nil {
		logger.Info("location selected",
			zap.String("id", id),
			zap.String("name", loc.Name),
		)
	}
}

// createLocation handles a placement-mode tap: a new, unexplored
// location at the picked ground point.
func (g *Game) createLocation(x, y int) {
	loc := &world.Location{
		ID:    uuid.NewString(),
		Name:  fmt.Sprintf("Unexplored (%d, %d)", x, y),
		X:     float32(x),
		Y:     float32(y),
		Known: true,
	}
	for i := range g.st.Regions {
		if g.st.Regions[i].Contains(loc.X, loc.Y) {
			loc.Region = g.st.Regions[i].Name
			break
		}
	}
	g.st.AddLocation(loc)
	g.selectedID = loc.ID
	g.dirty = true

	logger.Info("location created",
		zap.String("id", loc.ID),
		zap.Int("x", x),
		zap.Int("y", y),
	)
}

func (g *Game) render() {
	if g.cache.Build(g.st) {
		logger.Debug("grid cache rebuilt",
			zap.Int("tiles", len(g.cache.Points)),
			zap.Uint64("terrain_version", g.st.TerrainVersion),
		)
	}

	g.win.Begin()
	scene.Render(g.win, g.win.Viewport(), g.cam.Committed(), g.st, g.cache, g.selectedID, g.st.HeightAt)
	g.win.Present()
}

// Close releases window resources.
func (g *Game) Close() {
	g.win.Close()
}
