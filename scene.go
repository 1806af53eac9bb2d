package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"gpuhpp/config"
	"gpuhpp/field"
	"gpuhpp/palette"
	"gpuhpp/shaderload"
	"gpuhpp/view"
)

const (
	initShader   = "init.kage"
	advectShader = "advect.kage"
	planeShader  = "plane.kage"
	// Speed at which plane colours reach full hue
	paletteFull = 0.25
)

type loadResult struct {
	names   []string
	sources []string
	err     error
}

type Scene struct {
	cfg    config.Config
	log    *zap.Logger
	loaded chan loadResult
	cancel context.CancelFunc
	// Set when shaders could not be loaded or compiled. The scene then
	// stays idle for the rest of the run.
	failed bool

	sim     simulator
	plane   *planeRenderer
	camera  *view.Camera
	surface view.Plane
	mesh    *view.Mesh
	palette *palette.Palette
	brush   view.Brush
	params  field.AdvectParams
	hit     bool

	width, height    int
	cursorX, cursorY float32
	dragX, dragY     int
	dragging         bool
	touchIDs         []ebiten.TouchID

	debug      bool
	wireframe  bool
	lastUpdate time.Time
	simTime    float64
	renderTime float64
}

func newScene(cfg config.Config, log *zap.Logger, loader *shaderload.Loader) *Scene {
	surface := view.Plane{Size: view.DefaultPlaneSize}
	s := &Scene{
		cfg:     cfg,
		log:     log,
		loaded:  make(chan loadResult, 1),
		camera:  view.NewCamera(cfg.Width, cfg.Height),
		surface: surface,
		mesh:    view.NewMesh(surface, cfg.Segments),
		palette: palette.New(paletteFull),
		params: field.AdvectParams{
			Mouse:    field.Vec{X: 0.5, Y: 0.5},
			Strength: float32(cfg.Strength),
			Speed:    float32(cfg.Speed),
			Decay:    float32(cfg.Decay),
		},
		width:      cfg.Width,
		height:     cfg.Height,
		debug:      cfg.Debug,
		wireframe:  true,
		lastUpdate: time.Now(),
	}

	names := []string{planeShader}
	if cfg.Backend == config.BackendGPU {
		names = append(names, initShader, advectShader)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() {
		srcs, err := loader.LoadAll(ctx, names...)
		s.loaded <- loadResult{names: names, sources: srcs, err: err}
	}()
	log.Info("loading shaders", zap.Strings("names", names), zap.String("from", loader.Location()))
	return s
}

// Picks up the shader sources once every fetch has finished and starts
// the simulation.
func (s *Scene) pollShaders() {
	if s.sim != nil || s.failed {
		return
	}
	select {
	case res := <-s.loaded:
		if err := s.start(res); err != nil {
			s.failed = true
			s.log.Warn("simulation not started", zap.Error(err))
		}
	default:
	}
}

func (s *Scene) start(res loadResult) error {
	if res.err != nil {
		return res.err
	}
	shaders := make(map[string]*ebiten.Shader, len(res.names))
	for i, name := range res.names {
		shader, err := ebiten.NewShader([]byte(res.sources[i]))
		if err != nil {
			return fmt.Errorf("compile %s: %w", name, err)
		}
		shaders[name] = shader
	}

	s.plane = &planeRenderer{
		shader:    shaders[planeShader],
		opacity:   float32(s.cfg.Opacity),
		lineWidth: float32(s.cfg.Line),
	}
	switch s.cfg.Backend {
	case config.BackendGPU:
		s.sim = newGPUSim(s.cfg.Size, shaders[initShader], shaders[advectShader], float32(s.cfg.Swirl))
	case config.BackendCPU:
		s.sim = newCPUSim(s.cfg.Size, float32(s.cfg.Swirl), s.cfg.Threads)
	default:
		return errors.New("unknown backend " + s.cfg.Backend)
	}
	s.sim.Reset()
	s.log.Info("simulation started",
		zap.String("backend", s.cfg.Backend),
		zap.Int("size", s.cfg.Size),
		zap.Int("segments", s.cfg.Segments))
	return nil
}

func (s *Scene) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	s.pollShaders()
	s.handleKeys()
	s.handlePointer()

	now := time.Now()
	s.camera.Update(now.Sub(s.lastUpdate).Seconds())
	s.lastUpdate = now
	return nil
}

func (s *Scene) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		s.debug = !s.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		s.wireframe = !s.wireframe
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && s.sim != nil {
		s.sim.Reset()
		s.log.Debug("field reset")
	}
}

// The first touch wins over the mouse. Dragging with the left button
// orbits the camera and the wheel zooms.
func (s *Scene) handlePointer() {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(s.touchIDs[0])
		s.cursorX, s.cursorY = float32(x), float32(y)
		s.dragging = false
	} else {
		x, y := ebiten.CursorPosition()
		s.cursorX, s.cursorY = float32(x), float32(y)
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			if s.dragging {
				s.camera.Rotate(float32(x-s.dragX), float32(y-s.dragY))
			}
			s.dragX, s.dragY, s.dragging = x, y, true
		} else {
			s.dragging = false
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		s.camera.Zoom(float32(wy))
	}
}

// Prioritizes displaying every frame over running at a consistent speed,
// so the simulation steps once per drawn frame
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if s.sim == nil {
		if s.debug {
			ebitenutil.DebugPrint(screen, s.status())
		}
		return
	}

	timer := makeTimer()
	s.simStep()
	s.simTime = smooth(s.simTime, timer.tick())
	s.render(screen)
	s.renderTime = smooth(s.renderTime, timer.tick())

	if s.debug {
		debugInfo := ""
		debugInfo += fmt.Sprintf("FPS: %0.4g\n", ebiten.ActualFPS())
		debugInfo += fmt.Sprintf("Simulation time: %0.3f\n", s.simTime)
		debugInfo += fmt.Sprintf("Render time: %0.3f\n", s.renderTime)
		debugInfo += fmt.Sprintf("Backend: %s %dx%d\n", s.cfg.Backend, s.cfg.Size, s.cfg.Size)
		debugInfo += fmt.Sprintf("Swaps: %d\n", s.sim.Swaps())
		debugInfo += fmt.Sprintf("Peak velocity: %0.3f\n", s.sim.Field().MaxMagnitude())
		debugInfo += fmt.Sprintf("Brush radius: %0.3f\n", s.params.Radius)
		debugInfo += "[D]ebug [W]ireframe [R]eset"
		ebitenutil.DebugPrint(screen, debugInfo)
	}
}

func (s *Scene) status() string {
	if s.failed {
		return "Shaders unavailable"
	}
	return "Loading shaders..."
}

// Casts the pointer onto the plane to place the brush, then advects
func (s *Scene) simStep() {
	ndcX, ndcY := view.NDC(s.cursorX, s.cursorY, s.width, s.height)
	u, v, hit := s.surface.Intersect(s.camera.Ray(ndcX, ndcY))
	s.hit = hit
	s.params.Mouse, s.params.Radius = s.brush.Update(u, v, hit, s.params.Mouse)
	s.sim.Step(s.params)
}

func (s *Scene) render(screen *ebiten.Image) {
	s.mesh.Deform(s.sim.Field(), s.palette)
	s.mesh.Project(s.camera.ViewProjection(), s.width, s.height)
	s.plane.draw(screen, s.mesh, s.wireframe)

	if s.hit {
		r := 6 + s.params.Radius*400
		vector.StrokeCircle(screen, s.cursorX, s.cursorY, r, 1, color.RGBA{0x80, 0x80, 0x80, 0x80}, true)
	}
}

// Follows the window so resizing updates the camera aspect and the size
// the plane is drawn at.
func (s *Scene) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth != s.width || outsideHeight != s.height {
		s.width, s.height = outsideWidth, outsideHeight
		s.camera.SetAspect(outsideWidth, outsideHeight)
		s.log.Debug("resized", zap.Int("width", outsideWidth), zap.Int("height", outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Close stops pending shader fetches and releases the offscreen buffers.
func (s *Scene) Close() {
	s.cancel()
	if s.sim != nil {
		s.sim.Close()
	}
}
