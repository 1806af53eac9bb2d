// Package config holds the command-line settings of the demo.
package config

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"strings"
)

const (
	BackendGPU = "gpu"
	BackendCPU = "cpu"
)

type Config struct {
	// Side of the square velocity buffers in texels. Fixed for the life
	// of the process.
	Size int
	// Grid segments per side of the rendered plane
	Segments int
	Width    int
	Height   int
	Backend  string
	// Where shader sources are read from: an http(s) base URL, a
	// directory, or empty for the embedded copies.
	Shaders string
	Retries int
	Threads int

	Speed    float64
	Decay    float64
	Strength float64
	Swirl    float64
	Opacity  float64
	Line     float64

	Debug    bool
	LogLevel string
	LogJSON  bool
}

func Default() Config {
	return Config{
		Size:     256,
		Segments: 64,
		Width:    1024,
		Height:   768,
		Backend:  BackendGPU,
		Threads:  runtime.NumCPU(),
		Speed:    4,
		Decay:    0.99,
		Strength: 0.5,
		Opacity:  0.9,
		Line:     1,
		LogLevel: "info",
	}
}

// Bind registers every setting on fs, defaulting to Default(). The
// returned Config is filled in when fs is parsed.
func Bind(fs *flag.FlagSet) *Config {
	c := Default()
	fs.IntVar(&c.Size, "size", c.Size, "side of the velocity buffers in texels")
	fs.IntVar(&c.Segments, "segments", c.Segments, "grid segments per side of the plane")
	fs.IntVar(&c.Width, "width", c.Width, "initial window width")
	fs.IntVar(&c.Height, "height", c.Height, "initial window height")
	fs.StringVar(&c.Backend, "backend", c.Backend, "where the field is advected: gpu or cpu")
	fs.StringVar(&c.Shaders, "shaders", c.Shaders, "shader source location: http(s) base URL or directory, empty for embedded")
	fs.IntVar(&c.Retries, "retries", c.Retries, "extra attempts for each failed shader fetch")
	fs.IntVar(&c.Threads, "threads", c.Threads, "goroutines used by the cpu backend")
	fs.Float64Var(&c.Speed, "speed", c.Speed, "texels travelled per unit velocity each step")
	fs.Float64Var(&c.Decay, "decay", c.Decay, "velocity kept after each step (0-1)")
	fs.Float64Var(&c.Strength, "strength", c.Strength, "push of the pointer brush at its center")
	fs.Float64Var(&c.Swirl, "swirl", c.Swirl, "initial rotation speed of the field")
	fs.Float64Var(&c.Opacity, "opacity", c.Opacity, "plane opacity (0-1)")
	fs.Float64Var(&c.Line, "line", c.Line, "wireframe line width in pixels")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "show the FPS and timing overlay")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.LogJSON, "log-json", c.LogJSON, "log JSON lines instead of console text")
	return &c
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Size >= 2 && c.Size <= 4096, "size %d out of range [2, 4096]", c.Size)
	check(c.Segments >= 1 && c.Segments <= 512, "segments %d out of range [1, 512]", c.Segments)
	check(c.Width > 0 && c.Height > 0, "window %dx%d must be positive", c.Width, c.Height)
	check(c.Backend == BackendGPU || c.Backend == BackendCPU, "unknown backend %q", c.Backend)
	check(c.Retries >= 0, "retries %d must not be negative", c.Retries)
	check(c.Threads >= 1, "threads %d must be at least 1", c.Threads)
	check(c.Speed >= 0, "speed %g must not be negative", c.Speed)
	check(c.Decay >= 0 && c.Decay <= 1, "decay %g out of range [0, 1]", c.Decay)
	check(c.Opacity >= 0 && c.Opacity <= 1, "opacity %g out of range [0, 1]", c.Opacity)
	check(c.Line > 0, "line width %g must be positive", c.Line)
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}
