// Package config holds the command-line configuration for hello_triangle.
package config

import (
	"flag"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

const DefaultValidationLayer = "VK_LAYER_KHRONOS_validation"

type Config struct {
	Title  string
	Width  int
	Height int

	// ShaderDir holds vert.spv and frag.spv. Empty means the shaders built
	// into the binary.
	ShaderDir string

	Validation      bool
	ValidationLayer string

	ClearColor mgl32.Vec4

	// StatsInterval is the number of frames between frame-time log lines.
	// Zero disables periodic reporting.
	StatsInterval int

	Verbose bool
	Color   bool
}

func Default() Config {
	return Config{
		Title:           "Game in Vulkan",
		Width:           800,
		Height:          600,
		Validation:      true,
		ValidationLayer: DefaultValidationLayer,
		ClearColor:      mgl32.Vec4{0, 0, 0, 1},
		StatsInterval:   600,
		Color:           true,
	}
}

// Parse builds a Config from the defaults and the given arguments (without
// the program name). Usage output for -h goes to usage.
func Parse(args []string, usage io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("hello_triangle", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "initial window width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "initial window height in pixels")
	fs.StringVar(&cfg.ShaderDir, "shaders", cfg.ShaderDir, "directory containing vert.spv and frag.spv, overriding the built-in shaders")
	fs.BoolVar(&cfg.Validation, "validation", cfg.Validation, "enable the validation layer when it is installed")
	fs.StringVar(&cfg.ValidationLayer, "validation-layer", cfg.ValidationLayer, "name of the validation layer to enable")
	fs.Var((*colorFlag)(&cfg.ClearColor), "clear", "clear colour as r,g,b,a in [0,1]")
	fs.IntVar(&cfg.StatsInterval, "stats", cfg.StatsInterval, "frames between frame-time reports, 0 to disable")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "debug logging and full error traces")
	noColor := fs.Bool("no-color", false, "disable coloured log output")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, errors.Newf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if *noColor {
		cfg.Color = false
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Validation && c.ValidationLayer == "" {
		return errors.New("validation enabled but no validation layer named")
	}
	if c.StatsInterval < 0 {
		return errors.Newf("stats interval must not be negative, got %d", c.StatsInterval)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return errors.Newf("clear colour component %d out of range: %g", i, v)
		}
	}
	return nil
}

type colorFlag mgl32.Vec4

func (f *colorFlag) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, 4)
	for i, v := range f {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (f *colorFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return errors.Newf("expected 4 comma-separated components, got %d", len(parts))
	}
	var c mgl32.Vec4
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return errors.Wrapf(err, "component %d", i)
		}
		c[i] = float32(v)
	}
	*f = colorFlag(c)
	return nil
}
