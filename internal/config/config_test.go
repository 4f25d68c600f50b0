package config

import (
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("Parse(nil) = %+v, want defaults %+v", cfg, Default())
	}
}

func TestDefaultWindow(t *testing.T) {
	cfg := Default()
	if cfg.Title != "Game in Vulkan" || cfg.Width != 800 || cfg.Height != 600 {
		t.Errorf("default window %q %dx%d", cfg.Title, cfg.Width, cfg.Height)
	}
	if cfg.ShaderDir != "" {
		t.Errorf("ShaderDir = %q, want the built-in shaders", cfg.ShaderDir)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{
		"-title", "Triangle",
		"-width", "1024",
		"-height", "768",
		"-shaders", "build/shaders",
		"-validation=false",
		"-clear", "0.1, 0.2, 0.3, 1",
		"-stats", "0",
		"-v",
		"-no-color",
	}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Title != "Triangle" || cfg.Width != 1024 || cfg.Height != 768 {
		t.Errorf("window settings not applied: %+v", cfg)
	}
	if cfg.ShaderDir != "build/shaders" {
		t.Errorf("ShaderDir = %q", cfg.ShaderDir)
	}
	if cfg.Validation {
		t.Error("Validation should be disabled")
	}
	if cfg.ClearColor != (mgl32.Vec4{0.1, 0.2, 0.3, 1}) {
		t.Errorf("ClearColor = %v", cfg.ClearColor)
	}
	if cfg.StatsInterval != 0 {
		t.Errorf("StatsInterval = %d", cfg.StatsInterval)
	}
	if !cfg.Verbose || cfg.Color {
		t.Errorf("Verbose=%v Color=%v", cfg.Verbose, cfg.Color)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string][]string{
		"zero width":       {"-width", "0"},
		"negative stats":   {"-stats", "-1"},
		"short colour":     {"-clear", "1,1,1"},
		"bad colour":       {"-clear", "1,x,1,1"},
		"colour range":     {"-clear", "2,0,0,1"},
		"empty layer":      {"-validation-layer", ""},
		"unknown flag":     {"-fullscreen"},
		"stray positional": {"extra"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(args, io.Discard); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", args)
			}
		})
	}
}

func TestEmptyLayerAllowedWithoutValidation(t *testing.T) {
	if _, err := Parse([]string{"-validation=false", "-validation-layer", ""}, io.Discard); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestColorFlagString(t *testing.T) {
	c := colorFlag{0, 0.5, 1, 1}
	if got := c.String(); got != "0,0.5,1,1" {
		t.Errorf("String() = %q", got)
	}
}
