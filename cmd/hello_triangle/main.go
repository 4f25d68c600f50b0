// Command hello_triangle opens a window and draws a triangle into it with
// Vulkan until the window is closed.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/hello-triangle/internal/config"
	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
	"github.com/vkngwrapper/hello-triangle/internal/renderer"
	"github.com/vkngwrapper/hello-triangle/internal/shaders"
	"github.com/vkngwrapper/hello-triangle/internal/window"
)

func init() {
	// SDL and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		gamelog.New(os.Stderr, false, true).Fatal(err)
	}

	log := gamelog.New(os.Stderr, cfg.Verbose, cfg.Color)
	if err := run(cfg, log); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config, log *gamelog.Logger) error {
	shaderSet, err := shaders.Load(context.Background(), cfg.ShaderDir)
	if err != nil {
		return err
	}
	log.Debug("loaded shaders", "dir", cfg.ShaderDir,
		"vertex_bytes", len(shaderSet.Vertex), "fragment_bytes", len(shaderSet.Fragment))

	win, err := window.Open(cfg.Title, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer win.Destroy()

	gfx, err := renderer.New(win, shaderSet, renderer.Options{
		AppName:         cfg.Title,
		Validation:      cfg.Validation,
		ValidationLayer: cfg.ValidationLayer,
		ClearColor:      cfg.ClearColor,
		StatsInterval:   cfg.StatsInterval,
	}, log)
	if err != nil {
		return err
	}

	for !win.CloseRequested() {
		if err := gfx.RenderFrame(); err != nil {
			return errors.CombineErrors(err, gfx.Close())
		}
	}

	log.Info("window closed", "frames", gfx.Frames())
	return gfx.Close()
}
