// Package window owns the SDL2 window the triangle is presented to and the
// SDL event pump that reports when the user asks to close it.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

// SDLWindow is a Vulkan-capable SDL2 window. All methods must be called
// from the thread that created it.
type SDLWindow struct {
	window *sdl.Window
	closed bool
}

// Open initialises SDL video and creates a shown, Vulkan-enabled window.
// The window is not resizable: the swapchain is built once for its size.
func Open(title string, width, height int) (*SDLWindow, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "init sdl video")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	return &SDLWindow{window: window}, nil
}

// VulkanProcAddr returns vkGetInstanceProcAddr as loaded by SDL.
func (w *SDLWindow) VulkanProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// VulkanInstanceExtensions lists the instance extensions SDL needs to create
// a surface for this window.
func (w *SDLWindow) VulkanInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

func (w *SDLWindow) CreateSurface(instance core1_0.Instance, surfaceExtension khr_surface.Extension) (khr_surface.Surface, error) {
	return vkng_sdl2.CreateSurface(instance, surfaceExtension, w.window)
}

// DrawableSize is the framebuffer size in pixels, which can differ from the
// window size on high-DPI displays.
func (w *SDLWindow) DrawableSize() (int, int) {
	width, height := w.window.VulkanGetDrawableSize()
	return int(width), int(height)
}

// CloseRequested drains the SDL event queue and reports whether a quit or
// window-close event has been seen. Once true it stays true.
func (w *SDLWindow) CloseRequested() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.closed = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_CLOSE {
				w.closed = true
			}
		}
	}
	return w.closed
}

func (w *SDLWindow) Destroy() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
