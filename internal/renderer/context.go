// Package renderer brings up Vulkan for a single window and draws a
// triangle into it, one frame in flight at a time.
//
// New runs the whole bring-up sequence: instance, surface, physical device
// selection, logical device and queues, presentation chain, render pipeline
// and the frame slot. Any failure tears down what was already created and is
// returned as an error; nothing in this package exits the process.
package renderer

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
)

// Window is the part of the native window the renderer needs.
type Window interface {
	VulkanInstanceExtensions() []string
	VulkanProcAddr() unsafe.Pointer
	CreateSurface(instance core1_0.Instance, surfaceExtension khr_surface.Extension) (khr_surface.Surface, error)
	DrawableSize() (int, int)
}

type Options struct {
	AppName         string
	Validation      bool
	ValidationLayer string
	ClearColor      mgl32.Vec4
	// StatsInterval is how many frames pass between timing reports; 0
	// disables them.
	StatsInterval int
}

// GraphicsContext owns every Vulkan object created for one window. Device
// level objects are written only by New and Close.
type GraphicsContext struct {
	opts   Options
	window Window
	log    *gamelog.Logger

	loader         core.Loader
	instance       core1_0.Instance
	debugMessenger ext_debug_utils.DebugUtilsMessenger
	surface        khr_surface.Surface

	candidate DeviceCandidate
	families  QueueFamilySelection

	device        core1_0.Device
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	chain    *PresentationChain
	pipeline *RenderPipeline
	frame    *FrameExecutor
	stats    *FrameStats

	releases releaseStack
	closed   bool
}

// New brings up Vulkan for window and prepares the frame slot. The shader
// code is copied into shader modules and not referenced afterwards.
func New(window Window, shaders ShaderSource, opts Options, log *gamelog.Logger) (*GraphicsContext, error) {
	c := &GraphicsContext{
		opts:   opts,
		window: window,
		log:    log,
	}

	if err := c.init(shaders); err != nil {
		_ = teardown(c.waitIdle, &c.releases, c.log)
		return nil, err
	}
	return c, nil
}

func (c *GraphicsContext) init(shaders ShaderSource) error {
	err := c.createInstance()
	if err != nil {
		return err
	}

	err = c.createSurface()
	if err != nil {
		return err
	}

	err = c.pickPhysicalDevice()
	if err != nil {
		return err
	}

	err = c.createLogicalDevice()
	if err != nil {
		return err
	}

	err = c.createPresentationChain()
	if err != nil {
		return err
	}

	err = c.createRenderPipeline(shaders)
	if err != nil {
		return err
	}

	frame, err := c.createFrame()
	if err != nil {
		return err
	}
	c.stats = NewFrameStats(c.opts.StatsInterval, c.log)
	c.frame = newFrameExecutor(frame, c.stats, c.log)

	return nil
}

func (c *GraphicsContext) createSurface() error {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(c.instance)

	surface, err := c.window.CreateSurface(c.instance, surfaceLoader)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "create window surface"), ErrSurfaceCreation)
	}
	c.surface = surface
	c.releases.push("surface", func() { surface.Destroy(nil) })
	return nil
}

func (c *GraphicsContext) pickPhysicalDevice() error {
	candidate, families, err := SelectPhysicalDevice(c.instance, c.surface)
	if err != nil {
		return err
	}
	c.candidate = candidate
	c.families = families

	c.log.Info("selected physical device",
		"type", candidate.Type,
		"pipeline_cache", candidate.PipelineCacheUUID,
		"graphics_family", *families.GraphicsFamily,
		"present_family", *families.PresentFamily)
	return nil
}

// RenderFrame draws and presents one frame. It blocks until the previous
// frame has finished on the GPU and a chain image is available.
func (c *GraphicsContext) RenderFrame() error {
	return c.frame.RenderFrame()
}

// Frames is the number of frames presented.
func (c *GraphicsContext) Frames() int {
	return c.frame.Frames()
}

// Close waits for the device to finish all submitted work and destroys every
// object in reverse creation order. Calling it again does nothing.
func (c *GraphicsContext) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	c.stats.Summary()
	return teardown(c.waitIdle, &c.releases, c.log)
}

func (c *GraphicsContext) waitIdle() error {
	if c.device == nil {
		return nil
	}
	res, err := c.device.WaitIdle()
	if err != nil {
		return nativeError(ErrFrameExecution, OpDeviceWaitIdle, res, err)
	}
	return nil
}
