package renderer

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// undefinedExtent is the current-extent width a surface reports when the
// swapchain extent decides the window size: 0xFFFFFFFF, widened to int.
const undefinedExtent = math.MaxUint32

var preferredSurfaceFormat = khr_surface.SurfaceFormat{
	Format:     core1_0.FormatB8G8R8A8SRGB,
	ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
}

// surfaceSupport is what a surface reports for a physical device.
type surfaceSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// PresentationChain is the swapchain together with its images and views.
// Images belong to the swapchain; views are destroyed before it.
type PresentationChain struct {
	Extension   khr_swapchain.Extension
	Swapchain   khr_swapchain.Swapchain
	Format      core1_0.Format
	ColorSpace  khr_surface.ColorSpace
	PresentMode khr_surface.PresentMode
	Extent      core1_0.Extent2D
	Images      []core1_0.Image
	ImageViews  []core1_0.ImageView
}

// ChooseSurfaceFormat returns B8G8R8A8_SRGB with the sRGB non-linear colour
// space when offered, otherwise the first format the surface lists.
func ChooseSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) (khr_surface.SurfaceFormat, error) {
	if len(availableFormats) == 0 {
		return khr_surface.SurfaceFormat{}, errors.Wrap(ErrUnsupportedSurface, "no surface formats")
	}

	for _, format := range availableFormats {
		if format == preferredSurfaceFormat {
			return format, nil
		}
	}

	return availableFormats[0], nil
}

// ChoosePresentMode always picks FIFO. It is the only mode every
// implementation must support, so the list is consulted for emptiness only.
func ChoosePresentMode(availablePresentModes []khr_surface.PresentMode) (khr_surface.PresentMode, error) {
	if len(availablePresentModes) == 0 {
		return khr_surface.PresentModeFIFO, errors.Wrap(ErrUnsupportedSurface, "no present modes")
	}
	return khr_surface.PresentModeFIFO, nil
}

// ChooseExtent returns the surface's current extent, or the drawable size
// clamped to the supported range when the surface leaves it undefined.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, drawableWidth, drawableHeight int) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != undefinedExtent {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(drawableWidth, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(drawableHeight, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum. A maximum of
// zero means the surface sets no limit.
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func sharingMode(sel QueueFamilySelection) (core1_0.SharingMode, []int) {
	if sel.Shared() {
		return core1_0.SharingModeConcurrent, sel.UniqueFamilies()
	}
	return core1_0.SharingModeExclusive, nil
}

// swapchainInfo applies every choice to the surface's reported support.
func swapchainInfo(surface khr_surface.Surface, support surfaceSupport, drawableWidth, drawableHeight int, sel QueueFamilySelection) (khr_swapchain.SwapchainCreateInfo, error) {
	surfaceFormat, err := ChooseSurfaceFormat(support.Formats)
	if err != nil {
		return khr_swapchain.SwapchainCreateInfo{}, err
	}
	presentMode, err := ChoosePresentMode(support.PresentModes)
	if err != nil {
		return khr_swapchain.SwapchainCreateInfo{}, err
	}
	if support.Capabilities == nil {
		return khr_swapchain.SwapchainCreateInfo{}, errors.Wrap(ErrUnsupportedSurface, "no surface capabilities")
	}

	mode, queueFamilyIndices := sharingMode(sel)

	return khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    ChooseImageCount(support.Capabilities),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      ChooseExtent(support.Capabilities, drawableWidth, drawableHeight),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   mode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	}, nil
}

func colorImageViewInfo(image core1_0.Image, format core1_0.Format) core1_0.ImageViewCreateInfo {
	return core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		Components: core1_0.ComponentMapping{
			R: core1_0.ComponentSwizzleIdentity,
			G: core1_0.ComponentSwizzleIdentity,
			B: core1_0.ComponentSwizzleIdentity,
			A: core1_0.ComponentSwizzleIdentity,
		},
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}

func (c *GraphicsContext) querySurfaceSupport() (surfaceSupport, error) {
	var support surfaceSupport
	physicalDevice := c.candidate.Device

	capabilities, res, err := c.surface.PhysicalDeviceSurfaceCapabilities(physicalDevice)
	if err != nil {
		return support, nativeError(ErrPresentationChainCreation, OpSurfaceCapabilities, res, err)
	}
	support.Capabilities = capabilities

	support.Formats, res, err = c.surface.PhysicalDeviceSurfaceFormats(physicalDevice)
	if err != nil {
		return support, nativeError(ErrPresentationChainCreation, OpSurfaceFormats, res, err)
	}

	support.PresentModes, res, err = c.surface.PhysicalDeviceSurfacePresentModes(physicalDevice)
	if err != nil {
		return support, nativeError(ErrPresentationChainCreation, OpSurfacePresentModes, res, err)
	}
	return support, nil
}

func (c *GraphicsContext) createPresentationChain() error {
	support, err := c.querySurfaceSupport()
	if err != nil {
		return err
	}

	width, height := c.window.DrawableSize()
	createInfo, err := swapchainInfo(c.surface, support, width, height, c.families)
	if err != nil {
		return err
	}

	chain := &PresentationChain{
		Extension:   khr_swapchain.CreateExtensionFromDevice(c.device),
		Format:      createInfo.ImageFormat,
		ColorSpace:  createInfo.ImageColorSpace,
		PresentMode: createInfo.PresentMode,
		Extent:      createInfo.ImageExtent,
	}

	swapchain, res, err := chain.Extension.CreateSwapchain(c.device, nil, createInfo)
	if err != nil {
		return nativeError(ErrPresentationChainCreation, OpCreateSwapchain, res, err)
	}
	chain.Swapchain = swapchain
	c.releases.push("swapchain", func() { swapchain.Destroy(nil) })
	c.chain = chain

	chain.Images, res, err = swapchain.SwapchainImages()
	if err != nil {
		return nativeError(ErrPresentationChainCreation, OpGetSwapchainImages, res, err)
	}

	for _, image := range chain.Images {
		view, res, err := c.device.CreateImageView(nil, colorImageViewInfo(image, chain.Format))
		if err != nil {
			return nativeError(ErrPresentationChainCreation, OpCreateImageView, res, err)
		}
		chain.ImageViews = append(chain.ImageViews, view)
		c.releases.push("swapchain image view", func() { view.Destroy(nil) })
	}

	c.log.Info("created presentation chain",
		"format", chain.Format,
		"present_mode", chain.PresentMode,
		"width", chain.Extent.Width,
		"height", chain.Extent.Height,
		"images", len(chain.Images))
	return nil
}
