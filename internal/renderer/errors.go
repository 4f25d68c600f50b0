package renderer

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// Selection failures.
var (
	ErrNoCompatibleDevice = errors.New("no compatible physical device")
	ErrNoGraphicsQueue    = errors.New("no queue family supports graphics")
	ErrSurfaceUnsupported = errors.New("no queue family can present to the surface")
	ErrMissingExtension   = errors.New("required extension not available")
	ErrUnsupportedSurface = errors.New("surface reports no formats or no present modes")
)

// Object creation failures. Each is attached to a *NativeError as a mark.
var (
	ErrInstanceCreation          = errors.New("instance creation failed")
	ErrSurfaceCreation           = errors.New("surface creation failed")
	ErrDeviceCreation            = errors.New("device creation failed")
	ErrPresentationChainCreation = errors.New("presentation chain creation failed")
	ErrRenderPassCreation        = errors.New("render pass creation failed")
	ErrShaderModuleCreation      = errors.New("shader module creation failed")
	ErrPipelineLayoutCreation    = errors.New("pipeline layout creation failed")
	ErrGraphicsPipelineCreation  = errors.New("graphics pipeline creation failed")
	ErrFramebufferCreation       = errors.New("framebuffer creation failed")
	ErrCommandPoolCreation       = errors.New("command pool creation failed")
	ErrCommandBufferCreation     = errors.New("command buffer allocation failed")
	ErrSyncCreation              = errors.New("synchronization primitive creation failed")
)

// Per-frame failures.
var (
	ErrFrameExecution = errors.New("frame execution failed")
	// ErrPresentationStale marks acquire/present results that report the
	// swapchain as out of date or suboptimal. They are fatal here; a caller
	// able to rebuild the chain can test for this mark.
	ErrPresentationStale = errors.New("presentation chain is stale")
	ErrExecutorFailed    = errors.New("frame executor stopped after an earlier failure")
)

// Op names the Vulkan operation a NativeError came from.
type Op string

const (
	OpCreateInstance        Op = "vkCreateInstance"
	OpCreateDebugMessenger  Op = "vkCreateDebugUtilsMessengerEXT"
	OpEnumerateDevices      Op = "vkEnumeratePhysicalDevices"
	OpDeviceProperties      Op = "vkGetPhysicalDeviceProperties"
	OpEnumerateExtensions   Op = "vkEnumerateDeviceExtensionProperties"
	OpSurfaceSupport        Op = "vkGetPhysicalDeviceSurfaceSupportKHR"
	OpCreateDevice          Op = "vkCreateDevice"
	OpSurfaceCapabilities   Op = "vkGetPhysicalDeviceSurfaceCapabilitiesKHR"
	OpSurfaceFormats        Op = "vkGetPhysicalDeviceSurfaceFormatsKHR"
	OpSurfacePresentModes   Op = "vkGetPhysicalDeviceSurfacePresentModesKHR"
	OpCreateSwapchain       Op = "vkCreateSwapchainKHR"
	OpGetSwapchainImages    Op = "vkGetSwapchainImagesKHR"
	OpCreateImageView       Op = "vkCreateImageView"
	OpCreateRenderPass      Op = "vkCreateRenderPass"
	OpCreateShaderModule    Op = "vkCreateShaderModule"
	OpCreatePipelineLayout  Op = "vkCreatePipelineLayout"
	OpCreateGraphicsPipe    Op = "vkCreateGraphicsPipelines"
	OpCreateFramebuffer     Op = "vkCreateFramebuffer"
	OpCreateCommandPool     Op = "vkCreateCommandPool"
	OpAllocateCommandBuffer Op = "vkAllocateCommandBuffers"
	OpCreateSemaphore       Op = "vkCreateSemaphore"
	OpCreateFence           Op = "vkCreateFence"
	OpWaitForFences         Op = "vkWaitForFences"
	OpResetFences           Op = "vkResetFences"
	OpAcquireNextImage      Op = "vkAcquireNextImageKHR"
	OpRecordCommandBuffer   Op = "record command buffer"
	OpQueueSubmit           Op = "vkQueueSubmit"
	OpQueuePresent          Op = "vkQueuePresentKHR"
	OpDeviceWaitIdle        Op = "vkDeviceWaitIdle"
)

// NativeError is a Vulkan call that returned something other than success.
type NativeError struct {
	Op     Op
	Result common.VkResult
	cause  error
}

func (e *NativeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Result)
}

func (e *NativeError) Unwrap() error { return e.cause }

// nativeError builds a *NativeError for op and marks it with category so
// both errors.Is(err, category) and errors.As(err, **NativeError) hold.
func nativeError(category error, op Op, res common.VkResult, cause error) error {
	return errors.Mark(errors.WithStackDepth(&NativeError{Op: op, Result: res, cause: cause}, 1), category)
}

// frameResult converts the outcome of a per-frame call. Out-of-date and
// suboptimal results fail even when the wrapper reports no error.
func frameResult(op Op, res common.VkResult, err error) error {
	if res == khr_swapchain.VKErrorOutOfDate || res == khr_swapchain.VKSuboptimal {
		return errors.Mark(nativeError(ErrFrameExecution, op, res, err), ErrPresentationStale)
	}
	if err != nil {
		return nativeError(ErrFrameExecution, op, res, err)
	}
	return nil
}
