package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

const triangleVertices = 3

// vulkanFrame is the single frame slot: one command buffer and the
// semaphores and fence that serialize it with the GPU.
type vulkanFrame struct {
	device        core1_0.Device
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue
	chain         *PresentationChain
	pipeline      *RenderPipeline
	clearColor    mgl32.Vec4

	commandPool    core1_0.CommandPool
	commandBuffer  core1_0.CommandBuffer
	imageAvailable core1_0.Semaphore
	renderFinished core1_0.Semaphore
	inFlight       core1_0.Fence
}

func renderPassBegin(rp *RenderPipeline, framebuffer core1_0.Framebuffer, extent core1_0.Extent2D, clearColor mgl32.Vec4) core1_0.RenderPassBeginInfo {
	return core1_0.RenderPassBeginInfo{
		RenderPass:  rp.RenderPass,
		Framebuffer: framebuffer,
		RenderArea:  fullScissor(extent),
		ClearValues: []core1_0.ClearValue{
			core1_0.ClearValueFloat(clearColor),
		},
	}
}

func (f *vulkanFrame) submitInfo() core1_0.SubmitInfo {
	return core1_0.SubmitInfo{
		WaitSemaphores:   []core1_0.Semaphore{f.imageAvailable},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
		CommandBuffers:   []core1_0.CommandBuffer{f.commandBuffer},
		SignalSemaphores: []core1_0.Semaphore{f.renderFinished},
	}
}

func (f *vulkanFrame) presentInfo(imageIndex int) khr_swapchain.PresentInfo {
	return khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{f.renderFinished},
		Swapchains:     []khr_swapchain.Swapchain{f.chain.Swapchain},
		ImageIndices:   []int{imageIndex},
	}
}

func (f *vulkanFrame) WaitForFence() (common.VkResult, error) {
	return f.device.WaitForFences(true, common.NoTimeout, []core1_0.Fence{f.inFlight})
}

func (f *vulkanFrame) ResetFence() (common.VkResult, error) {
	return f.device.ResetFences([]core1_0.Fence{f.inFlight})
}

func (f *vulkanFrame) AcquireNextImage() (int, common.VkResult, error) {
	return f.chain.Swapchain.AcquireNextImage(common.NoTimeout, f.imageAvailable, nil)
}

func (f *vulkanFrame) Record(imageIndex int) (common.VkResult, error) {
	buffer := f.commandBuffer

	res, err := buffer.Reset(0)
	if err != nil {
		return res, err
	}

	res, err = buffer.Begin(core1_0.CommandBufferBeginInfo{})
	if err != nil {
		return res, err
	}

	err = buffer.CmdBeginRenderPass(core1_0.SubpassContentsInline,
		renderPassBegin(f.pipeline, f.pipeline.Framebuffers[imageIndex], f.chain.Extent, f.clearColor))
	if err != nil {
		return core1_0.VKSuccess, err
	}

	buffer.CmdBindPipeline(core1_0.PipelineBindPointGraphics, f.pipeline.Pipeline)
	buffer.CmdSetViewport([]core1_0.Viewport{fullViewport(f.chain.Extent)})
	buffer.CmdSetScissor([]core1_0.Rect2D{fullScissor(f.chain.Extent)})
	buffer.CmdDraw(triangleVertices, 1, 0, 0)
	buffer.CmdEndRenderPass()

	return buffer.End()
}

func (f *vulkanFrame) Submit() (common.VkResult, error) {
	return f.graphicsQueue.Submit(f.inFlight, []core1_0.SubmitInfo{f.submitInfo()})
}

func (f *vulkanFrame) Present(imageIndex int) (common.VkResult, error) {
	return f.chain.Extension.QueuePresent(f.presentQueue, f.presentInfo(imageIndex))
}

func (c *GraphicsContext) createFrame() (*vulkanFrame, error) {
	frame := &vulkanFrame{
		device:        c.device,
		graphicsQueue: c.graphicsQueue,
		presentQueue:  c.presentQueue,
		chain:         c.chain,
		pipeline:      c.pipeline,
		clearColor:    c.opts.ClearColor,
	}

	pool, res, err := c.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: *c.families.GraphicsFamily,
	})
	if err != nil {
		return nil, nativeError(ErrCommandPoolCreation, OpCreateCommandPool, res, err)
	}
	frame.commandPool = pool
	c.releases.push("command pool", func() { pool.Destroy(nil) })

	buffers, res, err := c.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        pool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return nil, nativeError(ErrCommandBufferCreation, OpAllocateCommandBuffer, res, err)
	}
	frame.commandBuffer = buffers[0]

	frame.imageAvailable, err = c.createSemaphore("image available semaphore")
	if err != nil {
		return nil, err
	}
	frame.renderFinished, err = c.createSemaphore("render finished semaphore")
	if err != nil {
		return nil, err
	}

	// Signaled so the first frame's wait returns immediately.
	fence, res, err := c.device.CreateFence(nil, core1_0.FenceCreateInfo{
		Flags: core1_0.FenceCreateSignaled,
	})
	if err != nil {
		return nil, nativeError(ErrSyncCreation, OpCreateFence, res, err)
	}
	frame.inFlight = fence
	c.releases.push("in-flight fence", func() { fence.Destroy(nil) })

	return frame, nil
}

func (c *GraphicsContext) createSemaphore(name string) (core1_0.Semaphore, error) {
	semaphore, res, err := c.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, nativeError(ErrSyncCreation, OpCreateSemaphore, res, err)
	}
	c.releases.push(name, func() { semaphore.Destroy(nil) })
	return semaphore, nil
}
