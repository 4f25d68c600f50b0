package renderer

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

const shaderEntryPoint = "main"

// ShaderSource supplies the SPIR-V words of the two shader stages.
type ShaderSource interface {
	VertexCode() []uint32
	FragmentCode() []uint32
}

// RenderPipeline is the render pass, the graphics pipeline drawing into it and
// one framebuffer per presentation chain image view.
type RenderPipeline struct {
	RenderPass   core1_0.RenderPass
	Layout       core1_0.PipelineLayout
	Pipeline     core1_0.Pipeline
	Framebuffers []core1_0.Framebuffer
}

func renderPassInfo(format core1_0.Format) core1_0.RenderPassCreateInfo {
	return core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         format,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		// The clear must wait until presentation has finished reading the image.
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	}
}

func fullViewport(extent core1_0.Extent2D) core1_0.Viewport {
	return core1_0.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
}

func fullScissor(extent core1_0.Extent2D) core1_0.Rect2D {
	return core1_0.Rect2D{
		Offset: core1_0.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
}

// graphicsPipelineInfo describes the fixed-function state for the triangle.
// Viewport and scissor are dynamic; the values given here only fix their
// count at one each.
func graphicsPipelineInfo(vertShader, fragShader core1_0.ShaderModule, layout core1_0.PipelineLayout, renderPass core1_0.RenderPass, extent core1_0.Extent2D) core1_0.GraphicsPipelineCreateInfo {
	vertStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageVertex,
		Module: vertShader,
		Name:   shaderEntryPoint,
	}

	fragStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageFragment,
		Module: fragShader,
		Name:   shaderEntryPoint,
	}

	// Vertices come from gl_VertexIndex.
	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{fullViewport(extent)},
		Scissors:  []core1_0.Rect2D{fullScissor(extent)},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{
				BlendEnabled:   false,
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			},
		},
	}

	dynamic := &core1_0.PipelineDynamicStateCreateInfo{
		DynamicStates: []core1_0.DynamicState{
			core1_0.DynamicStateViewport,
			core1_0.DynamicStateScissor,
		},
	}

	return core1_0.GraphicsPipelineCreateInfo{
		Stages: []core1_0.PipelineShaderStageCreateInfo{
			vertStage,
			fragStage,
		},
		VertexInputState:   vertexInput,
		InputAssemblyState: inputAssembly,
		ViewportState:      viewport,
		RasterizationState: rasterization,
		MultisampleState:   multisample,
		ColorBlendState:    colorBlend,
		DynamicState:       dynamic,
		Layout:             layout,
		RenderPass:         renderPass,
		Subpass:            0,
		BasePipelineIndex:  -1,
	}
}

func framebufferInfo(renderPass core1_0.RenderPass, imageView core1_0.ImageView, extent core1_0.Extent2D) core1_0.FramebufferCreateInfo {
	return core1_0.FramebufferCreateInfo{
		RenderPass: renderPass,
		Layers:     1,
		Attachments: []core1_0.ImageView{
			imageView,
		},
		Width:  extent.Width,
		Height: extent.Height,
	}
}

func (c *GraphicsContext) createShaderModule(code []uint32) (core1_0.ShaderModule, error) {
	module, res, err := c.device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, nativeError(ErrShaderModuleCreation, OpCreateShaderModule, res, err)
	}
	return module, nil
}

func (c *GraphicsContext) createRenderPipeline(shaders ShaderSource) error {
	rp := &RenderPipeline{}
	c.pipeline = rp

	renderPass, res, err := c.device.CreateRenderPass(nil, renderPassInfo(c.chain.Format))
	if err != nil {
		return nativeError(ErrRenderPassCreation, OpCreateRenderPass, res, err)
	}
	rp.RenderPass = renderPass
	c.releases.push("render pass", func() { renderPass.Destroy(nil) })

	vertShader, err := c.createShaderModule(shaders.VertexCode())
	if err != nil {
		return err
	}
	defer vertShader.Destroy(nil)

	fragShader, err := c.createShaderModule(shaders.FragmentCode())
	if err != nil {
		return err
	}
	defer fragShader.Destroy(nil)

	layout, res, err := c.device.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nativeError(ErrPipelineLayoutCreation, OpCreatePipelineLayout, res, err)
	}
	rp.Layout = layout
	c.releases.push("pipeline layout", func() { layout.Destroy(nil) })

	pipelines, res, err := c.device.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{
		graphicsPipelineInfo(vertShader, fragShader, layout, renderPass, c.chain.Extent),
	})
	if err != nil {
		return nativeError(ErrGraphicsPipelineCreation, OpCreateGraphicsPipe, res, err)
	}
	pipeline := pipelines[0]
	rp.Pipeline = pipeline
	c.releases.push("graphics pipeline", func() { pipeline.Destroy(nil) })

	for _, imageView := range c.chain.ImageViews {
		framebuffer, res, err := c.device.CreateFramebuffer(nil, framebufferInfo(renderPass, imageView, c.chain.Extent))
		if err != nil {
			return nativeError(ErrFramebufferCreation, OpCreateFramebuffer, res, err)
		}
		rp.Framebuffers = append(rp.Framebuffers, framebuffer)
		c.releases.push("framebuffer", func() { framebuffer.Destroy(nil) })
	}

	c.log.Info("created render pipeline", "framebuffers", len(rp.Framebuffers))
	return nil
}
