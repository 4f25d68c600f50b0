package renderer

import (
	"testing"

	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

func TestRenderPassInfo(t *testing.T) {
	info := renderPassInfo(core1_0.FormatB8G8R8A8SRGB)

	if len(info.Attachments) != 1 {
		t.Fatalf("got %d attachments, want 1", len(info.Attachments))
	}
	attachment := info.Attachments[0]
	want := core1_0.AttachmentDescription{
		Format:         core1_0.FormatB8G8R8A8SRGB,
		Samples:        core1_0.Samples1,
		LoadOp:         core1_0.AttachmentLoadOpClear,
		StoreOp:        core1_0.AttachmentStoreOpStore,
		StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
		StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
		InitialLayout:  core1_0.ImageLayoutUndefined,
		FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
	}
	if attachment != want {
		t.Errorf("attachment = %+v, want %+v", attachment, want)
	}

	if len(info.Subpasses) != 1 {
		t.Fatalf("got %d subpasses, want 1", len(info.Subpasses))
	}
	subpass := info.Subpasses[0]
	if subpass.PipelineBindPoint != core1_0.PipelineBindPointGraphics {
		t.Errorf("bind point = %v", subpass.PipelineBindPoint)
	}
	if len(subpass.ColorAttachments) != 1 ||
		subpass.ColorAttachments[0].Attachment != 0 ||
		subpass.ColorAttachments[0].Layout != core1_0.ImageLayoutColorAttachmentOptimal {
		t.Errorf("color attachments = %+v", subpass.ColorAttachments)
	}
	if subpass.DepthStencilAttachment != nil {
		t.Error("render pass should have no depth attachment")
	}

	if len(info.SubpassDependencies) != 1 {
		t.Fatalf("got %d dependencies, want 1", len(info.SubpassDependencies))
	}
	dep := info.SubpassDependencies[0]
	if dep.SrcSubpass != core1_0.SubpassExternal || dep.DstSubpass != 0 {
		t.Errorf("dependency subpasses %d -> %d", dep.SrcSubpass, dep.DstSubpass)
	}
	if dep.SrcStageMask != core1_0.PipelineStageColorAttachmentOutput || dep.DstStageMask != core1_0.PipelineStageColorAttachmentOutput {
		t.Errorf("dependency stages %v -> %v", dep.SrcStageMask, dep.DstStageMask)
	}
	if dep.DstAccessMask != core1_0.AccessColorAttachmentWrite {
		t.Errorf("dependency dst access %v", dep.DstAccessMask)
	}
}

func TestGraphicsPipelineInfo(t *testing.T) {
	extent := core1_0.Extent2D{Width: 800, Height: 600}
	info := graphicsPipelineInfo(nil, nil, nil, nil, extent)

	if len(info.Stages) != 2 {
		t.Fatalf("got %d stages, want 2", len(info.Stages))
	}
	if info.Stages[0].Stage != core1_0.StageVertex || info.Stages[1].Stage != core1_0.StageFragment {
		t.Errorf("stages %v, %v", info.Stages[0].Stage, info.Stages[1].Stage)
	}
	for _, stage := range info.Stages {
		if stage.Name != "main" {
			t.Errorf("entry point %q, want main", stage.Name)
		}
	}

	if in := info.VertexInputState; in == nil || len(in.VertexBindingDescriptions) != 0 || len(in.VertexAttributeDescriptions) != 0 {
		t.Errorf("vertex input should be empty, got %+v", in)
	}
	if info.InputAssemblyState.Topology != core1_0.PrimitiveTopologyTriangleList || info.InputAssemblyState.PrimitiveRestartEnable {
		t.Errorf("input assembly %+v", info.InputAssemblyState)
	}

	if len(info.ViewportState.Viewports) != 1 || len(info.ViewportState.Scissors) != 1 {
		t.Errorf("viewport state %+v", info.ViewportState)
	}
	if info.DynamicState == nil || len(info.DynamicState.DynamicStates) != 2 ||
		info.DynamicState.DynamicStates[0] != core1_0.DynamicStateViewport ||
		info.DynamicState.DynamicStates[1] != core1_0.DynamicStateScissor {
		t.Errorf("dynamic state %+v", info.DynamicState)
	}

	raster := info.RasterizationState
	if raster.PolygonMode != core1_0.PolygonModeFill ||
		raster.CullMode != core1_0.CullModeBack ||
		raster.FrontFace != core1_0.FrontFaceClockwise ||
		raster.LineWidth != 1 ||
		raster.DepthBiasEnable || raster.DepthClampEnable || raster.RasterizerDiscardEnable {
		t.Errorf("rasterization %+v", raster)
	}

	if info.MultisampleState.RasterizationSamples != core1_0.Samples1 || info.MultisampleState.SampleShadingEnable {
		t.Errorf("multisample %+v", info.MultisampleState)
	}
	if info.DepthStencilState != nil {
		t.Error("depth/stencil state should be disabled")
	}

	blend := info.ColorBlendState
	if len(blend.Attachments) != 1 {
		t.Fatalf("got %d blend attachments, want 1", len(blend.Attachments))
	}
	allChannels := core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha
	if blend.Attachments[0].BlendEnabled || blend.Attachments[0].ColorWriteMask != allChannels {
		t.Errorf("blend attachment %+v", blend.Attachments[0])
	}
	if info.Subpass != 0 || info.BasePipelineIndex != -1 {
		t.Errorf("subpass %d base index %d", info.Subpass, info.BasePipelineIndex)
	}
}

func TestFramebufferInfo(t *testing.T) {
	info := framebufferInfo(nil, nil, core1_0.Extent2D{Width: 1024, Height: 768})

	if len(info.Attachments) != 1 {
		t.Errorf("got %d attachments, want 1", len(info.Attachments))
	}
	if info.Width != 1024 || info.Height != 768 || info.Layers != 1 {
		t.Errorf("framebuffer %dx%d layers %d", info.Width, info.Height, info.Layers)
	}
}

func TestFullViewportAndScissor(t *testing.T) {
	extent := core1_0.Extent2D{Width: 640, Height: 480}

	want := core1_0.Viewport{Width: 640, Height: 480, MinDepth: 0, MaxDepth: 1}
	if got := fullViewport(extent); got != want {
		t.Errorf("viewport = %+v, want %+v", got, want)
	}
	if got := fullScissor(extent); got.Extent != extent || got.Offset != (core1_0.Offset2D{}) {
		t.Errorf("scissor = %+v", got)
	}
}
