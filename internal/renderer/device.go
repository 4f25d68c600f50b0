package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
)

const queuePriority = float32(1.0)

// queueCreateInfos requests one queue at full priority from each distinct
// family in sel.
func queueCreateInfos(sel QueueFamilySelection) []core1_0.DeviceQueueCreateInfo {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	for _, queueFamily := range sel.UniqueFamilies() {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}
	return queueFamilyOptions
}

// deviceExtensionNames is the required extension list plus the portability
// subset when the device exposes it, which Vulkan requires on MoltenVK.
func deviceExtensionNames(available map[string]struct{}) []string {
	var extensionNames []string
	extensionNames = append(extensionNames, requiredDeviceExtensions...)

	if _, supported := available[khr_portability_subset.ExtensionName]; supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}
	return extensionNames
}

func (c *GraphicsContext) createLogicalDevice() error {
	if !c.families.IsCompatible() {
		return errors.AssertionFailedf("createLogicalDevice called with incomplete queue family selection")
	}

	device, res, err := c.candidate.Device.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueCreateInfos(c.families),
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: deviceExtensionNames(c.candidate.Extensions),
	})
	if err != nil {
		return nativeError(ErrDeviceCreation, OpCreateDevice, res, err)
	}
	c.device = device
	c.releases.push("device", func() { device.Destroy(nil) })

	c.graphicsQueue = device.GetQueue(*c.families.GraphicsFamily, 0)
	c.presentQueue = device.GetQueue(*c.families.PresentFamily, 0)

	c.log.Info("created logical device",
		"graphics_family", *c.families.GraphicsFamily,
		"present_family", *c.families.PresentFamily)
	return nil
}
