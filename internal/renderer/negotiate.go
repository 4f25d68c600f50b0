package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

var requiredDeviceExtensions = []string{khr_swapchain.ExtensionName}

// QueueFamilySelection holds the graphics and presentation queue family
// indices chosen for a physical device. The two may be the same family.
type QueueFamilySelection struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (s QueueFamilySelection) IsCompatible() bool {
	return s.GraphicsFamily != nil && s.PresentFamily != nil
}

// UniqueFamilies returns the distinct family indices, graphics first.
func (s QueueFamilySelection) UniqueFamilies() []int {
	if !s.IsCompatible() {
		return nil
	}
	families := []int{*s.GraphicsFamily}
	if *s.PresentFamily != *s.GraphicsFamily {
		families = append(families, *s.PresentFamily)
	}
	return families
}

// Shared reports whether graphics and presentation use different families,
// in which case swapchain images are shared between them.
func (s QueueFamilySelection) Shared() bool {
	return s.IsCompatible() && *s.GraphicsFamily != *s.PresentFamily
}

// QueueFamilyCapability is what the negotiator needs to know about one
// queue family.
type QueueFamilyCapability struct {
	Graphics bool
	Present  bool
}

// SelectQueueFamilies scans families in index order. The first family with
// graphics support becomes the graphics family. If that family can also
// present it serves both roles; otherwise the first other family able to
// present becomes the presentation family.
func SelectQueueFamilies(families []QueueFamilyCapability) QueueFamilySelection {
	var sel QueueFamilySelection

	for idx, family := range families {
		if family.Graphics {
			idx := idx
			sel.GraphicsFamily = &idx
			break
		}
	}

	if sel.GraphicsFamily != nil && families[*sel.GraphicsFamily].Present {
		sel.PresentFamily = sel.GraphicsFamily
		return sel
	}

	for idx, family := range families {
		if sel.GraphicsFamily != nil && idx == *sel.GraphicsFamily {
			continue
		}
		if family.Present {
			idx := idx
			sel.PresentFamily = &idx
			break
		}
	}

	return sel
}

// DeviceCandidate is a probed physical device.
type DeviceCandidate struct {
	Device            core1_0.PhysicalDevice
	Type              core1_0.PhysicalDeviceType
	PipelineCacheUUID uuid.UUID
	QueueFamilies     []QueueFamilyCapability
	Extensions        map[string]struct{}
}

func isGPU(t core1_0.PhysicalDeviceType) bool {
	return t == core1_0.PhysicalDeviceTypeDiscreteGPU || t == core1_0.PhysicalDeviceTypeIntegratedGPU
}

// checkCandidate verifies a device can run the triangle: a graphics queue, a
// queue that presents to the surface, and every required device extension.
func checkCandidate(c DeviceCandidate) (QueueFamilySelection, error) {
	sel := SelectQueueFamilies(c.QueueFamilies)
	if sel.GraphicsFamily == nil {
		return sel, errors.WithStack(ErrNoGraphicsQueue)
	}
	if sel.PresentFamily == nil {
		return sel, errors.WithStack(ErrSurfaceUnsupported)
	}
	for _, ext := range requiredDeviceExtensions {
		if _, ok := c.Extensions[ext]; !ok {
			return sel, errors.Wrapf(ErrMissingExtension, "device extension %s", ext)
		}
	}
	return sel, nil
}

// selectDevice picks the first device whose type is a discrete or
// integrated GPU and checks it. probe is only called for that device.
func selectDevice(types []core1_0.PhysicalDeviceType, probe func(idx int) (DeviceCandidate, error)) (DeviceCandidate, QueueFamilySelection, error) {
	for idx, t := range types {
		if !isGPU(t) {
			continue
		}

		candidate, err := probe(idx)
		if err != nil {
			return candidate, QueueFamilySelection{}, err
		}
		sel, err := checkCandidate(candidate)
		return candidate, sel, err
	}

	return DeviceCandidate{}, QueueFamilySelection{}, errors.Wrapf(ErrNoCompatibleDevice,
		"%d physical devices enumerated, none is a discrete or integrated GPU", len(types))
}

func deviceTypes(props []*core1_0.PhysicalDeviceProperties) []core1_0.PhysicalDeviceType {
	types := make([]core1_0.PhysicalDeviceType, len(props))
	for idx, p := range props {
		types[idx] = p.DriverType
	}
	return types
}

// SelectPhysicalDevice enumerates the instance's physical devices and selects
// one for rendering to surface.
func SelectPhysicalDevice(instance core1_0.Instance, surface khr_surface.Surface) (DeviceCandidate, QueueFamilySelection, error) {
	physicalDevices, res, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return DeviceCandidate{}, QueueFamilySelection{}, nativeError(ErrNoCompatibleDevice, OpEnumerateDevices, res, err)
	}

	props := make([]*core1_0.PhysicalDeviceProperties, len(physicalDevices))
	for idx, device := range physicalDevices {
		props[idx], err = device.Properties()
		if err != nil {
			return DeviceCandidate{}, QueueFamilySelection{}, errors.Wrapf(err, "%s", OpDeviceProperties)
		}
	}

	return selectDevice(deviceTypes(props), func(idx int) (DeviceCandidate, error) {
		return probeDevice(physicalDevices[idx], props[idx], surface)
	})
}

func probeDevice(device core1_0.PhysicalDevice, props *core1_0.PhysicalDeviceProperties, surface khr_surface.Surface) (DeviceCandidate, error) {
	candidate := DeviceCandidate{
		Device:            device,
		Type:              props.DriverType,
		PipelineCacheUUID: props.PipelineCacheUUID,
	}

	for idx, family := range device.QueueFamilyProperties() {
		supported, res, err := surface.PhysicalDeviceSurfaceSupport(device, idx)
		if err != nil {
			return candidate, nativeError(ErrSurfaceUnsupported, OpSurfaceSupport, res, err)
		}
		candidate.QueueFamilies = append(candidate.QueueFamilies, QueueFamilyCapability{
			Graphics: family.QueueFlags&core1_0.QueueGraphics != 0,
			Present:  supported,
		})
	}

	extensions, res, err := device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return candidate, nativeError(ErrMissingExtension, OpEnumerateExtensions, res, err)
	}
	candidate.Extensions = keySet(extensions)

	return candidate, nil
}
