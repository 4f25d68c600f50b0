package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/hello-triangle/internal/gamelog"
)

const (
	portabilityEnumerationExtension    = "VK_KHR_portability_enumeration"
	instanceCreateEnumeratePortability = core1_0.InstanceCreateFlags(0x1)
)

// instancePlan is the negotiated set of instance extensions and layers.
type instancePlan struct {
	Extensions  []string
	Layers      []string
	Debug       bool
	Portability bool
}

// planInstance decides what to enable on the instance. Every extension the
// window needs must be available. The validation layer is optional: when
// it is missing a warning is logged and the plan continues without it and
// without the debug messenger.
func planInstance(windowExtensions []string, availableExtensions, availableLayers map[string]struct{},
	validation bool, validationLayer string, log *gamelog.Logger) (instancePlan, error) {
	var plan instancePlan

	for _, ext := range windowExtensions {
		if _, ok := availableExtensions[ext]; !ok {
			return plan, errors.Wrapf(ErrMissingExtension, "window needs instance extension %s", ext)
		}
		plan.Extensions = append(plan.Extensions, ext)
	}

	if _, ok := availableExtensions[portabilityEnumerationExtension]; ok {
		plan.Extensions = append(plan.Extensions, portabilityEnumerationExtension)
		plan.Portability = true
	}

	if !validation {
		return plan, nil
	}

	if _, ok := availableLayers[validationLayer]; !ok {
		log.Warning("validation layer not available, continuing without it", "layer", validationLayer)
		return plan, nil
	}
	plan.Layers = append(plan.Layers, validationLayer)

	if _, ok := availableExtensions[ext_debug_utils.ExtensionName]; ok {
		plan.Extensions = append(plan.Extensions, ext_debug_utils.ExtensionName)
		plan.Debug = true
	} else {
		log.Warning("debug utils extension not available, validation messages will not be logged",
			"extension", ext_debug_utils.ExtensionName)
	}

	return plan, nil
}

func instanceInfo(appName string, plan instancePlan) core1_0.InstanceCreateInfo {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:       appName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            "No Engine",
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledExtensionNames: plan.Extensions,
		EnabledLayerNames:     plan.Layers,
	}
	if plan.Portability {
		info.Flags |= instanceCreateEnumeratePortability
	}
	return info
}

func (c *GraphicsContext) createInstance() error {
	var err error
	c.loader, err = core.CreateLoaderFromProcAddr(c.window.VulkanProcAddr())
	if err != nil {
		return errors.Wrap(err, "create vulkan loader")
	}

	extensions, _, err := c.loader.AvailableExtensions()
	if err != nil {
		return errors.Wrap(err, "enumerate instance extensions")
	}

	layers, _, err := c.loader.AvailableLayers()
	if err != nil {
		return errors.Wrap(err, "enumerate instance layers")
	}

	plan, err := planInstance(c.window.VulkanInstanceExtensions(), keySet(extensions), keySet(layers),
		c.opts.Validation, c.opts.ValidationLayer, c.log)
	if err != nil {
		return err
	}

	instanceOptions := instanceInfo(c.opts.AppName, plan)
	if plan.Debug {
		// Covers messages emitted by vkCreateInstance/vkDestroyInstance.
		instanceOptions.Next = c.debugMessengerOptions()
	}

	instance, res, err := c.loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nativeError(ErrInstanceCreation, OpCreateInstance, res, err)
	}
	c.instance = instance
	c.releases.push("instance", func() { instance.Destroy(nil) })

	c.log.Info("created instance", "extensions", len(plan.Extensions), "layers", plan.Layers)

	if plan.Debug {
		return c.setupDebugMessenger()
	}
	return nil
}

func (c *GraphicsContext) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    c.logDebug,
	}
}

func (c *GraphicsContext) setupDebugMessenger() error {
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(c.instance)
	messenger, res, err := debugLoader.CreateDebugUtilsMessenger(c.instance, nil, c.debugMessengerOptions())
	if err != nil {
		return nativeError(ErrInstanceCreation, OpCreateDebugMessenger, res, err)
	}
	c.debugMessenger = messenger
	c.releases.push("debug messenger", func() { messenger.Destroy(nil) })
	return nil
}

func (c *GraphicsContext) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	if severity&ext_debug_utils.SeverityError != 0 {
		c.log.Error(data.Message, "type", msgType)
	} else {
		c.log.Warning(data.Message, "type", msgType)
	}
	return false
}

func keySet[V any](m map[string]V) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}
