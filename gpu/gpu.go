// Package gpu manages access to the GPU device shared by the renderer.
//
// A Device is either opened standalone (offscreen rendering, tools) or
// adopted from a windowing layer through a gpucontext.DeviceProvider. An
// adopted device is shared: Close releases only what the package created
// itself.
package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/pkg/errors"

	// Register the Vulkan backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/bsvercl/ggez"
)

var (
	ErrNoBackend = errors.New("no GPU backend available")
	ErrNoAdapter = errors.New("no GPU adapters found")
)

// Device bundles a hal device with its submission queue.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	format   gputypes.TextureFormat
	owned    bool
}

// Open creates a standalone device on the best available adapter,
// preferring dedicated hardware over software rasterizers.
func Open() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, errors.Wrap(err, "open device")
	}
	ggez.Logger().Info("GPU device opened", "adapter", selected.Info.Name)
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		format:   gputypes.TextureFormatRGBA8Unorm,
		owned:    true,
	}, nil
}

// FromProvider adopts the shared GPU device of a windowing layer. The
// provider must expose the underlying hal types through HalDevice and
// HalQueue accessors, as gogpu providers do. The returned Device does not
// own the hal device: Close leaves it untouched.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("provider HalQueue is not hal.Queue")
	}
	return &Device{
		device: device,
		queue:  queue,
		format: provider.SurfaceFormat(),
	}, nil
}

// HalDevice returns the underlying hal device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the underlying submission queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// SurfaceFormat returns the texture format of the surface the device
// presents to, or the offscreen default for standalone devices.
func (d *Device) SurfaceFormat() gputypes.TextureFormat { return d.format }

// Close destroys the device and instance if the Device owns them. Devices
// adopted from a provider are left untouched.
func (d *Device) Close() {
	if d.owned {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.instance = nil
	d.device = nil
	d.queue = nil
}

// CreateBuffer creates an empty GPU buffer.
func (d *Device) CreateBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create buffer %s", label)
	}
	return buf, nil
}

// UploadBuffer creates a GPU buffer and uploads data through the queue.
// Writes are ordered with subsequent submissions on the same queue.
func (d *Device) UploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.CreateBuffer(label, uint64(len(data)), usage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
