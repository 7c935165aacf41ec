//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/mandelbrot"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// maxStorageBytes is the WebGPU default maxStorageBufferBindingSize.
// Larger frames are left to the CPU.
const maxStorageBytes = 128 << 20

// fenceTimeout bounds the wait for one frame.
const fenceTimeout = 5 * time.Second

// Accelerator evaluates the escape-time field with a wgpu/hal compute shader.
// It implements mandelbrot.Accelerator.
//
// The pipeline is built once per device. The storage and staging buffers
// depend on the frame resolution: when it changes they are destroyed and
// recreated, never resized.
type Accelerator struct {
	mu  sync.Mutex
	log atomic.Pointer[slog.Logger]

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	spirv      []uint32
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
	params     hal.Buffer

	frame  *frameBuffers
	budget memoryBudget

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var (
	_ mandelbrot.Accelerator         = (*Accelerator)(nil)
	_ mandelbrot.DeviceProviderAware = (*Accelerator)(nil)
)

// Name returns "wgpu-compute".
func (a *Accelerator) Name() string { return "wgpu-compute" }

// SetLogger receives the logger from mandelbrot.SetLogger.
func (a *Accelerator) SetLogger(l *slog.Logger) { a.log.Store(l) }

// logger returns the logger handed to SetLogger, or the package default.
func (a *Accelerator) logger() *slog.Logger {
	if l := a.log.Load(); l != nil {
		return l
	}
	return mandelbrot.Logger()
}

// Init opens a device of its own. A missing GPU is not an error: the
// accelerator stays registered and every frame falls back to the CPU.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		a.logger().Warn("gpu: init failed, frames fall back to CPU", "err", err)
	}
	return nil
}

// Ready reports whether frames run on the GPU.
func (a *Accelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Close releases every GPU resource. A shared device is left alone.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyFrame()
	a.destroyPipeline()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetMemoryBudget limits the memory frame buffers may hold. Frames whose
// buffers do not fit fall back to the CPU.
func (a *Accelerator) SetMemoryBudget(megabytes int) error {
	return a.budget.setBudget(megabytes)
}

// MemoryStats reports frame buffer memory usage.
func (a *Accelerator) MemoryStats() MemoryStats {
	return a.budget.stats()
}

// SetDeviceProvider switches the accelerator to a shared GPU device from
// an external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return errors.New("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyFrame()
	a.destroyPipeline()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipeline(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu: create pipeline on shared device: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("gpu: switched to shared GPU device")
	return nil
}

// Evaluate renders one frame into dst. It returns an error wrapping
// mandelbrot.ErrFallbackToCPU when the GPU is unavailable, the frame is too
// large for one storage binding, or the device fails mid-frame.
func (a *Accelerator) Evaluate(dst mandelbrot.IntensityTarget, s mandelbrot.Settings, limit int) error {
	res := dst.Resolution()
	if res != s.Resolution {
		return fmt.Errorf("gpu: target %s does not match settings %s", res, s.Resolution)
	}
	if res.IsZero() {
		return nil
	}
	if uint64(res.Pixels())*4 > maxStorageBytes {
		return fmt.Errorf("%w: %s exceeds storage limit", mandelbrot.ErrFallbackToCPU, res)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return mandelbrot.ErrFallbackToCPU
	}

	if err := a.ensureFrame(res); err != nil {
		return fmt.Errorf("%w: %w", mandelbrot.ErrFallbackToCPU, err)
	}
	a.queue.WriteBuffer(a.params, 0, packParams(s, limit))

	start := time.Now()
	if err := a.dispatch(res); err != nil {
		a.logger().Warn("gpu: dispatch failed", "resolution", res, "err", err)
		return fmt.Errorf("%w: %w", mandelbrot.ErrFallbackToCPU, err)
	}

	readback := make([]byte, a.frame.size)
	if err := a.queue.ReadBuffer(a.frame.staging, 0, readback); err != nil {
		return fmt.Errorf("%w: readback: %w", mandelbrot.ErrFallbackToCPU, err)
	}
	unpackLevels(readback, dst)
	a.logger().Debug("gpu: frame", "resolution", res, "limit", limit, "elapsed", time.Since(start))
	return nil
}

// dispatch encodes the compute pass and the readback copy, submits them and
// waits for the fence.
func (a *Accelerator) dispatch(res mandelbrot.Resolution) error {
	w, h := uint32(res.Width), uint32(res.Height) //nolint:gosec // dimensions always fit uint32

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mandelbrot_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandelbrot"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandelbrot_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, a.frame.bindGroup, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(a.frame.storage, a.frame.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: a.frame.size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipeline(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.gpuReady = true
	a.logger().Info("gpu: compute accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *Accelerator) createPipeline() error {
	if a.spirv == nil {
		words, err := compileShader()
		if err != nil {
			return err
		}
		a.spirv = words
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mandelbrot",
		Source: hal.ShaderSource{SPIRV: a.spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	a.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mandelbrot_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mandelbrot_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "mandelbrot_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	params, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	a.params = params
	return nil
}

func (a *Accelerator) destroyPipeline() {
	if a.device == nil {
		return
	}
	if a.params != nil {
		a.device.DestroyBuffer(a.params)
		a.params = nil
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
		a.pipeline = nil
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
		a.shader = nil
	}
}

// frameBuffers are the resolution-dependent resources of one frame size.
type frameBuffers struct {
	res       mandelbrot.Resolution
	size      uint64
	storage   hal.Buffer
	staging   hal.Buffer
	bindGroup hal.BindGroup
}

// ensureFrame makes the frame buffers match res, recreating them when the
// resolution changed.
func (a *Accelerator) ensureFrame(res mandelbrot.Resolution) error {
	if a.frame != nil && a.frame.res == res {
		return nil
	}
	a.destroyFrame()

	f := &frameBuffers{res: res, size: uint64(res.Pixels()) * 4} //nolint:gosec // checked against maxStorageBytes
	if err := a.budget.reserve(2 * f.size); err != nil {
		return err
	}
	var err error
	f.storage, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_levels", Size: f.size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		a.budget.release(2 * f.size)
		return fmt.Errorf("create storage buffer: %w", err)
	}
	f.staging, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_staging", Size: f.size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		a.device.DestroyBuffer(f.storage)
		a.budget.release(2 * f.size)
		return fmt.Errorf("create staging buffer: %w", err)
	}
	f.bindGroup, err = a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "mandelbrot_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: a.params.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: f.storage.NativeHandle(), Offset: 0, Size: f.size}},
		},
	})
	if err != nil {
		a.device.DestroyBuffer(f.staging)
		a.device.DestroyBuffer(f.storage)
		a.budget.release(2 * f.size)
		return fmt.Errorf("create bind group: %w", err)
	}

	a.frame = f
	a.logger().Info("gpu: frame buffers recreated", "resolution", res, "size", humanize.Bytes(2*f.size), "memory", a.budget.stats())
	return nil
}

func (a *Accelerator) destroyFrame() {
	if a.frame == nil {
		return
	}
	a.budget.release(2 * a.frame.size)
	if a.device == nil {
		a.frame = nil
		return
	}
	a.device.DestroyBindGroup(a.frame.bindGroup)
	a.device.DestroyBuffer(a.frame.staging)
	a.device.DestroyBuffer(a.frame.storage)
	a.frame = nil
}
