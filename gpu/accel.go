//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/colonwq/fractalpad"
)

//go:embed shaders/mandelbrot.wgsl
var mandelbrotShaderWGSL string

// ErrNotRegistered is returned when device sharing is requested before
// the accelerator has been registered.
var ErrNotRegistered = errors.New("gpu: accelerator not registered")

// minStep is the smallest per-pixel step the f32 shader can resolve.
// Below this, adjacent pixels collapse to the same coordinate and the
// accelerator declines in favor of the CPU's f64 path.
const minStep = 1e-7

// paramsSize is the byte size of the shader's Params uniform.
const paramsSize = 32

// gpuTimeout bounds the fence wait for one dispatch.
const gpuTimeout = 5 * time.Second

// Accelerator evaluates escape-time buffers with a wgpu compute shader,
// one invocation per pixel. It implements fractalpad.Accelerator.
type Accelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ fractalpad.Accelerator = (*Accelerator)(nil)

// New creates an unregistered accelerator. Init acquires the device.
func New() *Accelerator {
	return &Accelerator{}
}

// Name returns the accelerator name.
func (a *Accelerator) Name() string { return "wgpu-compute" }

// Init acquires a GPU device and builds the compute pipeline. It returns
// an error when no usable GPU is present, in which case the accelerator
// stays unregistered and evaluation runs on the CPU.
func (a *Accelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initGPU()
}

// Close releases GPU resources. Shared devices are not destroyed.
func (a *Accelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipeline()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Don't destroy shared resources — we don't own them
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a shared GPU device from
// an external provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (a *Accelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

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
		return fmt.Errorf("gpu: create pipeline with shared device: %w", err)
	}
	a.gpuReady = true
	fractalpad.Logger().Info("accelerator switched to shared GPU device")
	return nil
}

// Evaluate dispatches one compute pass over the request's raster and
// reads the iteration counts back into dst.
func (a *Accelerator) Evaluate(req fractalpad.EvalRequest, dst []uint8) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.gpuReady {
		return fractalpad.ErrFallbackToCPU
	}
	if req.Width <= 0 || req.Height <= 0 || len(dst) < req.Width*req.Height {
		return fmt.Errorf("gpu: invalid request %dx%d for %d-byte destination",
			req.Width, req.Height, len(dst))
	}

	realStep := req.Region.RealRange() / float64(req.Width)
	imagStep := req.Region.ImagRange() / float64(req.Height)
	if realStep < minStep || imagStep < minStep {
		return fractalpad.ErrFallbackToCPU
	}

	return a.dispatch(req, realStep, imagStep, dst)
}

// packParams serializes the shader's Params uniform.
func packParams(req fractalpad.EvalRequest, realStep, imagStep float64) []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(req.Width))
	binary.LittleEndian.PutUint32(buf[4:], uint32(req.Height))
	binary.LittleEndian.PutUint32(buf[8:], uint32(req.MaxIter))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(float32(req.Region.RealMin)))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(float32(req.Region.ImagMax)))
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(float32(realStep)))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(float32(imagStep)))
	return buf
}

// dispatch runs one compute pass and copies the result through a staging
// buffer. One submit + one fence wait per evaluation.
func (a *Accelerator) dispatch(req fractalpad.EvalRequest, realStep, imagStep float64, dst []uint8) error {
	w, h := uint32(req.Width), uint32(req.Height)
	outSize := uint64(w) * uint64(h) * 4

	paramsBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create params buffer: %w", err)
	}
	defer a.device.DestroyBuffer(paramsBuf)

	storageBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_iterations", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create storage buffer: %w", err)
	}
	defer a.device.DestroyBuffer(storageBuf)

	stagingBuf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandelbrot_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(stagingBuf)

	a.queue.WriteBuffer(paramsBuf, 0, packParams(req, realStep, imagStep))

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "mandelbrot_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mandelbrot_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandelbrot"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandelbrot_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("gpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := a.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("gpu: readback: %w", err)
	}
	unpackIterations(readback, dst, req.Width*req.Height, req.MaxIter)
	return nil
}

// unpackIterations converts the shader's u32-per-pixel counts into
// palette indices, clamped to the iteration budget.
func unpackIterations(packed []byte, dst []uint8, pixelCount, maxIter int) {
	for i := 0; i < pixelCount; i++ {
		v := binary.LittleEndian.Uint32(packed[i*4:])
		if v > uint32(maxIter) {
			v = uint32(maxIter)
		}
		dst[i] = uint8(v)
	}
}

func (a *Accelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("gpu: no GPU adapters found")
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
		return fmt.Errorf("gpu: open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipeline(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("gpu: create pipeline: %w", err)
	}
	a.gpuReady = true
	fractalpad.Logger().Info("GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

// createPipeline compiles the WGSL shader to SPIR-V and builds the
// compute pipeline.
func (a *Accelerator) createPipeline() error {
	spirvBytes, err := naga.Compile(mandelbrotShaderWGSL)
	if err != nil {
		return fmt.Errorf("gpu: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mandelbrot",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return fmt.Errorf("gpu: create shader module: %w", err)
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
		return fmt.Errorf("gpu: create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mandelbrot_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "mandelbrot_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("gpu: create compute pipeline: %w", err)
	}
	a.pipeline = pipeline

	return nil
}

func (a *Accelerator) destroyPipeline() {
	if a.device == nil {
		return
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
