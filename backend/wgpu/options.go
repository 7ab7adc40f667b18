//go:build !nogpu

package wgpu

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	width, height    int
	dpi              float32
	label            string
	spirv            bool
	uniformAlignment uint32
}

func defaultOptions() options {
	return options{
		dpi:              1,
		label:            "vg",
		uniformAlignment: 256,
	}
}

// WithSize sets the initial logical size of the render target.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = max(0, width)
		o.height = max(0, height)
	}
}

// WithDPI sets the initial device pixel ratio.
func WithDPI(dpi float32) Option {
	return func(o *options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithLabel sets the prefix of GPU object labels.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithSPIRV compiles the shader to SPIR-V with naga instead of handing
// WGSL source to the device. Use it with HAL backends that do not accept
// WGSL.
func WithSPIRV() Option {
	return func(o *options) {
		o.spirv = true
	}
}

// WithUniformAlignment sets the dynamic uniform offset alignment. It must
// be a power of two no smaller than the device's
// minUniformBufferOffsetAlignment. The default is 256.
func WithUniformAlignment(n uint32) Option {
	return func(o *options) {
		if n >= 16 && n&(n-1) == 0 {
			o.uniformAlignment = n
		}
	}
}
