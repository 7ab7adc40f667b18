//go:build !nogpu

// Package wgpu renders vg frames on the GPU through the gogpu/wgpu HAL.
//
// The backend draws into an offscreen RGBA8 texture with a
// Depth24PlusStencil8 attachment. Every vg command flavor maps to a fixed
// sequence of pipeline stages:
//
//	ConvexFill     color (fill fans, then fringe strips)
//	ConcaveFill    fill_stencil -> fill_fringe -> fill_cover
//	Stroke         color
//	StencilStroke  stroke_base -> stroke_aa -> stroke_clear
//	Triangles      color
//
// Fans and strips are expanded to indexed triangle lists. Fragment uniforms
// of a frame live in one buffer bound with a dynamic offset per draw.
// Pipelines are created on first use and cached per stage, fill rule and
// composite operation.
//
// # Device Sharing
//
// New takes a HAL device and queue directly. NewFromProvider accepts a
// gpucontext.DeviceProvider that also exposes HalDevice() and HalQueue(),
// and Register installs a factory for backend.Open:
//
//	wgpu.Register(app.GPUContextProvider())
//	b, err := backend.Default(800, 600)
//
// The package is excluded with the nogpu build tag.
package wgpu
