// Package backend is a registry of vg.Backend implementations.
//
// Backend packages register a factory from their init() function, so a
// blank import is enough to make one available:
//
//	import _ "github.com/gogpu/vg/backend/software"
//
// # Backend Selection
//
// Use Default to open the best available backend, or Open to request a
// specific backend by name:
//
//	b, err := backend.Default(800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	r := vg.New(b)
//
// # Available Backends
//
//   - "software": CPU rasterizer with stencil emulation (backend/software)
//   - "wgpu": gogpu/wgpu HAL backend; registered by wgpu.Register once a
//     device provider exists
package backend
