package backend

import (
	"errors"

	"github.com/gogpu/vg"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend in backend/software.
	BackendSoftware = "software"
	// BackendWGPU is the name of the HAL backend in backend/wgpu.
	BackendWGPU = "wgpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or every candidate failed to open.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory opens a backend with a render target of the given logical size.
type Factory func(width, height int) (vg.Backend, error)
