package backend

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/vg"
)

// stubBackend is a do-nothing vg.Backend.
type stubBackend struct {
	width, height int
}

func (s *stubBackend) ImageInfo(vg.ImageID) (vg.ImageInfo, error) {
	return vg.ImageInfo{}, vg.ErrImageNotFound
}
func (s *stubBackend) SetSize(w, h int, _ float32) { s.width, s.height = w, h }
func (s *stubBackend) SetTarget(vg.RenderTarget) error            { return nil }
func (s *stubBackend) ClearRect(int, int, int, int, vg.Color) error { return nil }
func (s *stubBackend) Render([]vg.Vertex, []vg.Command) error { return nil }
func (s *stubBackend) UpdateImage(vg.ImageID, image.Image, int, int) error { return nil }
func (s *stubBackend) DeleteImage(vg.ImageID) error { return nil }
func (s *stubBackend) CreateImage(vg.TextureType, int, int, vg.ImageFlags) (vg.ImageID, error) {
	return 1, nil
}

func stubFactory(width, height int) (vg.Backend, error) {
	return &stubBackend{width: width, height: height}, nil
}

func failingFactory(int, int) (vg.Backend, error) {
	return nil, errors.New("no adapter")
}

// withRegistry runs the test against an empty registry.
func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := factories
	factories = make(map[string]Factory)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		factories = saved
		registryMu.Unlock()
	})
}

func TestRegistryRegisterAndOpen(t *testing.T) {
	withRegistry(t)
	Register(BackendSoftware, stubFactory)

	if !IsRegistered(BackendSoftware) {
		t.Fatal("software backend should be registered")
	}
	b, err := Open(BackendSoftware, 64, 32)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s := b.(*stubBackend)
	if s.width != 64 || s.height != 32 {
		t.Errorf("size = %dx%d, want 64x32", s.width, s.height)
	}
}

func TestRegistryOpenUnregistered(t *testing.T) {
	withRegistry(t)
	if _, err := Open("nonexistent", 1, 1); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestRegistryAvailableSorted(t *testing.T) {
	withRegistry(t)
	Register("zeta", stubFactory)
	Register("alpha", stubFactory)

	got := Available()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Errorf("Available() = %v, want [alpha zeta]", got)
	}
}

func TestRegistryUnregister(t *testing.T) {
	withRegistry(t)
	Register("test-backend", stubFactory)
	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}

func TestRegistryDefaultPriority(t *testing.T) {
	withRegistry(t)
	var opened string
	Register(BackendSoftware, func(w, h int) (vg.Backend, error) {
		opened = BackendSoftware
		return stubFactory(w, h)
	})
	Register(BackendWGPU, func(w, h int) (vg.Backend, error) {
		opened = BackendWGPU
		return stubFactory(w, h)
	})

	if _, err := Default(10, 10); err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if opened != BackendWGPU {
		t.Errorf("Default() opened %q, want %q", opened, BackendWGPU)
	}
}

func TestRegistryDefaultFallsBack(t *testing.T) {
	withRegistry(t)
	Register(BackendWGPU, failingFactory)
	Register(BackendSoftware, stubFactory)

	b, err := Default(10, 10)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if _, ok := b.(*stubBackend); !ok {
		t.Errorf("Default() = %T, want fallback backend", b)
	}
}

func TestRegistryDefaultEmpty(t *testing.T) {
	withRegistry(t)
	if _, err := Default(10, 10); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default() error = %v, want ErrBackendNotAvailable", err)
	}

	Register(BackendWGPU, failingFactory)
	if _, err := Default(10, 10); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Default() with failing factory error = %v, want ErrBackendNotAvailable", err)
	}
}
