package vg

import (
	"fmt"
	"image"
)

// recordingBackend captures rendered frames for inspection.
type recordingBackend struct {
	frames    []recordedFrame
	images    map[ImageID]ImageInfo
	nextID    ImageID
	renderErr error

	width, height int
	dpi           float32
	clears        int
	target        RenderTarget
	targetErr     error
}

type recordedFrame struct {
	verts []Vertex
	cmds  []Command
}

func (b *recordingBackend) ImageInfo(id ImageID) (ImageInfo, error) {
	info, ok := b.images[id]
	if !ok {
		return ImageInfo{}, fmt.Errorf("image %d: %w", id, ErrImageNotFound)
	}
	return info, nil
}

func (b *recordingBackend) SetSize(width, height int, dpi float32) {
	b.width, b.height, b.dpi = width, height, dpi
}

func (b *recordingBackend) SetTarget(t RenderTarget) error {
	if b.targetErr != nil {
		return b.targetErr
	}
	b.target = t
	return nil
}

func (b *recordingBackend) ClearRect(x, y, width, height int, c Color) error {
	b.clears++
	return nil
}

func (b *recordingBackend) Render(verts []Vertex, cmds []Command) error {
	b.frames = append(b.frames, recordedFrame{
		verts: append([]Vertex(nil), verts...),
		cmds:  append([]Command(nil), cmds...),
	})
	return b.renderErr
}

func (b *recordingBackend) CreateImage(typ TextureType, width, height int, flags ImageFlags) (ImageID, error) {
	if b.images == nil {
		b.images = make(map[ImageID]ImageInfo)
	}
	b.nextID++
	b.images[b.nextID] = ImageInfo{Width: width, Height: height, Type: typ, Flags: flags}
	return b.nextID, nil
}

func (b *recordingBackend) UpdateImage(id ImageID, src image.Image, x, y int) error {
	if _, ok := b.images[id]; !ok {
		return fmt.Errorf("image %d: %w", id, ErrImageNotFound)
	}
	return nil
}

func (b *recordingBackend) DeleteImage(id ImageID) error {
	if _, ok := b.images[id]; !ok {
		return fmt.Errorf("image %d: %w", id, ErrImageNotFound)
	}
	delete(b.images, id)
	return nil
}

func (b *recordingBackend) lastFrame() recordedFrame {
	if len(b.frames) == 0 {
		return recordedFrame{}
	}
	return b.frames[len(b.frames)-1]
}

func rectPath(x, y, w, h float32) *Path {
	p := NewPath()
	p.Rect(x, y, w, h)
	return p
}

func ringPath(cx, cy, outer, inner float32) *Path {
	p := NewPath()
	p.Circle(cx, cy, outer)
	p.Circle(cx, cy, inner)
	p.SetSolidity(Hole)
	return p
}
