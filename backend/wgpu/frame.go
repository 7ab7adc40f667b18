//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/vg"
)

// vertexStride is the byte stride of vg.Vertex: x, y, u, v as float32.
const vertexStride = 16

// stage is one pipeline configuration of the stencil-then-cover scheme.
type stage uint8

const (
	stageColor       stage = iota // blended color, stencil untouched
	stageFillStencil              // winding count, no color
	stageFillFringe               // antialiased fringe where stencil is clear
	stageFillCover                // cover quad where stencil is set; zeroes stencil
	stageStrokeBase               // stroke body where stencil is clear; marks stencil
	stageStrokeAA                 // stroke edges where stencil is clear
	stageStrokeClear              // zeroes stencil under the stroke, no color
	stageClear                    // unblended solid color
)

var stageNames = [...]string{
	stageColor:       "color",
	stageFillStencil: "fill_stencil",
	stageFillFringe:  "fill_fringe",
	stageFillCover:   "fill_cover",
	stageStrokeBase:  "stroke_base",
	stageStrokeAA:    "stroke_aa",
	stageStrokeClear: "stroke_clear",
	stageClear:       "clear",
}

func (s stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// writesColor reports whether the stage has color writes enabled.
func (s stage) writesColor() bool {
	return s != stageFillStencil && s != stageStrokeClear
}

// drawCall is one indexed draw of a frame.
type drawCall struct {
	stage   stage
	first   uint32 // first index
	count   uint32 // index count
	uniform uint32 // dynamic offset of the fragment uniforms
	image   vg.ImageID
	evenOdd bool
	blend   vg.CompositeOperationState

	// clip limits the draw to a device pixel rectangle when non-empty.
	clip image.Rectangle
}

// frame holds the GPU-ready data of one Render call: packed vertices,
// triangle list indices, aligned uniform slots and the draw sequence.
type frame struct {
	vertices []byte
	indices  []uint32
	uniforms []byte
	draws    []drawCall

	slot uint32 // aligned size of one uniform slot
}

func newFrame(align uint32) *frame {
	return &frame{slot: alignUp(vg.ParamsSize, align)}
}

// buildFrame converts recorded commands into a frame. Fans and strips are
// expanded to triangle lists so a single pipeline topology serves every
// stage.
func buildFrame(verts []vg.Vertex, cmds []vg.Command, align uint32) (*frame, error) {
	f := newFrame(align)
	f.vertices = make([]byte, 0, len(verts)*vertexStride)
	for _, v := range verts {
		f.vertices = appendFloats(f.vertices, v.X, v.Y, v.U, v.V)
	}

	for i := range cmds {
		if err := f.addCommand(len(verts), &cmds[i]); err != nil {
			return nil, fmt.Errorf("wgpu: command %d: %w", i, err)
		}
	}
	return f, nil
}

func (f *frame) addCommand(nverts int, cmd *vg.Command) error {
	if err := checkSpans(nverts, cmd); err != nil {
		return err
	}

	base := drawCall{image: cmd.Image, blend: cmd.Composite}

	switch fl := cmd.Flavor.(type) {
	case vg.ConvexFill:
		d := base
		d.stage = stageColor
		d.uniform = f.addUniform(&fl.Params)
		for _, dr := range cmd.Drawables {
			f.addFan(d, dr.Fill)
			f.addStrip(d, dr.Stroke)
		}

	case vg.ConcaveFill:
		fill := f.addUniform(&fl.FillParams)
		paint := f.addUniform(&fl.StrokeParams)
		base.evenOdd = cmd.FillRule == vg.FillRuleEvenOdd

		d := base
		d.stage, d.uniform = stageFillStencil, fill
		for _, dr := range cmd.Drawables {
			f.addFan(d, dr.Fill)
		}
		d.stage, d.uniform = stageFillFringe, paint
		for _, dr := range cmd.Drawables {
			f.addStrip(d, dr.Stroke)
		}
		d.stage = stageFillCover
		f.addStrip(d, cmd.Triangles)

	case vg.Stroke:
		d := base
		d.stage = stageColor
		d.uniform = f.addUniform(&fl.Params)
		for _, dr := range cmd.Drawables {
			f.addStrip(d, dr.Stroke)
		}

	case vg.StencilStroke:
		pass1 := f.addUniform(&fl.Pass1)
		pass2 := f.addUniform(&fl.Pass2)

		d := base
		for _, st := range [...]struct {
			stage   stage
			uniform uint32
		}{
			{stageStrokeBase, pass2},
			{stageStrokeAA, pass1},
			{stageStrokeClear, pass1},
		} {
			d.stage, d.uniform = st.stage, st.uniform
			for _, dr := range cmd.Drawables {
				f.addStrip(d, dr.Stroke)
			}
		}

	case vg.Triangles:
		d := base
		d.stage = stageColor
		d.uniform = f.addUniform(&fl.Params)
		f.addList(d, cmd.Triangles)

	default:
		return fmt.Errorf("%w: %T", ErrUnknownFlavor, cmd.Flavor)
	}
	return nil
}

// addClear appends a quad covering the logical viewport that writes c
// into the device rectangle clip.
func (f *frame) addClear(width, height float32, clip image.Rectangle, c vg.Color) {
	first := uint32(len(f.vertices) / vertexStride)
	f.vertices = appendFloats(f.vertices,
		0, 0, 0, 0,
		width, 0, 0, 0,
		width, height, 0, 0,
		0, height, 0, 0,
	)

	var p vg.Params
	p.InnerCol = c.Premultiply().Array()
	p.StrokeThr = -1
	p.ShaderType = float32(vg.ShaderSimple)

	d := drawCall{
		stage:   stageClear,
		uniform: f.addUniform(&p),
		clip:    clip,
	}
	f.addFan(d, vg.Span{Offset: int(first), Count: 4})
}

// addUniform stores p in the next aligned slot and returns its offset.
func (f *frame) addUniform(p *vg.Params) uint32 {
	off := uint32(len(f.uniforms))
	u := p.Floats()
	f.uniforms = appendFloats(f.uniforms, u[:]...)
	for uint32(len(f.uniforms))-off < f.slot {
		f.uniforms = append(f.uniforms, 0)
	}
	return off
}

func (f *frame) addFan(d drawCall, s vg.Span) {
	first := uint32(len(f.indices))
	o := uint32(s.Offset)
	for i := uint32(2); i < uint32(s.Count); i++ {
		f.indices = append(f.indices, o, o+i-1, o+i)
	}
	f.addDraw(d, first)
}

func (f *frame) addStrip(d drawCall, s vg.Span) {
	first := uint32(len(f.indices))
	o := uint32(s.Offset)
	for i := uint32(2); i < uint32(s.Count); i++ {
		f.indices = append(f.indices, o+i-2, o+i-1, o+i)
	}
	f.addDraw(d, first)
}

func (f *frame) addList(d drawCall, s vg.Span) {
	first := uint32(len(f.indices))
	n := uint32(s.Count) / 3 * 3
	for i := uint32(0); i < n; i++ {
		f.indices = append(f.indices, uint32(s.Offset)+i)
	}
	f.addDraw(d, first)
}

// addDraw records the indices appended since first. Consecutive draws with
// identical state are merged.
func (f *frame) addDraw(d drawCall, first uint32) {
	count := uint32(len(f.indices)) - first
	if count == 0 {
		return
	}
	if n := len(f.draws); n > 0 {
		last := &f.draws[n-1]
		if last.first+last.count == first && sameState(last, &d) {
			last.count += count
			return
		}
	}
	d.first, d.count = first, count
	f.draws = append(f.draws, d)
}

func sameState(a, b *drawCall) bool {
	return a.stage == b.stage &&
		a.uniform == b.uniform &&
		a.image == b.image &&
		a.evenOdd == b.evenOdd &&
		a.blend == b.blend &&
		a.clip == b.clip
}

// indexBytes returns the index list in little-endian byte order.
func (f *frame) indexBytes() []byte {
	b := make([]byte, 0, len(f.indices)*4)
	for _, i := range f.indices {
		b = binary.LittleEndian.AppendUint32(b, i)
	}
	return b
}

func checkSpans(nverts int, cmd *vg.Command) error {
	check := func(s vg.Span) error {
		if s.Offset < 0 || s.Count < 0 || s.End() > nverts {
			return fmt.Errorf("%w: [%d, %d) of %d", ErrSpanOutOfRange, s.Offset, s.End(), nverts)
		}
		return nil
	}
	for _, d := range cmd.Drawables {
		if err := check(d.Fill); err != nil {
			return err
		}
		if err := check(d.Stroke); err != nil {
			return err
		}
	}
	return check(cmd.Triangles)
}

func appendFloats(b []byte, vs ...float32) []byte {
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func alignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
