//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vg"
)

func makeVerts(n int) []vg.Vertex {
	verts := make([]vg.Vertex, n)
	for i := range verts {
		verts[i] = vg.Vertex{X: float32(i), Y: float32(i), U: 0.5, V: 1}
	}
	return verts
}

func floatAt(b []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
}

func TestBuildFrameConvexFill(t *testing.T) {
	cmds := []vg.Command{{
		Flavor:    vg.ConvexFill{},
		Drawables: []vg.Drawable{{Fill: vg.Span{Offset: 0, Count: 4}, Stroke: vg.Span{Offset: 4, Count: 10}}},
	}}
	f, err := buildFrame(makeVerts(14), cmds, 256)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}

	if len(f.vertices) != 14*vertexStride {
		t.Errorf("vertex bytes = %d, want %d", len(f.vertices), 14*vertexStride)
	}
	if len(f.uniforms) != 256 {
		t.Errorf("uniform bytes = %d, want one 256 byte slot", len(f.uniforms))
	}
	if len(f.draws) != 1 {
		t.Fatalf("draws = %d, want fill and fringe merged into 1", len(f.draws))
	}
	d := f.draws[0]
	if d.stage != stageColor || d.first != 0 || d.count != 30 {
		t.Errorf("draw = %+v, want color stage with 30 indices", d)
	}

	wantFan := []uint32{0, 1, 2, 0, 2, 3}
	for i, want := range wantFan {
		if f.indices[i] != want {
			t.Fatalf("fan indices = %v, want prefix %v", f.indices[:6], wantFan)
		}
	}
	if got := f.indices[6:9]; got[0] != 4 || got[1] != 5 || got[2] != 6 {
		t.Errorf("first strip triangle = %v, want [4 5 6]", got)
	}
	if got := floatAt(f.vertices, 4); got != 1 {
		t.Errorf("vertex 1 x = %v, want 1", got)
	}
}

func TestBuildFrameConcaveFillStages(t *testing.T) {
	cmds := []vg.Command{{
		Flavor: vg.ConcaveFill{},
		Drawables: []vg.Drawable{
			{Fill: vg.Span{Offset: 0, Count: 4}, Stroke: vg.Span{Offset: 8, Count: 4}},
			{Fill: vg.Span{Offset: 4, Count: 4}, Stroke: vg.Span{Offset: 12, Count: 4}},
		},
		Triangles: vg.Span{Offset: 16, Count: 4},
		FillRule:  vg.FillRuleEvenOdd,
	}}
	f, err := buildFrame(makeVerts(20), cmds, 256)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}

	want := []struct {
		stage   stage
		uniform uint32
		count   uint32
	}{
		{stageFillStencil, 0, 12},
		{stageFillFringe, 256, 12},
		{stageFillCover, 256, 6},
	}
	if len(f.draws) != len(want) {
		t.Fatalf("draws = %d, want %d", len(f.draws), len(want))
	}
	for i, w := range want {
		d := f.draws[i]
		if d.stage != w.stage || d.uniform != w.uniform || d.count != w.count {
			t.Errorf("draw %d = {%v u=%d n=%d}, want {%v u=%d n=%d}",
				i, d.stage, d.uniform, d.count, w.stage, w.uniform, w.count)
		}
		if !d.evenOdd {
			t.Errorf("draw %d lost the even-odd rule", i)
		}
	}
}

func TestBuildFrameStencilStroke(t *testing.T) {
	cmds := []vg.Command{{
		Flavor:    vg.StencilStroke{},
		Drawables: []vg.Drawable{{Stroke: vg.Span{Offset: 0, Count: 4}}},
	}}
	f, err := buildFrame(makeVerts(4), cmds, 256)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}

	want := []struct {
		stage   stage
		uniform uint32
	}{
		{stageStrokeBase, 256},
		{stageStrokeAA, 0},
		{stageStrokeClear, 0},
	}
	if len(f.draws) != len(want) {
		t.Fatalf("draws = %d, want %d", len(f.draws), len(want))
	}
	for i, w := range want {
		if d := f.draws[i]; d.stage != w.stage || d.uniform != w.uniform || d.count != 6 {
			t.Errorf("draw %d = {%v u=%d n=%d}, want {%v u=%d n=6}", i, d.stage, d.uniform, d.count, w.stage, w.uniform)
		}
	}
}

func TestBuildFrameTrianglesTruncated(t *testing.T) {
	cmds := []vg.Command{{
		Flavor:    vg.Triangles{},
		Triangles: vg.Span{Offset: 1, Count: 7},
		Image:     3,
	}}
	f, err := buildFrame(makeVerts(8), cmds, 256)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}
	if len(f.draws) != 1 || f.draws[0].count != 6 || f.draws[0].image != 3 {
		t.Fatalf("draws = %+v, want one 6 index draw of image 3", f.draws)
	}
	for i, idx := range f.indices {
		if idx != uint32(i+1) {
			t.Errorf("indices = %v, want 1..6", f.indices)
			break
		}
	}
}

func TestBuildFrameSkipsEmptySpans(t *testing.T) {
	cmds := []vg.Command{{
		Flavor:    vg.ConcaveFill{},
		Drawables: []vg.Drawable{{Fill: vg.Span{Offset: 0, Count: 5}}},
		Triangles: vg.Span{Offset: 5, Count: 4},
	}}
	f, err := buildFrame(makeVerts(9), cmds, 256)
	if err != nil {
		t.Fatalf("buildFrame: %v", err)
	}
	if len(f.draws) != 2 {
		t.Fatalf("draws = %d, want stencil and cover only", len(f.draws))
	}
	if f.draws[0].stage != stageFillStencil || f.draws[1].stage != stageFillCover {
		t.Errorf("stages = %v, %v", f.draws[0].stage, f.draws[1].stage)
	}
}

func TestBuildFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  vg.Command
		want error
	}{
		{
			name: "span past end",
			cmd: vg.Command{
				Flavor:    vg.Stroke{},
				Drawables: []vg.Drawable{{Stroke: vg.Span{Offset: 2, Count: 4}}},
			},
			want: ErrSpanOutOfRange,
		},
		{
			name: "cover past end",
			cmd:  vg.Command{Flavor: vg.ConcaveFill{}, Triangles: vg.Span{Offset: 3, Count: 4}},
			want: ErrSpanOutOfRange,
		},
		{
			name: "nil flavor",
			cmd:  vg.Command{},
			want: ErrUnknownFlavor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildFrame(makeVerts(4), []vg.Command{tt.cmd}, 256)
			if !errors.Is(err, tt.want) {
				t.Errorf("buildFrame() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrameUniformLayout(t *testing.T) {
	f := newFrame(64)
	if f.slot != 192 {
		t.Fatalf("slot = %d, want ParamsSize rounded up to 192", f.slot)
	}

	var p vg.Params
	p.InnerCol = [4]float32{0.25, 0.5, 0.75, 1}
	p.ShaderType = float32(vg.ShaderImg)
	off0 := f.addUniform(&p)
	off1 := f.addUniform(&p)
	if off0 != 0 || off1 != 192 {
		t.Errorf("offsets = %d, %d, want 0, 192", off0, off1)
	}
	if got := floatAt(f.uniforms, 25); got != 0.5 {
		t.Errorf("inner_col.g = %v, want 0.5", got)
	}
	if got := floatAt(f.uniforms, 43); got != float32(vg.ShaderImg) {
		t.Errorf("shader_type = %v, want %v", got, float32(vg.ShaderImg))
	}
}

func TestFrameAddClear(t *testing.T) {
	f := newFrame(256)
	clip := image.Rect(2, 3, 10, 20)
	f.addClear(100, 50, clip, vg.Red.WithAlpha(0.5))

	if len(f.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(f.draws))
	}
	d := f.draws[0]
	if d.stage != stageClear || d.count != 6 || d.clip != clip {
		t.Errorf("draw = %+v, want clear stage, 6 indices, clip %v", d, clip)
	}
	if r, a := floatAt(f.uniforms, 24), floatAt(f.uniforms, 27); r != 0.5 || a != 0.5 {
		t.Errorf("inner_col = (%v, ..., %v), want premultiplied (0.5, ..., 0.5)", r, a)
	}
	if x := floatAt(f.vertices, 8); x != 100 {
		t.Errorf("quad corner x = %v, want 100", x)
	}
}

func TestKeyFor(t *testing.T) {
	blend := vg.NewCompositeOperationState(vg.CompositeXor)
	tests := []struct {
		stage       stage
		wantEvenOdd bool
		wantBlend   bool
	}{
		{stageColor, false, true},
		{stageFillStencil, false, false},
		{stageFillFringe, true, true},
		{stageFillCover, true, true},
		{stageStrokeClear, false, false},
		{stageClear, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			k := keyFor(&drawCall{stage: tt.stage, evenOdd: true, blend: blend})
			if k.evenOdd != tt.wantEvenOdd {
				t.Errorf("evenOdd = %v, want %v", k.evenOdd, tt.wantEvenOdd)
			}
			if (k.blend == blend) != tt.wantBlend {
				t.Errorf("blend kept = %v, want %v", k.blend == blend, tt.wantBlend)
			}
		})
	}
}

func TestDepthStencilState(t *testing.T) {
	ds := depthStencilState(pipelineKey{stage: stageFillStencil})
	if ds.StencilFront.PassOp != hal.StencilOperationIncrementWrap ||
		ds.StencilBack.PassOp != hal.StencilOperationDecrementWrap {
		t.Errorf("fill stencil ops = %v/%v, want increment/decrement wrap",
			ds.StencilFront.PassOp, ds.StencilBack.PassOp)
	}

	ds = depthStencilState(pipelineKey{stage: stageFillCover, evenOdd: true})
	if ds.StencilFront.Compare != gputypes.CompareFunctionNotEqual {
		t.Errorf("cover compare = %v, want NotEqual", ds.StencilFront.Compare)
	}
	if ds.StencilFront.FailOp != hal.StencilOperationZero || ds.StencilFront.PassOp != hal.StencilOperationZero {
		t.Error("cover must zero the stencil on pass and fail")
	}
	if ds.StencilReadMask != 0x01 {
		t.Errorf("even-odd cover read mask = %#x, want 0x1", ds.StencilReadMask)
	}

	ds = depthStencilState(pipelineKey{stage: stageStrokeBase})
	if ds.StencilFront.Compare != gputypes.CompareFunctionEqual ||
		ds.StencilFront.PassOp != hal.StencilOperationIncrementClamp {
		t.Error("stroke base must test equal and increment clamped")
	}

	ds = depthStencilState(pipelineKey{stage: stageColor})
	if ds.StencilWriteMask != 0 || ds.StencilFront.Compare != gputypes.CompareFunctionAlways {
		t.Error("color stage must leave the stencil untouched")
	}
}

func TestBlendStateSourceOver(t *testing.T) {
	bs := blendState(vg.NewCompositeOperationState(vg.CompositeSourceOver))
	if bs.Color.SrcFactor != gputypes.BlendFactorOne || bs.Color.DstFactor != gputypes.BlendFactorOneMinusSrcAlpha {
		t.Errorf("color factors = %v/%v, want One/OneMinusSrcAlpha", bs.Color.SrcFactor, bs.Color.DstFactor)
	}
	if bs.Alpha.Operation != gputypes.BlendOperationAdd {
		t.Errorf("alpha op = %v, want Add", bs.Alpha.Operation)
	}
}
