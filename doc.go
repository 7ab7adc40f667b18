// Package vg assembles antialiased 2D vector drawing into GPU-ready
// command lists.
//
// # Overview
//
// A Renderer turns fills, strokes and raw triangle lists into a frame of
// vertices and Commands. Paths are flattened and expanded on the CPU with
// fringe geometry for antialiasing; paints and scissors become a packed
// block of fragment uniforms (Params). Flush hands the whole frame to a
// Backend in one call, which executes it with a stencil buffer:
//
//   - ConvexFill: one fan plus the fringe strip, no stencil.
//   - ConcaveFill: stencil the fans, draw fringes where the stencil is
//     clear, then cover the bounding quad where it is set.
//   - Stroke: the stroke strips, blended directly.
//   - StencilStroke: three passes so overlapping strips blend once.
//   - Triangles: a textured triangle list.
//
// # Quick Start
//
//	b := software.New(software.WithSize(256, 256))
//	r := vg.New(b)
//
//	p := vg.NewPath()
//	p.Circle(128, 128, 100)
//	if err := r.Fill(vg.NewColorPaint(vg.Red), vg.NoScissor(), p); err != nil {
//	    return err
//	}
//	if err := r.Flush(); err != nil {
//	    return err
//	}
//	img := b.Image()
//
// # Backends
//
// backend/software rasterizes on the CPU and is always available.
// backend/wgpu runs on a gogpu/wgpu HAL device. The backend package keeps a
// registry so applications can pick whichever is available.
//
// # Coordinate System
//
// Origin at the top-left, X right, Y down, angles in radians. Positions are
// logical pixels; backends scale by the device pixel ratio given to
// SetSize.
package vg
