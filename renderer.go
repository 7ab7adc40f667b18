package vg

import (
	"fmt"
	"image"

	"github.com/gogpu/vg/internal/pathcache"
)

// fillMiterLimit is the miter limit used for fill fringes.
const fillMiterLimit = 2.4

// Stats counts what the current frame has recorded so far.
type Stats struct {
	Commands  int
	Vertices  int
	Fills     int
	Strokes   int
	Triangles int
}

// Renderer records draw calls into a vertex buffer and a command list and
// hands both to its Backend on Flush.
//
// Commands reference vertices by index range, so the vertex buffer is only
// ever appended to while a frame is being recorded. A Renderer is not safe
// for concurrent use.
type Renderer struct {
	backend Backend
	opts    options

	verts []Vertex
	cmds  []Command

	composite CompositeOperationState
	stats     Stats
}

// New creates a Renderer drawing through b.
func New(b Backend, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{
		backend:   b,
		opts:      o,
		verts:     make([]Vertex, 0, 1024),
		cmds:      make([]Command, 0, 64),
		composite: NewCompositeOperationState(CompositeSourceOver),
	}
}

// Backend returns the backend the renderer draws through.
func (r *Renderer) Backend() Backend {
	return r.backend
}

// FringeWidth returns the antialias fringe width in pixels.
func (r *Renderer) FringeWidth() float32 {
	return r.opts.fringeWidth
}

// SetSize forwards the render target size to the backend.
func (r *Renderer) SetSize(width, height int, dpi float32) {
	r.backend.SetSize(width, height, dpi)
}

// SetTarget flushes the frame recorded so far to the current target and
// directs following drawing to t. Positions on an image target are image
// pixels.
func (r *Renderer) SetTarget(t RenderTarget) error {
	if len(r.cmds) > 0 {
		if err := r.Flush(); err != nil {
			return err
		}
	}
	if err := r.backend.SetTarget(t); err != nil {
		return fmt.Errorf("vg: set target: %w", err)
	}
	return nil
}

// ClearRect fills a rectangle of the target immediately, outside of the
// recorded frame.
func (r *Renderer) ClearRect(x, y, width, height int, c Color) error {
	if err := r.backend.ClearRect(x, y, width, height, c); err != nil {
		return fmt.Errorf("vg: clear rect: %w", err)
	}
	return nil
}

// SetCompositeOperation sets the blend mode stamped on following commands.
func (r *Renderer) SetCompositeOperation(op CompositeOperation) {
	r.composite = NewCompositeOperationState(op)
}

// SetCompositeBlend sets explicit blend factors for color and alpha.
func (r *Renderer) SetCompositeBlend(src, dst BlendFactor) {
	r.SetCompositeBlendSeparate(src, dst, src, dst)
}

// SetCompositeBlendSeparate sets explicit blend factors, separately for the
// color and alpha channels.
func (r *Renderer) SetCompositeBlendSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor) {
	r.composite = CompositeOperationState{
		SrcRGB:   srcRGB,
		DstRGB:   dstRGB,
		SrcAlpha: srcAlpha,
		DstAlpha: dstAlpha,
	}
}

// Stats returns the counters of the frame being recorded.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Commands = len(r.cmds)
	s.Vertices = len(r.verts)
	return s
}

// Fill records a fill of path with paint, clipped by scissor.
//
// A path that flattens to a single convex contour becomes a ConvexFill;
// anything else becomes a ConcaveFill with a bounding quad for the cover
// pass. On error the frame is left unchanged.
func (r *Renderer) Fill(paint *Paint, scissor *Scissor, path *Path) error {
	if paint == nil {
		return fmt.Errorf("vg: fill: %w", ErrNilPaint)
	}

	fringe := r.opts.fringeWidth
	cache := pathcache.New(pathCommands(path), r.opts.tessTol, r.opts.distTol)

	var w float32
	if paint.AntiAlias {
		w = fringe
	}
	contours := cache.ExpandFill(w, pathcache.JoinMiter, fillMiterLimit, fringe)
	convex := len(contours) == 1 && contours[0].Convex

	cmd := r.newCommand(paint)

	params, err := NewParams(r.backend, paint, scissor, fringe, fringe, -1)
	if err != nil {
		return fmt.Errorf("vg: fill: %w", err)
	}
	if convex {
		cmd.Flavor = ConvexFill{Params: params}
	} else {
		cmd.Flavor = ConcaveFill{
			FillParams: Params{
				StrokeThr:  -1,
				ShaderType: float32(ShaderSimple),
			},
			StrokeParams: params,
		}
	}

	cmd.Drawables = r.appendContours(contours)

	if !convex {
		b := cache.Bounds()
		cmd.Triangles = Span{Offset: len(r.verts), Count: 4}
		r.verts = append(r.verts,
			Vertex{X: b[2], Y: b[3], U: 0.5, V: 1},
			Vertex{X: b[2], Y: b[1], U: 0.5, V: 1},
			Vertex{X: b[0], Y: b[3], U: 0.5, V: 1},
			Vertex{X: b[0], Y: b[1], U: 0.5, V: 1},
		)
	}

	r.cmds = append(r.cmds, cmd)
	r.stats.Fills++
	return nil
}

// Stroke records a stroke of path using the width, caps, joins and miter
// limit of paint. See WithHairlineFade for strokes thinner than the fringe.
func (r *Renderer) Stroke(paint *Paint, scissor *Scissor, path *Path) error {
	if paint == nil {
		return fmt.Errorf("vg: stroke: %w", ErrNilPaint)
	}

	fringe := r.opts.fringeWidth
	width := paint.StrokeWidth
	if r.opts.hairlineFade && width < fringe {
		alpha := min(max(width/fringe, 0), 1)
		hairline := paint.Clone()
		hairline.InnerColor.A *= alpha * alpha
		hairline.OuterColor.A *= alpha * alpha
		paint = hairline
		width = fringe
	}

	cmd := r.newCommand(paint)
	if r.opts.stencilStrokes {
		pass1, err := NewParams(r.backend, paint, scissor, width, fringe, -1)
		if err != nil {
			return fmt.Errorf("vg: stroke: %w", err)
		}
		pass2, err := NewParams(r.backend, paint, scissor, width, fringe, StencilStrokeThreshold)
		if err != nil {
			return fmt.Errorf("vg: stroke: %w", err)
		}
		cmd.Flavor = StencilStroke{Pass1: pass1, Pass2: pass2}
	} else {
		params, err := NewParams(r.backend, paint, scissor, width, fringe, -1)
		if err != nil {
			return fmt.Errorf("vg: stroke: %w", err)
		}
		cmd.Flavor = Stroke{Params: params}
	}

	var aa float32
	if paint.AntiAlias {
		aa = fringe
	}
	cache := pathcache.New(pathCommands(path), r.opts.tessTol, r.opts.distTol)
	contours := cache.ExpandStroke(width*0.5, aa,
		lineCap(paint.LineCap), lineJoin(paint.LineJoin), paint.MiterLimit, r.opts.tessTol)

	cmd.Drawables = r.appendContours(contours)
	r.cmds = append(r.cmds, cmd)
	r.stats.Strokes++
	return nil
}

// Triangles records a raw triangle list textured with the paint image.
// Vertex U and V are texture coordinates.
func (r *Renderer) Triangles(paint *Paint, scissor *Scissor, verts []Vertex) error {
	if paint == nil {
		return fmt.Errorf("vg: triangles: %w", ErrNilPaint)
	}

	params, err := NewParams(r.backend, paint, scissor, 1, 1, -1)
	if err != nil {
		return fmt.Errorf("vg: triangles: %w", err)
	}
	params.ShaderType = float32(ShaderImg)

	cmd := r.newCommand(paint)
	cmd.Flavor = Triangles{Params: params}
	cmd.Triangles = Span{Offset: len(r.verts), Count: len(verts)}
	r.verts = append(r.verts, verts...)

	r.cmds = append(r.cmds, cmd)
	r.stats.Triangles++
	return nil
}

// Flush renders the recorded frame with a single Backend.Render call and
// starts a new frame. The frame is reset even when rendering fails.
func (r *Renderer) Flush() error {
	Logger().Debug("vg: flush",
		"commands", len(r.cmds),
		"vertices", len(r.verts),
		"fills", r.stats.Fills,
		"strokes", r.stats.Strokes)

	err := r.backend.Render(r.verts, r.cmds)

	r.verts = r.verts[:0]
	clear(r.cmds)
	r.cmds = r.cmds[:0]
	r.stats = Stats{}

	if err != nil {
		return fmt.Errorf("vg: flush: %w", err)
	}
	return nil
}

// CreateImage allocates a backend texture and uploads src into it. A nil
// src leaves the texture uninitialized.
func (r *Renderer) CreateImage(typ TextureType, width, height int, flags ImageFlags, src image.Image) (ImageID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("vg: create image %dx%d: %w", width, height, ErrInvalidImageSize)
	}
	id, err := r.backend.CreateImage(typ, width, height, flags)
	if err != nil {
		return 0, fmt.Errorf("vg: create image: %w", err)
	}
	if src != nil {
		if err := r.backend.UpdateImage(id, src, 0, 0); err != nil {
			_ = r.backend.DeleteImage(id)
			return 0, fmt.Errorf("vg: create image: %w", err)
		}
	}
	return id, nil
}

// UpdateImage uploads src into the texture at (x, y).
func (r *Renderer) UpdateImage(id ImageID, src image.Image, x, y int) error {
	if err := r.backend.UpdateImage(id, src, x, y); err != nil {
		return fmt.Errorf("vg: update image %d: %w", id, err)
	}
	return nil
}

// DeleteImage releases the texture.
func (r *Renderer) DeleteImage(id ImageID) error {
	if err := r.backend.DeleteImage(id); err != nil {
		return fmt.Errorf("vg: delete image %d: %w", id, err)
	}
	return nil
}

// ImageSize returns the texture dimensions.
func (r *Renderer) ImageSize(id ImageID) (width, height int, err error) {
	info, err := r.backend.ImageInfo(id)
	if err != nil {
		return 0, 0, fmt.Errorf("vg: image size %d: %w", id, err)
	}
	return info.Width, info.Height, nil
}

func (r *Renderer) newCommand(paint *Paint) Command {
	return Command{
		Image:     paint.Image,
		FillRule:  paint.FillRule,
		Composite: r.composite,
	}
}

func (r *Renderer) appendContours(contours []pathcache.Contour) []Drawable {
	drawables := make([]Drawable, 0, len(contours))
	for i := range contours {
		drawables = append(drawables, Drawable{
			Fill:   r.appendVerts(contours[i].Fill),
			Stroke: r.appendVerts(contours[i].Stroke),
		})
	}
	return drawables
}

func (r *Renderer) appendVerts(vs []pathcache.Vertex) Span {
	if len(vs) == 0 {
		return Span{}
	}
	s := Span{Offset: len(r.verts), Count: len(vs)}
	for _, v := range vs {
		r.verts = append(r.verts, Vertex(v))
	}
	return s
}

// pathCommands converts path elements into path cache commands.
func pathCommands(p *Path) []pathcache.Command {
	if p == nil {
		return nil
	}
	elems := p.Elements()
	cmds := make([]pathcache.Command, 0, len(elems))
	for _, elem := range elems {
		var c pathcache.Command
		switch e := elem.(type) {
		case MoveTo:
			c.Verb = pathcache.VerbMoveTo
			c.P[0] = cachePoint(e.Point)
		case LineTo:
			c.Verb = pathcache.VerbLineTo
			c.P[0] = cachePoint(e.Point)
		case QuadTo:
			c.Verb = pathcache.VerbQuadTo
			c.P[0] = cachePoint(e.Control)
			c.P[1] = cachePoint(e.Point)
		case CubicTo:
			c.Verb = pathcache.VerbCubicTo
			c.P[0] = cachePoint(e.Control1)
			c.P[1] = cachePoint(e.Control2)
			c.P[2] = cachePoint(e.Point)
		case Close:
			c.Verb = pathcache.VerbClose
		case Winding:
			c.Verb = pathcache.VerbWinding
			c.Winding = pathcache.CCW
			if e.Solidity == Hole {
				c.Winding = pathcache.CW
			}
		default:
			continue
		}
		cmds = append(cmds, c)
	}
	return cmds
}

func cachePoint(p Point) pathcache.Point {
	return pathcache.Point{X: p.X, Y: p.Y}
}

func lineCap(c LineCap) pathcache.Cap {
	switch c {
	case LineCapRound:
		return pathcache.CapRound
	case LineCapSquare:
		return pathcache.CapSquare
	default:
		return pathcache.CapButt
	}
}

func lineJoin(j LineJoin) pathcache.Join {
	switch j {
	case LineJoinRound:
		return pathcache.JoinRound
	case LineJoinBevel:
		return pathcache.JoinBevel
	default:
		return pathcache.JoinMiter
	}
}
