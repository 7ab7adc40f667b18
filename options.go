package vg

// Option configures a Renderer during creation.
//
// Example:
//
//	r := vg.New(backend, vg.WithFringeWidth(0.5), vg.WithStencilStrokes(false))
type Option func(*options)

// options holds optional configuration for a Renderer.
type options struct {
	fringeWidth    float32
	tessTol        float32
	distTol        float32
	stencilStrokes bool
	hairlineFade   bool
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		fringeWidth:    1.0,
		tessTol:        0.25,
		distTol:        0.01,
		stencilStrokes: true,
	}
}

// WithFringeWidth sets the antialiasing fringe width in pixels.
// Non-positive values are ignored.
func WithFringeWidth(w float32) Option {
	return func(o *options) {
		if w > 0 {
			o.fringeWidth = w
		}
	}
}

// WithStencilStrokes selects the two-pass StencilStroke flavor (the default)
// or single-pass Stroke commands.
func WithStencilStrokes(enabled bool) Option {
	return func(o *options) {
		o.stencilStrokes = enabled
	}
}

// WithTessTolerance sets the curve flattening tolerance in pixels.
func WithTessTolerance(tol float32) Option {
	return func(o *options) {
		if tol > 0 {
			o.tessTol = tol
		}
	}
}

// WithDistTolerance sets the distance under which consecutive points merge.
func WithDistTolerance(tol float32) Option {
	return func(o *options) {
		if tol > 0 {
			o.distTol = tol
		}
	}
}

// WithHairlineFade draws strokes thinner than the fringe at fringe width
// with alpha scaled by (width/fringe)^2. Off by default, in which case thin
// strokes are expanded at their own width and rely on StrokeMult.
func WithHairlineFade(enabled bool) Option {
	return func(o *options) {
		o.hairlineFade = enabled
	}
}
