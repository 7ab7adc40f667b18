package vg

import "testing"

func TestNewColorPaintDefaults(t *testing.T) {
	p := NewColorPaint(Red)
	if p.InnerColor != Red || p.OuterColor != Red {
		t.Errorf("colors = %v, %v; want red", p.InnerColor, p.OuterColor)
	}
	if !p.AntiAlias {
		t.Error("AntiAlias should default to true")
	}
	if p.StrokeWidth != 1 || p.MiterLimit != 10 || p.Feather != 1 {
		t.Errorf("width, miter, feather = %v, %v, %v; want 1, 10, 1", p.StrokeWidth, p.MiterLimit, p.Feather)
	}
	if !p.Transform.IsIdentity() {
		t.Errorf("Transform = %+v, want identity", p.Transform)
	}
}

func TestLinearGradient(t *testing.T) {
	p := LinearGradient(0, 0, 10, 0, Black, White)

	if p.Transform.A != 0 || p.Transform.B != 1 || p.Transform.D != -1 || p.Transform.E != 0 {
		t.Errorf("Transform = %+v, want rotation onto the x axis", p.Transform)
	}
	if p.Extent != [2]float32{1e5, 1e5 + 5} {
		t.Errorf("Extent = %v, want [1e5 1e5+5]", p.Extent)
	}
	if p.Feather != 10 {
		t.Errorf("Feather = %v, want 10", p.Feather)
	}

	degenerate := LinearGradient(5, 5, 5, 5, Black, White)
	if degenerate.Feather != 1 {
		t.Errorf("degenerate Feather = %v, want 1", degenerate.Feather)
	}
}

func TestRadialGradient(t *testing.T) {
	p := RadialGradient(5, 6, 2, 6, Black, White)
	if p.Radius != 4 || p.Feather != 4 {
		t.Errorf("radius, feather = %v, %v; want 4, 4", p.Radius, p.Feather)
	}
	if p.Transform != Translate(5, 6) {
		t.Errorf("Transform = %+v, want translate(5, 6)", p.Transform)
	}
}

func TestBoxGradientFeatherFloor(t *testing.T) {
	p := BoxGradient(0, 0, 10, 10, 2, 0, Black, White)
	if p.Feather != 1 {
		t.Errorf("Feather = %v, want 1", p.Feather)
	}
}

func TestImagePattern(t *testing.T) {
	p := ImagePattern(3, 4, 16, 8, 0, 9, 0.5)
	if p.Image != 9 {
		t.Errorf("Image = %d, want 9", p.Image)
	}
	if p.Transform.C != 3 || p.Transform.F != 4 {
		t.Errorf("origin = (%v, %v), want (3, 4)", p.Transform.C, p.Transform.F)
	}
	if p.Extent != [2]float32{16, 8} {
		t.Errorf("Extent = %v, want [16 8]", p.Extent)
	}
	if p.InnerColor.A != 0.5 {
		t.Errorf("alpha = %v, want 0.5", p.InnerColor.A)
	}
}

func TestPaintClone(t *testing.T) {
	p := NewColorPaint(Red)
	c := p.Clone()
	c.StrokeWidth = 5
	if p.StrokeWidth != 1 {
		t.Error("Clone shares state with the original")
	}
}

func TestCompositeOperationState(t *testing.T) {
	tests := []struct {
		op       CompositeOperation
		src, dst BlendFactor
	}{
		{CompositeSourceOver, BlendOne, BlendOneMinusSrcAlpha},
		{CompositeCopy, BlendOne, BlendZero},
		{CompositeDestinationOut, BlendZero, BlendOneMinusSrcAlpha},
		{CompositeXor, BlendOneMinusDstAlpha, BlendOneMinusSrcAlpha},
		{CompositeOperation(99), BlendOne, BlendOneMinusSrcAlpha},
	}
	for _, tt := range tests {
		s := NewCompositeOperationState(tt.op)
		if s.SrcRGB != tt.src || s.DstRGB != tt.dst || s.SrcAlpha != tt.src || s.DstAlpha != tt.dst {
			t.Errorf("NewCompositeOperationState(%d) = %+v, want src %d dst %d", tt.op, s, tt.src, tt.dst)
		}
	}
}
