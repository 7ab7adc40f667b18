// Command vgdemo renders a demo scene with the software backend and writes
// it as a PNG.
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend/software"
	"github.com/gogpu/vg/text"
)

func main() {
	var (
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		dpi     = flag.Float64("dpi", 1, "device pixel ratio")
		output  = flag.String("output", "demo.png", "output file")
		verbose = flag.Bool("v", false, "log renderer activity")
	)
	flag.Parse()

	if *verbose {
		vg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	b := software.New(software.WithSize(*width, *height), software.WithDPI(float32(*dpi)))
	r := vg.New(b)

	if err := b.ClearRect(0, 0, b.Image().Bounds().Dx(), b.Image().Bounds().Dy(), vg.RGB(0.12, 0.13, 0.16)); err != nil {
		log.Fatalf("Failed to clear: %v", err)
	}

	w, h := float32(*width), float32(*height)
	steps := []func(*vg.Renderer, float32, float32) error{
		drawBackground,
		drawShapes,
		drawStrokes,
		drawStar,
		drawPattern,
		drawBadge,
		drawText,
	}
	for _, step := range steps {
		if err := step(r, w, h); err != nil {
			log.Fatalf("Failed to draw: %v", err)
		}
	}
	if err := r.Flush(); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := savePNG(*output, b.Image()); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, b.Image().Bounds().Dx(), b.Image().Bounds().Dy())
}

func drawBackground(r *vg.Renderer, w, h float32) error {
	p := vg.NewPath()
	p.Rect(0, 0, w, h)
	paint := vg.LinearGradient(0, 0, 0, h, vg.RGB(0.1, 0.2, 0.4), vg.RGB(0.5, 0.5, 0.6))
	return r.Fill(paint, vg.NoScissor(), p)
}

func drawShapes(r *vg.Renderer, _, _ float32) error {
	circles := []struct {
		x, y float32
		c    vg.Color
	}{
		{150, 150, vg.RGBA(1, 0.3, 0.3, 0.8)},
		{200, 150, vg.RGBA(0.3, 1, 0.3, 0.8)},
		{175, 200, vg.RGBA(0.3, 0.3, 1, 0.8)},
	}
	for _, c := range circles {
		p := vg.NewPath()
		p.Circle(c.x, c.y, 60)
		if err := r.Fill(vg.NewColorPaint(c.c), vg.NoScissor(), p); err != nil {
			return err
		}
	}

	shadow := vg.NewPath()
	shadow.Rect(330, 90, 170, 130)
	paint := vg.BoxGradient(350, 106, 120, 80, 15, 14, vg.RGBA(0, 0, 0, 0.6), vg.Transparent)
	if err := r.Fill(paint, vg.NoScissor(), shadow); err != nil {
		return err
	}

	box := vg.NewPath()
	box.RoundedRect(350, 100, 120, 80, 15)
	return r.Fill(vg.RadialGradient(410, 140, 5, 70, vg.RGB(1, 0.9, 0.3), vg.RGB(1, 0.5, 0)), vg.NoScissor(), box)
}

func drawStrokes(r *vg.Renderer, _, _ float32) error {
	wave := vg.NewPath()
	wave.MoveTo(150, 400)
	wave.CubicTo(200, 350, 250, 450, 300, 400)
	wave.CubicTo(350, 370, 400, 430, 450, 400)

	joins := []vg.LineJoin{vg.LineJoinMiter, vg.LineJoinRound, vg.LineJoinBevel}
	caps := []vg.LineCap{vg.LineCapButt, vg.LineCapRound, vg.LineCapSquare}
	for i := range joins {
		paint := vg.NewColorPaint(vg.HSLA(float32(i)/3, 0.8, 0.6, 1))
		paint.StrokeWidth = 6
		paint.LineJoin = joins[i]
		paint.LineCap = caps[i]
		if err := r.Stroke(paint, vg.NoScissor(), wave.Transform(vg.Translate(0, float32(i)*40))); err != nil {
			return err
		}
	}

	hair := vg.NewColorPaint(vg.White)
	hair.StrokeWidth = 0.5
	frame := vg.NewPath()
	frame.Rect(340, 90, 140, 100)
	return r.Stroke(hair, vg.NoScissor(), frame)
}

func drawStar(r *vg.Renderer, _, _ float32) error {
	const (
		cx, cy         = 600, 420
		outerR, innerR = 60, 25
		points         = 5
	)
	p := vg.NewPath()
	for i := 0; i < points*2; i++ {
		rad := float64(outerR)
		if i%2 == 1 {
			rad = innerR
		}
		a := float64(i)*math.Pi/points - math.Pi/2
		x, y := float32(cx+rad*math.Cos(a)), float32(cy+rad*math.Sin(a))
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()

	paint := vg.NewColorPaint(vg.RGB(1, 1, 0))
	paint.FillRule = vg.FillRuleEvenOdd
	clip := vg.NewScissor(cx-70, cy-70, 140, 110, vg.Identity())
	return r.Fill(paint, clip, p)
}

func drawPattern(r *vg.Renderer, _, _ float32) error {
	checker := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if (x/4+y/4)%2 == 0 {
				checker.SetNRGBA(x, y, vg.RGB(0.9, 0.9, 0.9).NRGBA())
			} else {
				checker.SetNRGBA(x, y, vg.RGB(0.3, 0.3, 0.3).NRGBA())
			}
		}
	}
	id, err := r.CreateImage(vg.TextureRGBA, 8, 8, vg.ImageRepeatX|vg.ImageRepeatY|vg.ImageNearest, checker)
	if err != nil {
		return err
	}

	p := vg.NewPath()
	p.RoundedRect(560, 90, 160, 120, 12)
	return r.Fill(vg.ImagePattern(560, 90, 16, 16, 0.3, id, 0.9), vg.NoScissor(), p)
}

// drawBadge renders a target glyph into an offscreen image and tiles it.
func drawBadge(r *vg.Renderer, _, _ float32) error {
	id, err := r.CreateImage(vg.TextureRGBA, 32, 32, vg.ImageRepeatX|vg.ImageRepeatY, nil)
	if err != nil {
		return err
	}
	if err := r.SetTarget(vg.ImageTarget(id)); err != nil {
		return err
	}

	ring := vg.NewPath()
	ring.Circle(16, 16, 14)
	ring.Circle(16, 16, 7)
	ring.SetSolidity(vg.Hole)
	if err := r.Fill(vg.NewColorPaint(vg.RGB(0.95, 0.6, 0.2)), vg.NoScissor(), ring); err != nil {
		return err
	}
	dot := vg.NewPath()
	dot.Circle(16, 16, 3)
	if err := r.Fill(vg.NewColorPaint(vg.White), vg.NoScissor(), dot); err != nil {
		return err
	}
	if err := r.SetTarget(vg.Screen); err != nil {
		return err
	}

	p := vg.NewPath()
	p.RoundedRect(560, 240, 160, 96, 12)
	return r.Fill(vg.ImagePattern(560, 240, 32, 32, 0, id, 1), vg.NoScissor(), p)
}

func drawText(r *vg.Renderer, _, h float32) error {
	f, err := text.GoRegular()
	if err != nil {
		return err
	}
	_, err = text.FillText(r, f, 32, 40, h-40, "vg: GPU vector graphics", vg.NewColorPaint(vg.White), vg.NoScissor())
	return err
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
