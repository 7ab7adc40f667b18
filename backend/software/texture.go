package software

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/vg"
)

// texture is a CPU-side image. RGBA textures keep four bytes per texel,
// premultiplied or straight as declared by ImagePremultiplied; alpha
// textures keep one.
type texture struct {
	info vg.ImageInfo
	pix  []uint8
	// stencil is allocated once the texture becomes a render target.
	stencil []uint8
}

// CreateImage allocates a zeroed texture.
func (b *Backend) CreateImage(typ vg.TextureType, width, height int, flags vg.ImageFlags) (vg.ImageID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("software: create image %dx%d: %w", width, height, vg.ErrInvalidImageSize)
	}

	bpp := 4
	switch typ {
	case vg.TextureRGBA:
	case vg.TextureAlpha:
		bpp = 1
	default:
		return 0, fmt.Errorf("software: create image: %w: %v", ErrUnsupportedTexture, typ)
	}

	b.nextID++
	b.textures[b.nextID] = &texture{
		info: vg.ImageInfo{Width: width, Height: height, Type: typ, Flags: flags},
		pix:  make([]uint8, width*height*bpp),
	}
	return b.nextID, nil
}

// UpdateImage copies src into the texture with its top-left at (x, y).
// Pixels are converted to the texture's storage format.
func (b *Backend) UpdateImage(id vg.ImageID, src image.Image, x, y int) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("software: update image %d: %w", id, vg.ErrImageNotFound)
	}

	sr := src.Bounds()
	dr := image.Rect(x, y, x+sr.Dx(), y+sr.Dy())
	if !dr.In(t.bounds()) {
		return fmt.Errorf("software: update image %d at %v: %w", id, dr, ErrOutOfBounds)
	}

	draw.Copy(t.image(), dr.Min, src, sr, draw.Src, nil)
	return nil
}

// DeleteImage releases the texture.
func (b *Backend) DeleteImage(id vg.ImageID) error {
	if _, ok := b.textures[id]; !ok {
		return fmt.Errorf("software: delete image %d: %w", id, vg.ErrImageNotFound)
	}
	delete(b.textures, id)
	if id == b.targetImage {
		b.useScreen()
	}
	return nil
}

// ImageInfo returns texture metadata.
func (b *Backend) ImageInfo(id vg.ImageID) (vg.ImageInfo, error) {
	t, ok := b.textures[id]
	if !ok {
		return vg.ImageInfo{}, fmt.Errorf("software: image %d: %w", id, vg.ErrImageNotFound)
	}
	return t.info, nil
}

func (t *texture) bounds() image.Rectangle {
	return image.Rect(0, 0, t.info.Width, t.info.Height)
}

// image wraps the texel storage in the matching image type so that
// draw.Copy converts pixels on upload.
func (t *texture) image() draw.Image {
	w := t.info.Width
	switch {
	case t.info.Type == vg.TextureAlpha:
		return &image.Alpha{Pix: t.pix, Stride: w, Rect: t.bounds()}
	case t.info.Flags.Has(vg.ImagePremultiplied):
		return &image.RGBA{Pix: t.pix, Stride: w * 4, Rect: t.bounds()}
	default:
		return &image.NRGBA{Pix: t.pix, Stride: w * 4, Rect: t.bounds()}
	}
}

// sample reads the texture at normalized coordinates. Alpha textures
// return their value in the red channel, like a single-channel GPU texture.
func (t *texture) sample(u, v float32) rgba {
	w, h := t.info.Width, t.info.Height
	fx := float64(u) * float64(w)
	fy := float64(v) * float64(h)

	if t.info.Flags.Has(vg.ImageNearest) {
		return t.fetch(int(math.Floor(fx)), int(math.Floor(fy)))
	}

	fx -= 0.5
	fy -= 0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := float32(fx-x0), float32(fy-y0)
	ix, iy := int(x0), int(y0)

	top := mix(t.fetch(ix, iy), t.fetch(ix+1, iy), tx)
	bottom := mix(t.fetch(ix, iy+1), t.fetch(ix+1, iy+1), tx)
	return mix(top, bottom, ty)
}

func (t *texture) fetch(x, y int) rgba {
	w, h := t.info.Width, t.info.Height
	x = wrap(x, w, t.info.Flags.Has(vg.ImageRepeatX))
	y = wrap(y, h, t.info.Flags.Has(vg.ImageRepeatY))

	if t.info.Type == vg.TextureAlpha {
		return rgba{float32(t.pix[y*w+x]) / 255, 0, 0, 1}
	}
	i := (y*w + x) * 4
	p := t.pix[i : i+4 : i+4]
	return rgba{
		float32(p[0]) / 255,
		float32(p[1]) / 255,
		float32(p[2]) / 255,
		float32(p[3]) / 255,
	}
}

func wrap(i, n int, repeat bool) int {
	if repeat {
		return ((i % n) + n) % n
	}
	return min(max(i, 0), n-1)
}
