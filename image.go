package vg

// ImageID is an opaque backend texture handle. The zero value means
// "no image".
type ImageID uint32

// ImageFlags control texture sampling and storage orientation.
type ImageFlags uint32

const (
	// ImageGenerateMipmaps requests mipmaps for the texture.
	ImageGenerateMipmaps ImageFlags = 1 << iota
	// ImageRepeatX repeats the image horizontally.
	ImageRepeatX
	// ImageRepeatY repeats the image vertically.
	ImageRepeatY
	// ImageFlipY marks images stored bottom-up (render targets).
	ImageFlipY
	// ImagePremultiplied marks RGBA data that is already alpha-premultiplied.
	ImagePremultiplied
	// ImageNearest selects nearest-neighbour sampling.
	ImageNearest
)

// Has reports whether all bits of f2 are set.
func (f ImageFlags) Has(f2 ImageFlags) bool { return f&f2 == f2 }

// TextureType is the pixel layout of a backend texture.
type TextureType uint8

const (
	// TextureRGBA stores four 8-bit channels.
	TextureRGBA TextureType = iota + 1
	// TextureAlpha stores a single 8-bit coverage channel.
	TextureAlpha
)

// String returns the texture type name.
func (t TextureType) String() string {
	switch t {
	case TextureRGBA:
		return "rgba"
	case TextureAlpha:
		return "alpha"
	default:
		return "unknown"
	}
}

// ImageInfo is the metadata a backend reports for a texture.
type ImageInfo struct {
	Width, Height int
	Type          TextureType
	Flags         ImageFlags
}
