package vg

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"f008", color.NRGBA{255, 0, 0, 136}},
		{"#336699", color.NRGBA{0x33, 0x66, 0x99, 255}},
		{"33669980", color.NRGBA{0x33, 0x66, 0x99, 0x80}},
		{"nope", color.NRGBA{0, 0, 0, 255}},
		{"#12g", color.NRGBA{0, 0, 0, 255}},
		{"ff00zz", color.NRGBA{0, 0, 0, 255}},
		{"", color.NRGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in).NRGBA(); got != tt.want {
				t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorPremultiply(t *testing.T) {
	got := RGBA(1, 0.5, 0.25, 0.5).Premultiply()
	want := Color{R: 0.5, G: 0.25, B: 0.125, A: 0.5}
	if got != want {
		t.Errorf("Premultiply() = %+v, want %+v", got, want)
	}
}

func TestFromColorRoundtrip(t *testing.T) {
	in := color.NRGBA{R: 10, G: 200, B: 30, A: 128}
	if got := FromColor(in).NRGBA(); got != in {
		t.Errorf("roundtrip = %v, want %v", got, in)
	}
}

func TestHSLA(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float32
		want    color.NRGBA
	}{
		{"red", 0, 1, 0.5, color.NRGBA{255, 0, 0, 255}},
		{"green", 1.0 / 3, 1, 0.5, color.NRGBA{0, 255, 0, 255}},
		{"gray", 0.7, 0, 0.5, color.NRGBA{128, 128, 128, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSLA(tt.h, tt.s, tt.l, 1).NRGBA(); got != tt.want {
				t.Errorf("HSLA = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorLerpClamps(t *testing.T) {
	if got := Black.Lerp(White, 2); got != White {
		t.Errorf("Lerp(2) = %+v, want white", got)
	}
}
