// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pathcache

import (
	"math"
	"testing"
)

func rect(x, y, w, h float32) []Command {
	return []Command{
		{Verb: VerbMoveTo, P: [3]Point{{x, y}}},
		{Verb: VerbLineTo, P: [3]Point{{x, y + h}}},
		{Verb: VerbLineTo, P: [3]Point{{x + w, y + h}}},
		{Verb: VerbLineTo, P: [3]Point{{x + w, y}}},
		{Verb: VerbClose},
	}
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestFlattenRect(t *testing.T) {
	c := New(rect(0, 0, 10, 20), 0.25, 0.01)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if got := c.paths[0].count; got != 4 {
		t.Errorf("point count = %d, want 4", got)
	}
	if !c.paths[0].closed {
		t.Error("rect should be closed")
	}
	want := [4]float32{0, 0, 10, 20}
	if c.Bounds() != want {
		t.Errorf("Bounds() = %v, want %v", c.Bounds(), want)
	}
}

func TestFlattenMergesClosePoints(t *testing.T) {
	cmds := []Command{
		{Verb: VerbMoveTo, P: [3]Point{{0, 0}}},
		{Verb: VerbLineTo, P: [3]Point{{10, 0}}},
		{Verb: VerbLineTo, P: [3]Point{{10.001, 0}}},
		{Verb: VerbLineTo, P: [3]Point{{10, 10}}},
		{Verb: VerbLineTo, P: [3]Point{{0, 0.001}}},
	}
	c := New(cmds, 0.25, 0.01)

	// the near duplicate is merged and the closing duplicate dropped
	if got := c.paths[0].count; got != 3 {
		t.Errorf("point count = %d, want 3", got)
	}
	if !c.paths[0].closed {
		t.Error("path ending on its start should be closed")
	}
}

func TestFlattenEmpty(t *testing.T) {
	c := New(nil, 0.25, 0.01)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if c.Bounds() != [4]float32{} {
		t.Errorf("Bounds() = %v, want zero", c.Bounds())
	}
	if got := c.ExpandFill(1, JoinMiter, 2.4, 1); len(got) != 0 {
		t.Errorf("ExpandFill produced %d contours", len(got))
	}
}

func TestFlattenCurveWithinBounds(t *testing.T) {
	cmds := []Command{
		{Verb: VerbMoveTo, P: [3]Point{{0, 0}}},
		{Verb: VerbQuadTo, P: [3]Point{{50, 100}, {100, 0}}},
		{Verb: VerbCubicTo, P: [3]Point{{60, -50}, {40, -50}, {0, 0}}},
	}
	c := New(cmds, 0.25, 0.01)

	if c.paths[0].count < 8 {
		t.Errorf("curves flattened to %d points, want more", c.paths[0].count)
	}
	b := c.Bounds()
	if b[0] < -1e-3 || b[2] > 100+1e-3 || b[3] > 50+1e-3 || b[1] < -37.5-1e-3 {
		t.Errorf("Bounds() = %v outside curve hull", b)
	}
}

func TestCurveWithoutStartIgnored(t *testing.T) {
	cmds := []Command{
		{Verb: VerbCubicTo, P: [3]Point{{1, 1}, {2, 2}, {3, 3}}},
	}
	c := New(cmds, 0.25, 0.01)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestConvexity(t *testing.T) {
	tests := []struct {
		name string
		cmds []Command
		want bool
	}{
		{"rect", rect(0, 0, 10, 10), true},
		{"reversed rect", []Command{
			{Verb: VerbMoveTo, P: [3]Point{{0, 0}}},
			{Verb: VerbLineTo, P: [3]Point{{10, 0}}},
			{Verb: VerbLineTo, P: [3]Point{{10, 10}}},
			{Verb: VerbLineTo, P: [3]Point{{0, 10}}},
			{Verb: VerbClose},
		}, true},
		{"hole", append(rect(0, 0, 10, 10), Command{Verb: VerbWinding, Winding: CW}), false},
		{"arrow", []Command{
			{Verb: VerbMoveTo, P: [3]Point{{0, 0}}},
			{Verb: VerbLineTo, P: [3]Point{{10, 5}}},
			{Verb: VerbLineTo, P: [3]Point{{0, 10}}},
			{Verb: VerbLineTo, P: [3]Point{{3, 5}}},
			{Verb: VerbClose},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.cmds, 0.25, 0.01)
			got := c.ExpandFill(0, JoinMiter, 2.4, 1)
			if len(got) != 1 {
				t.Fatalf("contours = %d, want 1", len(got))
			}
			if got[0].Convex != tt.want {
				t.Errorf("Convex = %v, want %v", got[0].Convex, tt.want)
			}
		})
	}
}

func TestWindingEnforced(t *testing.T) {
	solid := New(rect(0, 0, 10, 10), 0.25, 0.01)
	if a := polyArea(solid.points); a <= 0 {
		t.Errorf("solid area = %v, want > 0", a)
	}

	hole := New(append(rect(0, 0, 10, 10), Command{Verb: VerbWinding, Winding: CW}), 0.25, 0.01)
	if a := polyArea(hole.points); a >= 0 {
		t.Errorf("hole area = %v, want < 0", a)
	}
}
