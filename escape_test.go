// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"errors"
	"testing"
)

func TestEscapeTime(t *testing.T) {
	tests := []struct {
		name  string
		c     complex128
		limit int
		want  int
	}{
		{"far outside", complex(2, 2), 255, 1},
		{"real 1", complex(1, 0), 255, 2},
		{"real 2", complex(2, 0), 255, 1},
		{"origin", 0, 255, 255},
		{"period two", complex(-1, 0), 100, 100},
		{"cardioid", complex(-0.1, 0.1), 1000, 1000},
		{"limit 1", complex(2, 2), 1, 1},
		{"limit 0 treated as 1", complex(2, 2), 0, 1},
		{"negative limit", 0, -5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeTime(tt.c, tt.limit); got != tt.want {
				t.Errorf("EscapeTime(%v, %d) = %d, want %d", tt.c, tt.limit, got, tt.want)
			}
		})
	}
}

func TestEscapeTimeFarPointEscapesFast(t *testing.T) {
	if got := EscapeTime(complex(2, 2), 255); got >= 5 {
		t.Errorf("EscapeTime(2+2i) = %d, want < 5", got)
	}
}

func TestEscapeTimeOriginSentinel(t *testing.T) {
	for _, limit := range []int{1, 2, 16, 255, 256, 4096} {
		if got := EscapeTime(0, limit); got != limit {
			t.Errorf("EscapeTime(0, %d) = %d, want sentinel %d", limit, got, limit)
		}
		if Escaped(limit, limit) {
			t.Errorf("Escaped(%d, %d) = true for the sentinel", limit, limit)
		}
	}
}

func TestEscapeTimeDeterministic(t *testing.T) {
	s := NewSettings(SeahorseValley, Resolution{Width: 32, Height: 32})
	for py := range 32 {
		for px := range 32 {
			c := s.PointAt(px, py)
			if a, b := EscapeTime(c, 512), EscapeTime(c, 512); a != b {
				t.Fatalf("EscapeTime(%v) not deterministic: %d vs %d", c, a, b)
			}
		}
	}
}

// Raising the limit never changes an escape index that was already found.
func TestEscapeTimeMonotonicInLimit(t *testing.T) {
	c := complex(-0.75, 0.1)
	lo := EscapeTime(c, 64)
	hi := EscapeTime(c, 1024)
	if lo < 64 && lo != hi {
		t.Errorf("escape index changed with limit: %d vs %d", lo, hi)
	}
	if hi < lo {
		t.Errorf("EscapeTime with higher limit = %d, below %d", hi, lo)
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		count, limit int
		want         float64
	}{
		{0, 256, 0},
		{255, 256, 1},
		{256, 256, 0},
		{1, 3, 0.5},
		{0, 1, 1},
		{1, 1, 0},
		{-1, 10, 0},
	}
	for _, tt := range tests {
		if got := Intensity(tt.count, tt.limit); got != tt.want {
			t.Errorf("Intensity(%d, %d) = %v, want %v", tt.count, tt.limit, got, tt.want)
		}
	}
}

func TestIntensityRange(t *testing.T) {
	for _, limit := range []int{1, 2, 7, 255, 1000} {
		for count := 0; count <= limit; count++ {
			v := Intensity(count, limit)
			if v < 0 || v > 1 {
				t.Fatalf("Intensity(%d, %d) = %v outside [0, 1]", count, limit, v)
			}
		}
	}
}

func TestGray(t *testing.T) {
	tests := []struct {
		count, limit int
		want         uint8
	}{
		{0, 256, 0},
		{255, 256, 255},
		{256, 256, 0},
		{1, 3, 128},
		{127, 255, 128},
	}
	for _, tt := range tests {
		if got := Gray(tt.count, tt.limit); got != tt.want {
			t.Errorf("Gray(%d, %d) = %d, want %d", tt.count, tt.limit, got, tt.want)
		}
	}
}

func TestGrayAtMatchesPipeline(t *testing.T) {
	s := NewSettings(ReferenceViewport, Resolution{Width: 64, Height: 48})
	for _, p := range [][2]int{{0, 0}, {31, 17}, {63, 47}} {
		want := Gray(EscapeTime(PixelToPoint(p[0], p[1], s), 255), 255)
		if got := GrayAt(p[0], p[1], s, 255); got != want {
			t.Errorf("GrayAt(%d, %d) = %d, want %d", p[0], p[1], got, want)
		}
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit(1); err != nil {
		t.Errorf("ValidateLimit(1) = %v", err)
	}
	for _, l := range []int{0, -1} {
		if err := ValidateLimit(l); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("ValidateLimit(%d) = %v, want ErrInvalidLimit", l, err)
		}
	}
}
