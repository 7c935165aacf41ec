// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package mandelbrot

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
)

func TestNewSettings(t *testing.T) {
	r := Resolution{Width: 1024, Height: 768}
	s := NewSettings(ReferenceViewport, r)
	if s.Corner != ReferenceViewport.Corner || s.RegionWidth != 0.2 || s.RegionHeight != 0.15 {
		t.Errorf("NewSettings() = %+v", s)
	}
	if s.Resolution != r {
		t.Errorf("Resolution = %v, want %v", s.Resolution, r)
	}
	if s.Viewport() != ReferenceViewport {
		t.Errorf("Viewport() = %+v, want %+v", s.Viewport(), ReferenceViewport)
	}
}

func TestSettingsMarshalBinaryLayout(t *testing.T) {
	s := NewSettings(ReferenceViewport, Resolution{Width: 1024, Height: 768})
	b, err := s.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() = %v", err)
	}
	if len(b) != SettingsSize {
		t.Fatalf("len = %d, want %d", len(b), SettingsSize)
	}

	want := []float64{-1.2, 0.35, 0.2, 0.15, 1024, 768}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != float32(w) {
			t.Errorf("field %d = %v, want %v", i, got, w)
		}
	}
}

func TestSettingsAppendBinary(t *testing.T) {
	s := NewSettings(DefaultViewport, Resolution{Width: 2, Height: 2})
	prefix := []byte{0xAA, 0xBB}
	b, err := s.AppendBinary(prefix)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != len(prefix)+SettingsSize {
		t.Errorf("len = %d, want %d", len(b), len(prefix)+SettingsSize)
	}
	if b[0] != 0xAA || b[1] != 0xBB {
		t.Error("AppendBinary() clobbered the prefix")
	}
}

func TestSettingsString(t *testing.T) {
	s := NewSettings(ReferenceViewport, Resolution{Width: 1024, Height: 768})
	if got := s.String(); !strings.Contains(got, "res=1024x768") {
		t.Errorf("String() = %q", got)
	}
}
