// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/mandelbrot/viewer"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// referenceHeight is the imaginary extent of the default view; the zoom
// shown in the status line is relative to it.
const referenceHeight = 2.3

// Overlay draws a one-line status bar in the top-left corner of a frame.
type Overlay struct {
	face       font.Face
	printer    *message.Printer
	margin     int
	foreground image.Image
	background image.Image
}

// NewOverlay returns an overlay using the built-in 7x13 bitmap face.
func NewOverlay() *Overlay {
	return &Overlay{
		face:       basicfont.Face7x13,
		printer:    message.NewPrinter(language.English),
		margin:     4,
		foreground: image.NewUniform(color.RGBA{R: 0xff, G: 0xd8, B: 0x40, A: 0xff}),
		background: image.NewUniform(color.RGBA{A: 0xb0}),
	}
}

// Text returns the status line for f.
func (o *Overlay) Text(f viewer.Frame) string {
	zoom := 0.0
	if f.Settings.RegionHeight > 0 {
		zoom = referenceHeight / f.Settings.RegionHeight
	}
	return o.printer.Sprintf("%s | %s | %d iter | %s | zoom %.1fx",
		f.Backend, f.Settings.Resolution, f.Limit, viewer.FormatDuration(f.Elapsed), zoom)
}

// Bounds returns the rectangle Draw covers for text.
func (o *Overlay) Bounds(text string) image.Rectangle {
	m := o.face.Metrics()
	w := font.MeasureString(o.face, text).Ceil()
	h := (m.Ascent + m.Descent).Ceil()
	return image.Rect(0, 0, w+2*o.margin, h+2*o.margin)
}

// Draw stamps the status line for f onto dst. The line is clipped to dst.
func (o *Overlay) Draw(dst draw.Image, f viewer.Frame) {
	text := o.Text(f)
	box := o.Bounds(text).Add(dst.Bounds().Min).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	draw.Draw(dst, box, o.background, image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  o.foreground,
		Face: o.face,
		Dot:  fixed.P(box.Min.X+o.margin, box.Min.Y+o.margin+o.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
