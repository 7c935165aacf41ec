//go:build !nogpu

package gpu

import (
	"encoding/binary"

	"github.com/gogpu/mandelbrot"
)

// paramsSize is the size of the Params uniform in mandelbrot.wgsl:
// the 24-byte settings block, the iteration limit and one pad word.
const paramsSize = mandelbrot.SettingsSize + 8

// packParams builds the uniform block for one frame.
func packParams(s mandelbrot.Settings, limit int) []byte {
	b := make([]byte, 0, paramsSize)
	b, _ = s.AppendBinary(b)
	b = binary.LittleEndian.AppendUint32(b, uint32(max(limit, 1))) //nolint:gosec // limit validated by the renderer
	b = binary.LittleEndian.AppendUint32(b, 0)
	return b
}

// unpackLevels copies one u32 level per pixel into a strided gray grid.
func unpackLevels(src []byte, dst mandelbrot.IntensityTarget) {
	for y := range dst.Height {
		row := dst.Pix[y*dst.Stride:]
		base := y * dst.Width * 4
		for x := range dst.Width {
			row[x] = uint8(binary.LittleEndian.Uint32(src[base+x*4:])) //nolint:gosec // shader writes 0..255
		}
	}
}
