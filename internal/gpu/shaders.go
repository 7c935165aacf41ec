//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/mandelbrot.wgsl
var mandelbrotShaderWGSL string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// compileShader translates the escape-time shader from WGSL to SPIR-V words.
func compileShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(mandelbrotShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("compile mandelbrot shader: %w", err)
	}
	if len(spirvBytes) == 0 || len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile mandelbrot shader: invalid SPIR-V length %d", len(spirvBytes))
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("compile mandelbrot shader: bad magic %#x", words[0])
	}
	return words, nil
}
