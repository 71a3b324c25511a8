package graphics

import (
	_ "embed"

	"github.com/gogpu/naga"
	"github.com/pkg/errors"
)

//go:embed shaders/sprite.wgsl
var spriteWGSL string

//go:embed shaders/plain.wgsl
var plainWGSL string

// Variant identifies a shader program variant. All variants share the same
// bind group layout (globals uniform, color texture, sampler) and differ in
// vertex inputs and tinting.
type Variant uint8

const (
	// VariantInstanced renders instanced sprite quads. Source rectangle,
	// transform and color come from a per-instance buffer.
	VariantInstanced Variant = iota

	// VariantPlain renders caller supplied vertices, the sampled texel
	// modulated by the vertex color.
	VariantPlain

	// VariantPlainUntinted renders caller supplied vertices with the
	// sampled texel written unchanged.
	VariantPlainUntinted

	numVariants
)

func (v Variant) String() string {
	switch v {
	case VariantInstanced:
		return "instanced"
	case VariantPlain:
		return "plain"
	case VariantPlainUntinted:
		return "plain-untinted"
	}
	return "unknown"
}

// source returns the WGSL source of the variant.
func (v Variant) source() string {
	if v == VariantInstanced {
		return spriteWGSL
	}
	return plainWGSL
}

// entryPoints returns the vertex and fragment entry point names of the
// variant. The untinted variant shares the plain vertex stage and selects
// the fragment stage that ignores the vertex color.
func (v Variant) entryPoints() (vs, fs string) {
	if v == VariantPlainUntinted {
		return "vs_main", "fs_untinted"
	}
	return "vs_main", "fs_main"
}

// Shaders returns the embedded WGSL shader sources keyed by file name.
func Shaders() map[string]string {
	return map[string]string{
		"sprite.wgsl": spriteWGSL,
		"plain.wgsl":  plainWGSL,
	}
}

// compileShader compiles WGSL source to SPIR-V words.
func compileShader(name, source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %s", name)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// ValidateShaders compiles every embedded shader source and returns the
// first compilation error. NewContext runs this before creating any GPU
// state so that shader errors surface at startup rather than mid-frame.
func ValidateShaders() error {
	for name, source := range Shaders() {
		if _, err := compileShader(name, source); err != nil {
			return err
		}
	}
	return nil
}
