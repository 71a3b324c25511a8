package graphics

import "github.com/gogpu/gputypes"

// BlendMode selects how drawn fragments combine with the target.
type BlendMode uint8

const (
	// BlendAlpha is standard alpha blending and the default mode.
	BlendAlpha BlendMode = iota
	// BlendAdd sums source and destination.
	BlendAdd
	// BlendSubtract subtracts the source from the destination.
	BlendSubtract
	// BlendInvert writes the inverted destination where the source is
	// opaque.
	BlendInvert
	// BlendMultiply multiplies source and destination.
	BlendMultiply
	// BlendReplace writes the source unchanged.
	BlendReplace
	// BlendLighten keeps the lighter of source and destination.
	BlendLighten
	// BlendDarken keeps the darker of source and destination.
	BlendDarken

	numBlendModes
)

func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdd:
		return "add"
	case BlendSubtract:
		return "subtract"
	case BlendInvert:
		return "invert"
	case BlendMultiply:
		return "multiply"
	case BlendReplace:
		return "replace"
	case BlendLighten:
		return "lighten"
	case BlendDarken:
		return "darken"
	}
	return "unknown"
}

// blendBoth builds a blend state applying the same equation to the color
// and alpha components.
func blendBoth(src, dst gputypes.BlendFactor, op gputypes.BlendOperation) gputypes.BlendState {
	c := gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: op}
	return gputypes.BlendState{Color: c, Alpha: c}
}

// blendState returns the fixed-function blend equations of the mode.
func (m BlendMode) blendState() gputypes.BlendState {
	switch m {
	case BlendAdd:
		return blendBoth(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationAdd)
	case BlendSubtract:
		return blendBoth(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationReverseSubtract)
	case BlendInvert:
		return blendBoth(gputypes.BlendFactorOneMinusDst, gputypes.BlendFactorZero, gputypes.BlendOperationAdd)
	case BlendMultiply:
		return blendBoth(gputypes.BlendFactorDst, gputypes.BlendFactorZero, gputypes.BlendOperationAdd)
	case BlendReplace:
		return blendBoth(gputypes.BlendFactorOne, gputypes.BlendFactorZero, gputypes.BlendOperationAdd)
	case BlendLighten:
		return blendBoth(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationMax)
	case BlendDarken:
		return blendBoth(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationMin)
	}
	// Straight alpha. The alpha component keeps the destination coverage
	// accumulating so canvases composite correctly when drawn later.
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}
