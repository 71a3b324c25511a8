package graphics

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestBlendModeString(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want string
	}{
		{BlendAlpha, "alpha"},
		{BlendAdd, "add"},
		{BlendSubtract, "subtract"},
		{BlendInvert, "invert"},
		{BlendMultiply, "multiply"},
		{BlendReplace, "replace"},
		{BlendLighten, "lighten"},
		{BlendDarken, "darken"},
		{numBlendModes, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("BlendMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestBlendState(t *testing.T) {
	comp := func(src, dst gputypes.BlendFactor, op gputypes.BlendOperation) gputypes.BlendComponent {
		return gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: op}
	}
	tests := []struct {
		mode  BlendMode
		color gputypes.BlendComponent
		alpha gputypes.BlendComponent
	}{
		{
			BlendAlpha,
			comp(gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha, gputypes.BlendOperationAdd),
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha, gputypes.BlendOperationAdd),
		},
		{
			BlendAdd,
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationAdd),
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationAdd),
		},
		{
			BlendSubtract,
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationReverseSubtract),
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationReverseSubtract),
		},
		{
			BlendInvert,
			comp(gputypes.BlendFactorOneMinusDst, gputypes.BlendFactorZero, gputypes.BlendOperationAdd),
			comp(gputypes.BlendFactorOneMinusDst, gputypes.BlendFactorZero, gputypes.BlendOperationAdd),
		},
		{
			BlendMultiply,
			comp(gputypes.BlendFactorDst, gputypes.BlendFactorZero, gputypes.BlendOperationAdd),
			comp(gputypes.BlendFactorDst, gputypes.BlendFactorZero, gputypes.BlendOperationAdd),
		},
		{
			BlendReplace,
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorZero, gputypes.BlendOperationAdd),
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorZero, gputypes.BlendOperationAdd),
		},
		{
			BlendLighten,
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationMax),
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationMax),
		},
		{
			BlendDarken,
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationMin),
			comp(gputypes.BlendFactorOne, gputypes.BlendFactorOne, gputypes.BlendOperationMin),
		},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			s := tt.mode.blendState()
			if s.Color != tt.color {
				t.Errorf("color component = %+v, want %+v", s.Color, tt.color)
			}
			if s.Alpha != tt.alpha {
				t.Errorf("alpha component = %+v, want %+v", s.Alpha, tt.alpha)
			}
		})
	}
}
