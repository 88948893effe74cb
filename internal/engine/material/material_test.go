package material

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

func TestState(t *testing.T) {
	tests := []struct {
		name string
		mat  Material
		want State
	}{
		{
			name: "opaque front",
			mat:  Material{Side: FrontSide, DepthTest: true, DepthWrite: true},
			want: State{Cull: true, CullFace: gl.BACK, DepthTest: true, DepthMask: true},
		},
		{
			name: "skybox back side without depth",
			mat:  Material{Side: BackSide},
			want: State{Cull: true, CullFace: gl.FRONT},
		},
		{
			name: "double sided",
			mat:  Material{Side: DoubleSide, DepthTest: true, DepthWrite: true},
			want: State{DepthTest: true, DepthMask: true},
		},
		{
			name: "transparent defaults to normal blending",
			mat:  Material{Side: FrontSide, DepthTest: true, DepthWrite: true, Transparent: true},
			want: State{
				Cull: true, CullFace: gl.BACK, DepthTest: true, DepthMask: true,
				Blend: true, BlendSrc: gl.SRC_ALPHA, BlendDst: gl.ONE_MINUS_SRC_ALPHA, BlendEq: gl.FUNC_ADD,
			},
		},
		{
			name: "additive",
			mat:  Material{Side: DoubleSide, DepthTest: true, Blending: AdditiveBlending},
			want: State{
				DepthTest: true,
				Blend:     true, BlendSrc: gl.SRC_ALPHA, BlendDst: gl.ONE, BlendEq: gl.FUNC_ADD,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mat.State(); got != tt.want {
				t.Errorf("State() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	m := New("earth", nil)
	if m.Side != FrontSide || !m.DepthTest || !m.DepthWrite || m.Transparent {
		t.Errorf("unexpected defaults: %+v", m)
	}
	if m.Uniforms == nil || m.Uniforms.Name() != "earth" {
		t.Error("material should own a uniform block named after it")
	}
}
