package graphics

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/bsvercl/ggez"
)

// Buffer layout sizes in bytes. These must match the shader inputs in
// shaders/sprite.wgsl and shaders/plain.wgsl.
const (
	vertexStride   = 16 // position vec2 + tex_coord vec2
	plainStride    = 32 // position vec2 + tex_coord vec2 + color vec4
	instanceStride = 96 // src vec4 + transform 4x vec4 + color vec4
	globalsSize    = 64 // mvp mat4x4
)

// Vertex is a single vertex of caller supplied geometry. Position is in
// world coordinates, TexCoord in [0, 1] texture space.
type Vertex struct {
	Position ggez.Point
	TexCoord ggez.Point
	Color    ggez.Color
}

// Instance holds the per-sprite attributes of one instanced quad. Src
// selects the sampled region of the texture in [0, 1] coordinates,
// Transform maps the unit quad to world space and Color modulates the
// sampled texel.
type Instance struct {
	Src       ggez.Rect
	Transform ggez.Matrix
	Color     ggez.Color
}

// defaultInstance returns an instance that draws the whole texture through
// an identity transform with no tinting.
func defaultInstance() Instance {
	return Instance{
		Src:       ggez.R(0, 0, 1, 1),
		Transform: ggez.Identity(),
		Color:     ggez.White,
	}
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// encode writes the instance into buf using the instanced vertex layout:
// src at offset 0, the four transform columns at 16, 32, 48 and 64, and
// color at 80.
func (in *Instance) encode(buf []byte) {
	_ = buf[instanceStride-1]
	putFloat32(buf[0:], in.Src.X)
	putFloat32(buf[4:], in.Src.Y)
	putFloat32(buf[8:], in.Src.W)
	putFloat32(buf[12:], in.Src.H)
	for i, v := range in.Transform {
		putFloat32(buf[16+i*4:], v)
	}
	putFloat32(buf[80:], in.Color.R)
	putFloat32(buf[84:], in.Color.G)
	putFloat32(buf[88:], in.Color.B)
	putFloat32(buf[92:], in.Color.A)
}

// encode writes the vertex into buf using the plain vertex layout:
// position at offset 0, tex_coord at 8, color at 16.
func (v *Vertex) encode(buf []byte) {
	_ = buf[plainStride-1]
	putFloat32(buf[0:], v.Position.X)
	putFloat32(buf[4:], v.Position.Y)
	putFloat32(buf[8:], v.TexCoord.X)
	putFloat32(buf[12:], v.TexCoord.Y)
	putFloat32(buf[16:], v.Color.R)
	putFloat32(buf[20:], v.Color.G)
	putFloat32(buf[24:], v.Color.B)
	putFloat32(buf[28:], v.Color.A)
}

// encodeGlobals writes the MVP matrix into buf as the globals uniform.
func encodeGlobals(buf []byte, mvp ggez.Matrix) {
	_ = buf[globalsSize-1]
	for i, v := range mvp {
		putFloat32(buf[i*4:], v)
	}
}

// encodeVertices encodes vertices back to back in the plain layout.
func encodeVertices(verts []Vertex) []byte {
	buf := make([]byte, len(verts)*plainStride)
	for i := range verts {
		verts[i].encode(buf[i*plainStride:])
	}
	return buf
}

// encodeIndices encodes indices as little-endian uint16.
func encodeIndices(indices []uint16) []byte {
	buf := make([]byte, len(indices)*2)
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// quadVertices is the unit quad shared by every instanced draw. Texture
// coordinates coincide with the corner positions, so the instance src
// rectangle alone selects the sampled region.
var quadVertices = [4]Vertex{
	{Position: ggez.Pt(0, 0), TexCoord: ggez.Pt(0, 0)},
	{Position: ggez.Pt(1, 0), TexCoord: ggez.Pt(1, 0)},
	{Position: ggez.Pt(1, 1), TexCoord: ggez.Pt(1, 1)},
	{Position: ggez.Pt(0, 1), TexCoord: ggez.Pt(0, 1)},
}

// quadIndices splits the unit quad into two triangles.
var quadIndices = [6]uint16{0, 1, 2, 0, 2, 3}

// quadVertexData encodes the unit quad in the instanced vertex layout.
func quadVertexData() []byte {
	buf := make([]byte, len(quadVertices)*vertexStride)
	for i, v := range quadVertices {
		putFloat32(buf[i*vertexStride:], v.Position.X)
		putFloat32(buf[i*vertexStride+4:], v.Position.Y)
		putFloat32(buf[i*vertexStride+8:], v.TexCoord.X)
		putFloat32(buf[i*vertexStride+12:], v.TexCoord.Y)
	}
	return buf
}

// quadIndexData encodes the unit quad indices.
func quadIndexData() []byte {
	return encodeIndices(quadIndices[:])
}

// instancedVertexLayout returns the two vertex buffers of the instanced
// variant: slot 0 steps per vertex over the unit quad, slot 1 steps per
// instance over the sprite attributes.
//
//	location 0: position  (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: src       (vec4<f32>)
//	location 3-6: transform columns (vec4<f32>)
//	location 7: color     (vec4<f32>)
func instancedVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
		{
			ArrayStride: instanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 6},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 7},
			},
		},
	}
}

// plainVertexLayout returns the single vertex buffer of the plain variants.
//
//	location 0: position  (vec2<f32>)
//	location 1: tex_coord (vec2<f32>)
//	location 2: color     (vec4<f32>)
func plainVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: plainStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
			},
		},
	}
}
