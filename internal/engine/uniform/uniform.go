// Package uniform holds per-stage shader values on the CPU side.
//
// A Block is filled by scene code during update and uploaded by the
// material when the stage is drawn, so update logic never touches GL.
package uniform

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Sink accepts vec3 uniform values. Block implements it.
type Sink interface {
	SetVec3(name string, v mgl32.Vec3)
}

// Texture binds a GL texture object to a sampler uniform.
type Texture struct {
	ID   uint32
	Unit int32
}

// Block is a named set of uniform values for one shading stage.
type Block struct {
	name     string
	floats   map[string]float32
	vec3s    map[string]mgl32.Vec3
	vec4s    map[string]mgl32.Vec4
	textures map[string]Texture
}

// NewBlock creates an empty block. The name is used in logs.
func NewBlock(name string) *Block {
	return &Block{
		name:     name,
		floats:   make(map[string]float32),
		vec3s:    make(map[string]mgl32.Vec3),
		vec4s:    make(map[string]mgl32.Vec4),
		textures: make(map[string]Texture),
	}
}

// Name returns the stage name.
func (b *Block) Name() string {
	return b.name
}

// SetFloat stores a float uniform.
func (b *Block) SetFloat(name string, v float32) {
	b.floats[name] = v
}

// SetVec3 stores a vec3 uniform.
func (b *Block) SetVec3(name string, v mgl32.Vec3) {
	b.vec3s[name] = v
}

// SetVec4 stores a vec4 uniform.
func (b *Block) SetVec4(name string, v mgl32.Vec4) {
	b.vec4s[name] = v
}

// SetTexture binds a texture to the next free unit, or reuses the unit
// already assigned to name.
func (b *Block) SetTexture(name string, id uint32) {
	if t, ok := b.textures[name]; ok {
		t.ID = id
		b.textures[name] = t
		return
	}
	b.textures[name] = Texture{ID: id, Unit: int32(len(b.textures))}
}

// Float returns a stored float uniform.
func (b *Block) Float(name string) (float32, bool) {
	v, ok := b.floats[name]
	return v, ok
}

// Vec3 returns a stored vec3 uniform.
func (b *Block) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := b.vec3s[name]
	return v, ok
}

// Vec4 returns a stored vec4 uniform.
func (b *Block) Vec4(name string) (mgl32.Vec4, bool) {
	v, ok := b.vec4s[name]
	return v, ok
}

// Texture returns a stored texture binding.
func (b *Block) Texture(name string) (Texture, bool) {
	t, ok := b.textures[name]
	return t, ok
}

// Uploader receives block values during Apply. shader.Program implements it.
type Uploader interface {
	Uniform1f(name string, v float32)
	Uniform3f(name string, v mgl32.Vec3)
	Uniform4f(name string, v mgl32.Vec4)
	Sampler(name string, unit int32, id uint32)
}

// Apply pushes every value to u in a stable (sorted) order.
func (b *Block) Apply(u Uploader) {
	for _, name := range sortedKeys(b.floats) {
		u.Uniform1f(name, b.floats[name])
	}
	for _, name := range sortedKeys(b.vec3s) {
		u.Uniform3f(name, b.vec3s[name])
	}
	for _, name := range sortedKeys(b.vec4s) {
		u.Uniform4f(name, b.vec4s[name])
	}
	for _, name := range sortedKeys(b.textures) {
		t := b.textures[name]
		u.Sampler(name, t.Unit, t.ID)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
