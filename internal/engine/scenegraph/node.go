// Package scenegraph provides a minimal named transform hierarchy.
//
// A Node carries a position, an Euler rotation (radians, XYZ order) and a
// scale. Local matrices compose as T * Rx * Ry * Rz * S and world matrices
// as parentWorld * local. World matrices are only refreshed by
// UpdateMatrixWorld, so callers decide when a transform is final.
package scenegraph

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotFound is returned when a lookup by name fails.
var ErrNotFound = errors.New("scene object not found")

// Kind tells the demos how a node should be drawn.
type Kind int

// Node kinds.
const (
	KindGroup Kind = iota
	KindMesh
	KindSprite
	KindLight
)

// String returns the description name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindSprite:
		return "sprite"
	case KindLight:
		return "light"
	default:
		return "group"
	}
}

// Node is an object in the scene graph.
type Node struct {
	Name     string
	Kind     Kind
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
	Visible  bool

	// Matrix and MatrixWorld are valid after UpdateMatrixWorld.
	Matrix      mgl32.Mat4
	MatrixWorld mgl32.Mat4

	parent   *Node
	children []*Node
}

// New creates a visible node with identity transform.
func New(name string, kind Kind) *Node {
	return &Node{
		Name:        name,
		Kind:        kind,
		Scale:       mgl32.Vec3{1, 1, 1},
		Visible:     true,
		Matrix:      mgl32.Ident4(),
		MatrixWorld: mgl32.Ident4(),
	}
}

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It is a no-op if child is not a direct child.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// FindByName returns the first node named name in the subtree, or nil.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Lookup is FindByName with an error naming the missing object.
func (n *Node) Lookup(name string) (*Node, error) {
	if found := n.FindByName(name); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// UpdateMatrix recomputes the local matrix from position, rotation and scale.
func (n *Node) UpdateMatrix() {
	n.Matrix = Compose(n.Position, n.Rotation, n.Scale)
}

// UpdateMatrixWorld recomputes local and world matrices for n and its subtree.
func (n *Node) UpdateMatrixWorld() {
	n.UpdateMatrix()
	if n.parent != nil {
		n.MatrixWorld = n.parent.MatrixWorld.Mul4(n.Matrix)
	} else {
		n.MatrixWorld = n.Matrix
	}
	for _, c := range n.children {
		c.UpdateMatrixWorld()
	}
}

// WorldPosition returns the translation part of MatrixWorld.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.MatrixWorld.Col(3).Vec3()
}

// SetWorldPosition places n at p in world space, converting through the
// parent's world transform when n has a parent. MatrixWorld is refreshed.
func (n *Node) SetWorldPosition(p mgl32.Vec3) {
	if n.parent != nil {
		n.Position = TransformPoint(n.parent.MatrixWorld.Inv(), p)
	} else {
		n.Position = p
	}
	n.UpdateMatrixWorld()
}

// Compose builds T * Rx * Ry * Rz * S.
func Compose(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	r := mgl32.HomogRotate3DX(rotation.X()).
		Mul4(mgl32.HomogRotate3DY(rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(rotation.Z()))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// TransformPoint applies m to p with w = 1 and perspective divide.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}
