package scenegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Description is a scene stored as YAML: a camera and an object tree.
type Description struct {
	Camera  CameraDesc   `yaml:"camera"`
	Objects []ObjectDesc `yaml:"objects"`
}

// CameraDesc describes the initial viewpoint. FOV is vertical, in degrees.
type CameraDesc struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
	FOV      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

// ObjectDesc describes one node and its children.
type ObjectDesc struct {
	Name     string        `yaml:"name"`
	Kind     string        `yaml:"kind"`
	Position [3]float32    `yaml:"position"`
	Rotation [3]float32    `yaml:"rotation"`
	Scale    *[3]float32   `yaml:"scale,omitempty"`
	Geometry *GeometryDesc `yaml:"geometry,omitempty"`
	Texture  string        `yaml:"texture,omitempty"`
	Children []ObjectDesc  `yaml:"children,omitempty"`
}

// GeometryDesc holds the parameters of a generated shape.
type GeometryDesc struct {
	Type           string  `yaml:"type"` // sphere, box, plane, quad
	Radius         float32 `yaml:"radius"`
	Width          float32 `yaml:"width"`
	Height         float32 `yaml:"height"`
	Depth          float32 `yaml:"depth"`
	WidthSegments  int     `yaml:"width_segments"`
	HeightSegments int     `yaml:"height_segments"`
}

var geometryTypes = map[string]bool{"sphere": true, "box": true, "plane": true, "quad": true}

// ParseDescription decodes and validates a YAML scene description.
func ParseDescription(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding scene description: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.Camera.FOV == 0 {
		d.Camera.FOV = 45
	}
	if d.Camera.Near == 0 {
		d.Camera.Near = 0.1
	}
	if d.Camera.Far == 0 {
		d.Camera.Far = 2000
	}
	return &d, nil
}

func (d *Description) validate() error {
	seen := make(map[string]bool)
	var check func(objs []ObjectDesc) error
	check = func(objs []ObjectDesc) error {
		for _, o := range objs {
			if o.Name == "" {
				return fmt.Errorf("scene object without a name")
			}
			if seen[o.Name] {
				return fmt.Errorf("duplicate scene object name %q", o.Name)
			}
			seen[o.Name] = true
			if _, err := parseKind(o.Kind); err != nil {
				return fmt.Errorf("object %q: %w", o.Name, err)
			}
			if o.Geometry != nil && !geometryTypes[o.Geometry.Type] {
				return fmt.Errorf("object %q: unknown geometry type %q", o.Name, o.Geometry.Type)
			}
			if err := check(o.Children); err != nil {
				return err
			}
		}
		return nil
	}
	return check(d.Objects)
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "", "group":
		return KindGroup, nil
	case "mesh":
		return KindMesh, nil
	case "sprite":
		return KindSprite, nil
	case "light":
		return KindLight, nil
	default:
		return KindGroup, fmt.Errorf("unknown kind %q", s)
	}
}

// Build creates the node tree under a root named "Scene" and finalizes
// world matrices.
func (d *Description) Build() *Node {
	root := New("Scene", KindGroup)
	for _, o := range d.Objects {
		root.Add(o.build())
	}
	root.UpdateMatrixWorld()
	return root
}

func (o ObjectDesc) build() *Node {
	kind, _ := parseKind(o.Kind) // validated by ParseDescription
	n := New(o.Name, kind)
	n.Position = mgl32.Vec3(o.Position)
	n.Rotation = mgl32.Vec3(o.Rotation)
	if o.Scale != nil {
		n.Scale = mgl32.Vec3(*o.Scale)
	}
	for _, c := range o.Children {
		n.Add(c.build())
	}
	return n
}

// Object returns the description of the named object, searching the tree.
func (d *Description) Object(name string) (ObjectDesc, bool) {
	var find func(objs []ObjectDesc) (ObjectDesc, bool)
	find = func(objs []ObjectDesc) (ObjectDesc, bool) {
		for _, o := range objs {
			if o.Name == name {
				return o, true
			}
			if found, ok := find(o.Children); ok {
				return found, true
			}
		}
		return ObjectDesc{}, false
	}
	return find(d.Objects)
}
