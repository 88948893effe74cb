package shader

import (
	"embed"
	"fmt"
)

//go:embed glsl/*.vert glsl/*.frag
var glslFS embed.FS

// Source is a vertex/fragment pair.
type Source struct {
	Vertex   string
	Fragment string
}

// Stage names of the bundled programs.
const (
	Basic      = "basic"
	Sprite     = "sprite"
	Skybox     = "skybox"
	Earth      = "earth"
	Atmosphere = "atmosphere"
)

// Stages lists every bundled program.
var Stages = []string{Basic, Sprite, Skybox, Earth, Atmosphere}

// Load returns the embedded sources for a stage.
func Load(stage string) (Source, error) {
	vert, err := glslFS.ReadFile("glsl/" + stage + ".vert")
	if err != nil {
		return Source{}, fmt.Errorf("stage %s: %w", stage, err)
	}
	frag, err := glslFS.ReadFile("glsl/" + stage + ".frag")
	if err != nil {
		return Source{}, fmt.Errorf("stage %s: %w", stage, err)
	}
	return Source{Vertex: string(vert), Fragment: string(frag)}, nil
}
