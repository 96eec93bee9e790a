package scene

import (
	"fmt"

	"github.com/fogleman/fauxgl"

	"software-rasterizer/math"
)

// LoadSTL reads an ASCII or binary STL file. STL carries no texture
// coordinates, so every UV is (0,0) and the mesh samples a single texel.
func LoadSTL(path string, textureID int) (*Mesh, error) {
	src, err := fauxgl.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("load stl %q: %w", path, err)
	}
	if len(src.Triangles) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	pos := make([]math.Vec3, 0, len(src.Triangles)*3)
	for _, t := range src.Triangles {
		pos = append(pos, fromFauxgl(t.V1.Position), fromFauxgl(t.V2.Position), fromFauxgl(t.V3.Position))
	}
	return NewMesh("STL", textureID, pos, nil), nil
}

func fromFauxgl(v fauxgl.Vector) math.Vec3 {
	return math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}
