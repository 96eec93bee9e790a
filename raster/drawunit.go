package raster

import "software-rasterizer/math"

// DrawUnit is everything one triangle needs to be rasterized without
// touching scene state. It is passed by value; a unit in the queue is a
// snapshot that no one else can mutate.
type DrawUnit struct {
	TextureID  int
	Model      math.Mat4
	Projection math.Mat4

	A, B, C       math.Vec3
	UVA, UVB, UVC math.Vec2
}

func NewDrawUnit(textureID int, model, projection math.Mat4, verts [3]math.Vec3, uvs [3]math.Vec2) DrawUnit {
	return DrawUnit{
		TextureID:  textureID,
		Model:      model,
		Projection: projection,
		A:          verts[0],
		B:          verts[1],
		C:          verts[2],
		UVA:        uvs[0],
		UVB:        uvs[1],
		UVC:        uvs[2],
	}
}
