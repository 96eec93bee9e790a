package scene

import "software-rasterizer/math"

// quadFace appends two triangles covering the quad a-b-c-d (counter-clockwise)
// with UVs spanning the unit square.
func quadFace(pos []math.Vec3, uvs []math.Vec2, a, b, c, d math.Vec3) ([]math.Vec3, []math.Vec2) {
	pos = append(pos, a, b, c, c, d, a)
	uvs = append(uvs,
		math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 0}, math.Vec2{X: 1, Y: 1},
		math.Vec2{X: 1, Y: 1}, math.Vec2{X: 0, Y: 1}, math.Vec2{X: 0, Y: 0},
	)
	return pos, uvs
}

func CreateTriangle(textureID int) *Mesh {
	positions := []math.Vec3{
		{X: -1, Y: -1, Z: 0},
		{X: 1, Y: -1, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	uvs := []math.Vec2{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 0.5, Y: 1},
	}
	return NewMesh("Triangle", textureID, positions, uvs)
}

// CreatePlane is a unit quad in the XY plane, facing +Z.
func CreatePlane(textureID int) *Mesh {
	pos, uvs := quadFace(nil, nil,
		math.Vec3{X: -1, Y: -1, Z: 0},
		math.Vec3{X: 1, Y: -1, Z: 0},
		math.Vec3{X: 1, Y: 1, Z: 0},
		math.Vec3{X: -1, Y: 1, Z: 0},
	)
	return NewMesh("Plane", textureID, pos, uvs)
}

func CreateCube(textureID int, size float32) *Mesh {
	s := size / 2
	var pos []math.Vec3
	var uvs []math.Vec2

	// Front
	pos, uvs = quadFace(pos, uvs,
		math.Vec3{X: -s, Y: -s, Z: s}, math.Vec3{X: s, Y: -s, Z: s},
		math.Vec3{X: s, Y: s, Z: s}, math.Vec3{X: -s, Y: s, Z: s})
	// Back
	pos, uvs = quadFace(pos, uvs,
		math.Vec3{X: s, Y: -s, Z: -s}, math.Vec3{X: -s, Y: -s, Z: -s},
		math.Vec3{X: -s, Y: s, Z: -s}, math.Vec3{X: s, Y: s, Z: -s})
	// Top
	pos, uvs = quadFace(pos, uvs,
		math.Vec3{X: -s, Y: s, Z: s}, math.Vec3{X: s, Y: s, Z: s},
		math.Vec3{X: s, Y: s, Z: -s}, math.Vec3{X: -s, Y: s, Z: -s})
	// Bottom
	pos, uvs = quadFace(pos, uvs,
		math.Vec3{X: -s, Y: -s, Z: -s}, math.Vec3{X: s, Y: -s, Z: -s},
		math.Vec3{X: s, Y: -s, Z: s}, math.Vec3{X: -s, Y: -s, Z: s})
	// Right
	pos, uvs = quadFace(pos, uvs,
		math.Vec3{X: s, Y: -s, Z: s}, math.Vec3{X: s, Y: -s, Z: -s},
		math.Vec3{X: s, Y: s, Z: -s}, math.Vec3{X: s, Y: s, Z: s})
	// Left
	pos, uvs = quadFace(pos, uvs,
		math.Vec3{X: -s, Y: -s, Z: -s}, math.Vec3{X: -s, Y: -s, Z: s},
		math.Vec3{X: -s, Y: s, Z: s}, math.Vec3{X: -s, Y: s, Z: -s})

	return NewMesh("Cube", textureID, pos, uvs)
}
