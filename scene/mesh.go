package scene

import (
	"software-rasterizer/core"
	"software-rasterizer/math"
)

// Triangle is one face of a mesh in local space.
type Triangle struct {
	Positions [3]math.Vec3
	UVs       [3]math.Vec2
}

// Mesh is an unindexed triangle list: every three consecutive positions
// (and UVs) form a face. Pose is mutated by scene logic between frames and
// read only by the frame orchestrator.
type Mesh struct {
	Name      string
	TextureID int
	Positions []math.Vec3
	UVs       []math.Vec2
	Pose      core.Pose
	Visible   bool
}

// NewMesh builds a mesh from a triangle soup. Trailing positions that do not
// complete a triangle are dropped; missing UVs default to (0,0).
func NewMesh(name string, textureID int, positions []math.Vec3, uvs []math.Vec2) *Mesh {
	n := len(positions) - len(positions)%3
	pos := make([]math.Vec3, n)
	copy(pos, positions)
	coords := make([]math.Vec2, n)
	copy(coords, uvs)
	return &Mesh{
		Name:      name,
		TextureID: textureID,
		Positions: pos,
		UVs:       coords,
		Pose:      core.NewPose(),
		Visible:   true,
	}
}

func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

func (m *Mesh) Triangle(i int) Triangle {
	b := i * 3
	return Triangle{
		Positions: [3]math.Vec3{m.Positions[b], m.Positions[b+1], m.Positions[b+2]},
		UVs:       [3]math.Vec2{m.UVs[b], m.UVs[b+1], m.UVs[b+2]},
	}
}

func (m *Mesh) SetPosition(x, y, z float32) {
	m.Pose.Position = math.Vec3{X: x, Y: y, Z: z}
}

// SetRotation takes pitch (X), yaw (Y) and roll (Z) in degrees.
func (m *Mesh) SetRotation(pitch, yaw, roll float32) {
	m.Pose.Rotation = math.Vec3{X: pitch, Y: yaw, Z: roll}
}

func (m *Mesh) SetScale(x, y, z float32) {
	m.Pose.Scale = math.Vec3{X: x, Y: y, Z: z}
}

func (m *Mesh) ModelMatrix() math.Mat4 {
	return m.Pose.Matrix()
}

// Bounds returns the local-space AABB corners.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.Positions) == 0 {
		return math.Vec3Zero, math.Vec3Zero
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
