package scene

import (
	"errors"
	"fmt"
)

// Scene owns the meshes and textures rendered each frame.
type Scene struct {
	Meshes   []*Mesh
	Textures *TextureTable
}

func NewScene(textureCapacity int) *Scene {
	return &Scene{
		Meshes:   make([]*Mesh, 0),
		Textures: NewTextureTable(textureCapacity),
	}
}

// AddMesh rejects meshes whose texture id can never resolve.
func (s *Scene) AddMesh(mesh *Mesh) error {
	if mesh == nil {
		return errors.New("add mesh: nil mesh")
	}
	if !s.Textures.Valid(mesh.TextureID) {
		return fmt.Errorf("add mesh %q: %w: %d", mesh.Name, ErrTextureID, mesh.TextureID)
	}
	s.Meshes = append(s.Meshes, mesh)
	return nil
}

func (s *Scene) RemoveMesh(mesh *Mesh) {
	for i, m := range s.Meshes {
		if m == mesh {
			s.Meshes = append(s.Meshes[:i], s.Meshes[i+1:]...)
			return
		}
	}
}

func (s *Scene) VisibleMeshes() []*Mesh {
	var visible []*Mesh
	for _, m := range s.Meshes {
		if m.Visible && m.TriangleCount() > 0 {
			visible = append(visible, m)
		}
	}
	return visible
}

// TriangleCount sums the triangles of every visible mesh.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.VisibleMeshes() {
		n += m.TriangleCount()
	}
	return n
}
