package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"software-rasterizer/scene"
)

const (
	meshTexture  = 0
	floorTexture = 1
	// glTF textures are stored from here on.
	firstModelTexture = 2
)

// buildScene sets up the spinning subject over a floor plane. With no mesh
// path the subject is a unit cube.
func buildScene(capacity int, meshPath, texturePath string) (*scene.Scene, []*scene.Mesh, error) {
	s := scene.NewScene(capacity)

	subjectTex := scene.NewCheckerTexture("subject", 64, 8,
		color.RGBA{230, 230, 230, 255}, color.RGBA{200, 60, 40, 255})
	if texturePath != "" {
		tex, err := scene.LoadTexture(texturePath)
		if err != nil {
			return nil, nil, err
		}
		subjectTex = tex
	}
	if err := s.Textures.Set(meshTexture, subjectTex); err != nil {
		return nil, nil, err
	}
	floorTex := scene.NewCheckerTexture("floor", 64, 16,
		color.RGBA{90, 90, 100, 255}, color.RGBA{40, 40, 48, 255})
	if err := s.Textures.Set(floorTexture, floorTex); err != nil {
		return nil, nil, err
	}

	var subject []*scene.Mesh
	if meshPath == "" {
		subject = []*scene.Mesh{scene.CreateCube(meshTexture, 1)}
		for _, m := range subject {
			if err := s.AddMesh(m); err != nil {
				return nil, nil, err
			}
		}
	} else {
		var err error
		if subject, err = loadMeshes(s, meshPath); err != nil {
			return nil, nil, err
		}
	}
	for _, m := range subject {
		m.SetPosition(0, 0, 3)
	}

	floor := scene.CreatePlane(floorTexture)
	floor.Name = "Floor"
	floor.SetPosition(0, -1.5, 3)
	floor.SetRotation(90, 0, 0)
	floor.SetScale(2, 2, 0)
	if err := s.AddMesh(floor); err != nil {
		return nil, nil, err
	}

	return s, subject, nil
}

// loadMeshes picks a loader by file extension and adds the result to s.
func loadMeshes(s *scene.Scene, path string) ([]*scene.Mesh, error) {
	var meshes []*scene.Mesh
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		loaded, err := scene.LoadOBJ(path, meshTexture)
		if err != nil {
			return nil, err
		}
		meshes = loaded
	case ".stl":
		m, err := scene.LoadSTL(path, meshTexture)
		if err != nil {
			return nil, err
		}
		meshes = []*scene.Mesh{m}
	case ".gltf", ".glb":
		res, err := scene.LoadGLTF(path, firstModelTexture, meshTexture)
		if err != nil {
			return nil, err
		}
		if err := res.Register(s); err != nil {
			return nil, fmt.Errorf("register %q: %w", path, err)
		}
		slog.Debug("gltf loaded", "path", path, "meshes", len(res.Meshes), "textures", len(res.Textures))
		return res.Meshes, nil
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}

	for _, m := range meshes {
		if err := s.AddMesh(m); err != nil {
			return nil, err
		}
	}
	return meshes, nil
}
