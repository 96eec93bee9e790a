package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"software-rasterizer/math"
)

// GLTFResult holds the meshes and base-color textures of a .glb / .gltf file.
// Textures[i] is meant to live at texture id FirstTextureID+i; meshes already
// reference those ids.
type GLTFResult struct {
	Meshes         []*Mesh
	Textures       []*Texture
	FirstTextureID int
}

// Register stores the textures in table and adds the meshes to s.
func (r *GLTFResult) Register(s *Scene) error {
	for i, tex := range r.Textures {
		if err := s.Textures.Set(r.FirstTextureID+i, tex); err != nil {
			return err
		}
	}
	for _, m := range r.Meshes {
		if err := s.AddMesh(m); err != nil {
			return err
		}
	}
	return nil
}

// LoadGLTF opens a .glb or .gltf file and flattens it into triangle soups.
// Node transforms are baked into vertex positions, so every returned mesh
// starts at the identity pose. Primitives without a base-color texture use
// fallbackTextureID.
func LoadGLTF(path string, firstTextureID, fallbackTextureID int) (*GLTFResult, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	result := &GLTFResult{FirstTextureID: firstTextureID}

	// 1. Textures
	texIDs := make([]int, len(doc.Textures))
	for i, gt := range doc.Textures {
		texIDs[i] = -1
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]

		var tex *Texture
		if img.BufferView != nil {
			// Binary GLB: image data lives in a buffer view
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				slog.Warn("gltf: image buffer view", "path", path, "image", *gt.Source, "err", err)
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			tex, err = decodeImageBytes(name, raw)
			if err != nil {
				slog.Warn("gltf: image decode", "path", path, "image", *gt.Source, "err", err)
				continue
			}
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			tex, err = LoadTexture(filepath.Join(dir, img.URI))
			if err != nil {
				slog.Warn("gltf: image load", "path", path, "uri", img.URI, "err", err)
				continue
			}
		}

		if tex != nil {
			texIDs[i] = firstTextureID + len(result.Textures)
			result.Textures = append(result.Textures, tex)
		}
	}

	// 2. Materials → texture id
	matTex := make([]int, len(doc.Materials))
	for i, gm := range doc.Materials {
		matTex[i] = fallbackTextureID
		if pbr := gm.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			idx := pbr.BaseColorTexture.Index
			if idx < len(texIDs) && texIDs[idx] >= 0 {
				matTex[i] = texIDs[idx]
			}
		}
	}

	// 3. Nodes, depth first from the scene roots
	var visit func(idx int, parent math.Mat4)
	visit = func(idx int, parent math.Mat4) {
		gn := doc.Nodes[idx]
		world := parent.Mul(nodeMatrix(gn))

		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			for pi, prim := range gm.Primitives {
				texID := fallbackTextureID
				if prim.Material != nil && *prim.Material < len(matTex) {
					texID = matTex[*prim.Material]
				}
				m, err := loadGLTFPrimitive(doc, gm.Name, pi, prim, texID, world)
				if err != nil {
					slog.Warn("gltf: primitive skipped", "path", path, "mesh", *gn.Mesh, "primitive", pi, "err", err)
					continue
				}
				result.Meshes = append(result.Meshes, m)
			}
		}
		for _, c := range gn.Children {
			if c < len(doc.Nodes) {
				visit(c, world)
			}
		}
	}
	for _, root := range rootNodes(doc) {
		visit(root, math.Mat4Identity())
	}

	if len(result.Meshes) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}
	return result, nil
}

// nodeMatrix returns a node's local transform, from its matrix when one is
// set and from translation, rotation and scale otherwise.
func nodeMatrix(gn *gltf.Node) math.Mat4 {
	if mat := gn.MatrixOrDefault(); mat != gltf.DefaultMatrix {
		// Column-major: element (row r, column c) is mat[c*4+r].
		var m math.Mat4
		for r := 0; r < 4; r++ {
			m[r] = math.Vec4{
				X: float32(mat[r]),
				Y: float32(mat[4+r]),
				Z: float32(mat[8+r]),
				W: float32(mat[12+r]),
			}
		}
		return m
	}

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	q := math.NewQuaternion(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3]))
	return math.Mat4Transform(
		math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])},
		q.EulerDegrees(),
		math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])},
	)
}

// rootNodes returns the default scene's roots, or every parentless node when
// the document has no default scene.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// loadGLTFPrimitive expands one indexed triangle primitive into a soup with
// world baked into the positions.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive, textureID int, world math.Mat4) (*Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			slog.Warn("gltf: texture coordinates dropped", "mesh", name, "err", err)
			uvs = nil
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	pos := make([]math.Vec3, 0, len(indices))
	coords := make([]math.Vec2, 0, len(indices))
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range", i)
		}
		p := positions[i]
		pos = append(pos, world.MulVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]}))
		var uv math.Vec2
		if int(i) < len(uvs) {
			// glTF puts v=0 at the top of the image; the sampler expects bottom.
			uv = math.Vec2{X: uvs[i][0], Y: 1 - uvs[i][1]}
		}
		coords = append(coords, uv)
	}
	return NewMesh(name, textureID, pos, coords), nil
}
