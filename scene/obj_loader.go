package scene

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"software-rasterizer/math"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx [3]int // 0-based position / UV indices (-1 = absent)
}

// LoadOBJ parses a Wavefront .obj file and returns one Mesh per object/group,
// all bound to textureID. Normals and materials are ignored: shading only
// needs positions and texture coordinates.
func LoadOBJ(path string, textureID int) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	var positions []math.Vec3
	var uvs []math.Vec2

	type objObject struct {
		name  string
		faces []objFace
	}

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			xyz, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			positions = append(positions, math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})

		case "vt":
			if len(fields) < 3 {
				continue
			}
			uv, err := parseFloats(fields[1:3])
			if err != nil {
				return nil, fmt.Errorf("obj %q line %d: %w", path, lineNo, err)
			}
			uvs = append(uvs, math.Vec2{X: uv[0], Y: uv[1]})

		case "o", "g":
			// Push the current object if it has faces, then start a new one
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name}

		case "f":
			if len(fields) < 4 {
				continue
			}
			var fverts []faceVertex
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs)))
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj %q: %w", path, err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found in %q", path)
	}

	meshes := make([]*Mesh, 0, len(objects))
	for _, obj := range objects {
		meshes = append(meshes, buildMeshFromOBJ(obj.name, textureID, obj.faces, positions, uvs))
	}
	return meshes, nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

type faceVertex struct{ v, vt int }

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn", "v/vt/vn".
// OBJ indices are 1-based; negative ones count back from the end of the
// pools read so far. Returns 0-based indices, -1 if absent.
func parseFaceVertex(tok string, nPos, nUV int) faceVertex {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil || i == 0:
			return -1
		case i > 0:
			return i - 1
		default:
			return n + i
		}
	}
	parts := strings.Split(tok, "/")
	res := faceVertex{v: parseIdx(parts[0], nPos), vt: -1}
	if len(parts) > 1 {
		res.vt = parseIdx(parts[1], nUV)
	}
	return res
}

func buildMeshFromOBJ(name string, textureID int, faces []objFace, positions []math.Vec3, uvs []math.Vec2) *Mesh {
	safePos := func(i int) math.Vec3 {
		if i >= 0 && i < len(positions) {
			return positions[i]
		}
		return math.Vec3Zero
	}
	safeUV := func(i int) math.Vec2 {
		if i >= 0 && i < len(uvs) {
			return uvs[i]
		}
		return math.Vec2{}
	}

	pos := make([]math.Vec3, 0, len(faces)*3)
	coords := make([]math.Vec2, 0, len(faces)*3)
	for _, face := range faces {
		for c := 0; c < 3; c++ {
			pos = append(pos, safePos(face.vIdx[c]))
			coords = append(coords, safeUV(face.vtIdx[c]))
		}
	}
	return NewMesh(name, textureID, pos, coords)
}
