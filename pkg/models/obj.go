package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/raylight/pkg/math3d"
)

// ErrMalformed is wrapped by every OBJ syntax error.
var ErrMalformed = errors.New("malformed obj")

// LoadOBJ reads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads OBJ data. Only v, vn and triangular f records of the form
// "f a//n b//n c//n" are understood; every other record is ignored.
// Negative indices count back from the most recent vertex or normal.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")

	// Face indices are validated once every record has been read so that
	// faces may reference vertices declared later in the file.
	faceLines := make([]int, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)

		case "vn":
			n, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			mesh.Normals = append(mesh.Normals, n)

		case "f":
			face, err := parseFace(fields[1:], len(mesh.Vertices), len(mesh.Normals))
			if err != nil {
				return nil, fmt.Errorf("line %d: face: %w", lineNo, err)
			}
			mesh.Faces = append(mesh.Faces, face)
			faceLines = append(faceLines, lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	for i, f := range mesh.Faces {
		for k := range 3 {
			if f.V[k] < 0 || f.V[k] >= len(mesh.Vertices) {
				return nil, fmt.Errorf("line %d: vertex index %d out of range (%d vertices): %w",
					faceLines[i], f.V[k]+1, len(mesh.Vertices), ErrMalformed)
			}
			if f.N[k] < 0 || f.N[k] >= len(mesh.Normals) {
				return nil, fmt.Errorf("line %d: normal index %d out of range (%d normals): %w",
					faceLines[i], f.N[k]+1, len(mesh.Normals), ErrMalformed)
			}
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d: %w", len(fields), ErrMalformed)
	}
	var c [3]float64
	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("component %q: %w", s, ErrMalformed)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}

// parseFace converts 1-based OBJ indices to 0-based ones.
func parseFace(fields []string, numVertices, numNormals int) (Face, error) {
	var face Face
	if len(fields) != 3 {
		return face, fmt.Errorf("want 3 vertices, got %d: %w", len(fields), ErrMalformed)
	}
	for k, field := range fields {
		vs, ns, ok := strings.Cut(field, "//")
		if !ok {
			return face, fmt.Errorf("vertex %q has no //normal: %w", field, ErrMalformed)
		}
		v, err := parseIndex(vs, numVertices)
		if err != nil {
			return face, err
		}
		n, err := parseIndex(ns, numNormals)
		if err != nil {
			return face, err
		}
		face.V[k], face.N[k] = v, n
	}
	return face, nil
}

func parseIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i == 0 {
		return 0, fmt.Errorf("bad index %q: %w", s, ErrMalformed)
	}
	if i < 0 {
		return count + i, nil
	}
	return i - 1, nil
}
