// Package solid builds a 3D preview of a turned part from its profile
// polyline. The half profile is revolved around the spindle axis with
// the github.com/deadsy/sdfx CAD library and tessellated with marching
// cubes, giving an inspectable mesh before any program runs.
package solid

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/lathestep/pkg/contour"
)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// Revolve builds the solid of revolution for a profile polyline. The
// polyline is in lathe coordinates, X as diameter, so radii are X/2.
// The profile is closed along the spindle axis before revolving.
func Revolve(path []contour.Point) (sdf.SDF3, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("profile needs at least 2 points, got %d", len(path))
	}

	pts := make([]v2.Vec, 0, len(path)+2)
	pts = append(pts, v2.Vec{X: 0, Y: path[0].Z})
	for _, p := range path {
		r := math.Abs(p.X) / 2
		pts = append(pts, v2.Vec{X: r, Y: p.Z})
	}
	pts = append(pts, v2.Vec{X: 0, Y: path[len(path)-1].Z})

	profile, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("profile polygon: %w", err)
	}
	s, err := sdf.Revolve3D(profile)
	if err != nil {
		return nil, fmt.Errorf("revolve: %w", err)
	}
	return s, nil
}

// StockCylinder builds the raw stock solid: a cylinder of the given
// diameter spanning the Z range of the profile.
func StockCylinder(diameter float64, path []contour.Point) (sdf.SDF3, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("stock diameter must be > 0, got %v", diameter)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("empty profile")
	}
	zMin, zMax := path[0].Z, path[0].Z
	for _, p := range path[1:] {
		zMin = math.Min(zMin, p.Z)
		zMax = math.Max(zMax, p.Z)
	}
	height := zMax - zMin
	if height <= 0 {
		return nil, fmt.Errorf("profile has no axial extent")
	}

	c, err := sdf.Cylinder3D(height, diameter/2, 0)
	if err != nil {
		return nil, fmt.Errorf("stock cylinder: %w", err)
	}
	// Cylinder3D centers on the origin; shift so it spans [zMin, zMax].
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: zMin + height/2})
	return sdf.Transform3D(c, m), nil
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func ToMesh(s sdf.SDF3) (*Mesh, error) {
	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(s, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
