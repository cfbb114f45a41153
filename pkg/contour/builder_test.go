package contour

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }
func bp(v bool) *bool       { return &v }

func TestBuildPathEmptyContour(t *testing.T) {
	// A contour without elements has no path, a bare start point is
	// not a usable profile.
	c := &Contour{Start: Point{X: 10, Z: 0}}
	if path := BuildPath(c); len(path) != 0 {
		t.Fatalf("expected an empty path, got %v", path)
	}
	if path := BuildPath(nil); len(path) != 0 {
		t.Fatalf("nil contour must yield an empty path, got %v", path)
	}
}

func TestBuildPathLines(t *testing.T) {
	c := &Contour{Start: Point{X: 0, Z: 0}}
	c.Add(Element{Type: LineX, End: Point{X: 40, Z: 0}})
	c.Add(Element{Type: LineZ, End: Point{X: 40, Z: -25}})
	c.Add(Element{Type: LineXZ, End: Point{X: 50, Z: -30}})

	path := BuildPath(c)
	want := []Point{{0, 0}, {40, 0}, {40, -25}, {50, -30}}
	if len(path) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(path), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, want[i], path[i])
		}
	}
}

func TestBuildPathArcInterpolation(t *testing.T) {
	c := &Contour{Start: Point{X: 40, Z: -25}}
	c.Add(Element{Type: ArcConvex, End: Point{X: 50, Z: -30}, Radius: fp(5), CW: bp(true)})

	path := BuildPath(c)
	// 4 interpolation steps add 4 points after the start.
	if len(path) != 5 {
		t.Fatalf("expected 5 points for one arc, got %d", len(path))
	}
	if path[len(path)-1] != (Point{X: 50, Z: -30}) {
		t.Errorf("arc must end on its endpoint, got %+v", path[len(path)-1])
	}
	// Interior points lie strictly between the endpoints on both axes.
	for _, p := range path[1 : len(path)-1] {
		if p.X <= 40 || p.X >= 50 {
			t.Errorf("interior X %v out of (40, 50)", p.X)
		}
		if p.Z >= -25 || p.Z <= -30 {
			t.Errorf("interior Z %v out of (-30, -25)", p.Z)
		}
	}
}

func TestBuildPathUnknownTypeSkipped(t *testing.T) {
	c := &Contour{Start: Point{X: 0, Z: 0}}
	c.Add(Element{Type: ElementType(99), End: Point{X: 40, Z: 0}})
	c.Add(Element{Type: LineZ, End: Point{X: 40, Z: -10}})

	path := BuildPath(c)
	// The unknown element contributes nothing, but the following line
	// still continues from its own end point.
	if len(path) != 2 {
		t.Fatalf("expected 2 points, got %d: %v", len(path), path)
	}
	if path[1] != (Point{X: 40, Z: -10}) {
		t.Errorf("expected final point {40 -10}, got %+v", path[1])
	}
}

func TestCleanPathRemovesDuplicates(t *testing.T) {
	in := []Point{{0, 0}, {0, 0}, {10, 0}, {10, 0}, {10, -5}}
	out := CleanPath(in)
	want := []Point{{0, 0}, {10, 0}, {10, -5}}
	if len(out) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(out), out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, want[i], out[i])
		}
	}
}

func TestValidateArcWithoutRadius(t *testing.T) {
	c := &Contour{Start: Point{X: 0, Z: 0}}
	c.Add(Element{Type: ArcConcave, End: Point{X: 10, Z: -5}})

	issues := Validate(c)
	if len(issues) == 0 {
		t.Fatal("expected a validation issue for an arc without radius")
	}
	if issues[0].Index != 0 {
		t.Errorf("expected issue at element 0, got %d", issues[0].Index)
	}
}

func TestValidateCleanContour(t *testing.T) {
	c := &Contour{Start: Point{X: 0, Z: 0}}
	c.Add(Element{Type: LineX, End: Point{X: 40, Z: 0}})
	c.Add(Element{Type: ArcConvex, End: Point{X: 50, Z: -5}, Radius: fp(5), CW: bp(false)})

	if issues := Validate(c); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestBuildPathArcMonotonic(t *testing.T) {
	c := &Contour{Start: Point{X: 20, Z: 0}}
	c.Add(Element{Type: ArcConcave, End: Point{X: 30, Z: -10}, Radius: fp(8), CW: bp(false)})

	path := BuildPath(c)
	for i := 1; i < len(path); i++ {
		if path[i].Z > path[i-1].Z+1e-12 {
			t.Errorf("Z must be non-increasing along this arc: %v -> %v", path[i-1], path[i])
		}
	}
	if math.Abs(path[len(path)-1].X-30) > 1e-12 {
		t.Errorf("arc endpoint X: expected 30, got %v", path[len(path)-1].X)
	}
}
