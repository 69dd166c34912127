package engine

import (
	"math"
	"testing"

	"github.com/loadwise/loadplan/internal/model"
)

func TestOrientationsDistinctDims(t *testing.T) {
	got := orientations(model.Dimensions{Length: 30, Width: 20, Height: 10}, false)
	if len(got) != 6 {
		t.Fatalf("expected 6 orientations for distinct dims, got %d", len(got))
	}

	seen := make(map[[3]float64]bool)
	for _, o := range got {
		key := [3]float64{o.Length, o.Width, o.Height}
		if seen[key] {
			t.Errorf("duplicate orientation %v", key)
		}
		seen[key] = true
	}
}

func TestOrientationsCube(t *testing.T) {
	got := orientations(model.Dimensions{Length: 25, Width: 25, Height: 25}, false)
	if len(got) != 1 {
		t.Fatalf("expected 1 orientation for a cube, got %d", len(got))
	}
}

func TestOrientationsSquareFace(t *testing.T) {
	// Two equal extents collapse the six permutations to three.
	got := orientations(model.Dimensions{Length: 20, Width: 20, Height: 50}, false)
	if len(got) != 3 {
		t.Fatalf("expected 3 orientations for a square face, got %d", len(got))
	}
}

func TestOrientationsKeepUpright(t *testing.T) {
	got := orientations(model.Dimensions{Length: 30, Width: 20, Height: 10}, true)
	if len(got) != 2 {
		t.Fatalf("expected 2 upright orientations, got %d", len(got))
	}
	for _, o := range got {
		if math.Abs(o.Height-10) > dimTolerance {
			t.Errorf("keep-upright orientation changed height: %v", o)
		}
	}
}

func TestOrientationsKeepUprightCube(t *testing.T) {
	got := orientations(model.Dimensions{Length: 25, Width: 25, Height: 25}, true)
	if len(got) != 1 {
		t.Fatalf("expected 1 orientation for an upright cube, got %d", len(got))
	}
}

func TestOrientationsNearEqualDimsDeduplicate(t *testing.T) {
	// Extents within the 0.1 tolerance are treated as equal.
	got := orientations(model.Dimensions{Length: 25, Width: 25.05, Height: 25}, false)
	if len(got) != 1 {
		t.Fatalf("expected near-cube to deduplicate to 1 orientation, got %d", len(got))
	}
}
