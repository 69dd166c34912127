// Package engine implements the placement and search core: a greedy
// extreme-point 3D packer, an orientation enumerator, a genetic ordering
// search and a coordinator that runs several searches in parallel.
package engine

import (
	"math"

	"github.com/loadwise/loadplan/internal/model"
)

// dimTolerance treats near-equal coordinates and extents as identical, to
// absorb floating point drift from repeated additions. The tolerance is a
// fixed absolute value in centimeters, not scaled to the container.
const dimTolerance = 0.1

// orientations returns the distinct axis-aligned rotations of a box: all six
// permutations of assigning the three extents to the three axes, collapsed by
// signature (a cube yields one entry, a square face three). With keepUpright
// only rotations about the vertical axis survive, so the height extent must
// match the original height. Always returns between 1 and 6 entries.
func orientations(d model.Dimensions, keepUpright bool) []model.Dimensions {
	perms := [6]model.Dimensions{
		{Length: d.Length, Width: d.Width, Height: d.Height},
		{Length: d.Width, Width: d.Length, Height: d.Height},
		{Length: d.Length, Width: d.Height, Height: d.Width},
		{Length: d.Height, Width: d.Length, Height: d.Width},
		{Length: d.Width, Width: d.Height, Height: d.Length},
		{Length: d.Height, Width: d.Width, Height: d.Length},
	}

	out := make([]model.Dimensions, 0, 6)
	for _, o := range perms {
		if keepUpright && math.Abs(o.Height-d.Height) > dimTolerance {
			continue
		}
		dup := false
		for _, seen := range out {
			if sameDims(seen, o) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, o)
		}
	}
	return out
}

// sameDims reports whether two extents are equal within dimTolerance on all
// three axes.
func sameDims(a, b model.Dimensions) bool {
	return math.Abs(a.Length-b.Length) <= dimTolerance &&
		math.Abs(a.Width-b.Width) <= dimTolerance &&
		math.Abs(a.Height-b.Height) <= dimTolerance
}
