package engine

import (
	"sort"

	"github.com/loadwise/loadplan/internal/model"
)

const (
	// maxPlacementIterations is a hard cap on anchor-selection rounds per
	// placement pass, guaranteeing termination on any input.
	maxPlacementIterations = 20000

	// queueSearchDepth bounds how deep into the item queue each anchor
	// scans. Small queues are scanned in full.
	queueSearchDepth = 200

	// boundsSlack absorbs float drift in bounds and overlap tests, so boxes
	// that tile an axis exactly still fit.
	boundsSlack = 0.001
)

// itemInstance is one concrete box expanded from a package type. Instances
// are scratch state owned by a single optimization run and never escape the
// engine.
type itemInstance struct {
	pkg    model.PackageType
	seq    int
	volume float64
}

// anchor is a candidate insertion point derived from the far corners of
// previously placed items.
type anchor struct {
	x, y, z float64
}

// placement is the outcome of one greedy packing pass.
type placement struct {
	items  []model.PlacedItem
	volume float64
}

// placeItems greedily packs the queue into the container in the given order.
// Anchors drain back-to-front, bottom-to-top, left-to-right; at each anchor
// the first item/orientation pair that fits is accepted and the far corners
// of the new box become fresh anchors. Anchors where nothing fits are
// discarded permanently. The function is a pure function of its arguments:
// the same container and queue always yield the identical placement.
func placeItems(container model.Dimensions, queue []itemInstance) placement {
	anchors := []anchor{{}}
	var placed []model.PlacedItem
	var volume float64

	remaining := make([]itemInstance, len(queue))
	copy(remaining, queue)

	for iter := 0; iter < maxPlacementIterations; iter++ {
		if len(anchors) == 0 || len(remaining) == 0 {
			break
		}

		sortAnchors(anchors)
		a := anchors[0]

		depth := len(remaining)
		if depth > queueSearchDepth {
			depth = queueSearchDepth
		}

		itemIdx := -1
		var chosen model.Dimensions
	scan:
		for i := 0; i < depth; i++ {
			inst := remaining[i]
			for _, o := range orientations(inst.pkg.Dims(), inst.pkg.KeepUpright) {
				if !fitsAt(container, a, o) {
					continue
				}
				if overlapsAny(placed, a, o) {
					continue
				}
				itemIdx = i
				chosen = o
				break scan
			}
		}

		if itemIdx < 0 {
			// Nothing reachable fits here; retire the anchor, no retry.
			anchors = anchors[1:]
			continue
		}

		inst := remaining[itemIdx]
		placed = append(placed, model.PlacedItem{
			PackageID: inst.pkg.ID,
			Label:     inst.pkg.Label,
			Color:     inst.pkg.Color,
			X:         a.x,
			Y:         a.y,
			Z:         a.z,
			Width:     chosen.Width,
			Height:    chosen.Height,
			Length:    chosen.Length,
		})
		volume += chosen.Volume()

		remaining = append(remaining[:itemIdx], remaining[itemIdx+1:]...)
		anchors = append(anchors[1:],
			anchor{x: a.x, y: a.y + chosen.Height, z: a.z}, // top
			anchor{x: a.x + chosen.Width, y: a.y, z: a.z},  // right
			anchor{x: a.x, y: a.y, z: a.z + chosen.Length}, // front
		)
	}

	return placement{items: placed, volume: volume}
}

// sortAnchors orders candidate points by z, then y, then x ascending.
// Coordinates within dimTolerance count as tied so float noise cannot flip
// the fill direction.
func sortAnchors(anchors []anchor) {
	sort.SliceStable(anchors, func(i, j int) bool {
		a, b := anchors[i], anchors[j]
		if diff := a.z - b.z; diff < -dimTolerance || diff > dimTolerance {
			return a.z < b.z
		}
		if diff := a.y - b.y; diff < -dimTolerance || diff > dimTolerance {
			return a.y < b.y
		}
		return a.x < b.x-dimTolerance
	})
}

// fitsAt reports whether a box with extents o placed at anchor a stays
// inside the container.
func fitsAt(c model.Dimensions, a anchor, o model.Dimensions) bool {
	return a.x+o.Width <= c.Width+boundsSlack &&
		a.y+o.Height <= c.Height+boundsSlack &&
		a.z+o.Length <= c.Length+boundsSlack
}

// overlapsAny tests the candidate box against every placed item. The axes
// are checked z first, then y, then x: anchors drain back-to-front, so the
// z interval test rejects most placed items immediately.
func overlapsAny(placed []model.PlacedItem, a anchor, o model.Dimensions) bool {
	for i := range placed {
		p := &placed[i]
		if a.z+o.Length <= p.Z+boundsSlack || p.Z+p.Length <= a.z+boundsSlack {
			continue
		}
		if a.y+o.Height <= p.Y+boundsSlack || p.Y+p.Height <= a.y+boundsSlack {
			continue
		}
		if a.x+o.Width <= p.X+boundsSlack || p.X+p.Width <= a.x+boundsSlack {
			continue
		}
		return true
	}
	return false
}
