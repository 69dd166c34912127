package engine

import (
	"sort"

	"github.com/loadwise/loadplan/internal/model"
)

// assembleResult turns the winning placement into the reported result:
// remaining counts per finite-quantity type, volume utilization and the
// loading layers. The result is built fresh per run and owned by the caller.
func assembleResult(input model.PackingInput, best placement) model.PackingResult {
	placedPerType := make(map[string]int, len(input.Packages))
	var usedVolume float64
	for _, item := range best.items {
		placedPerType[item.PackageID]++
		usedVolume += item.Volume()
	}

	var unplaced []model.PackageType
	for _, pkg := range input.Packages {
		if pkg.IsFill() {
			// Fill demand was never bounded, so no remainder is tracked.
			continue
		}
		if remaining := pkg.Quantity - placedPerType[pkg.ID]; remaining > 0 {
			left := pkg
			left.Quantity = remaining
			unplaced = append(unplaced, left)
		}
	}

	utilization := 0.0
	if cv := input.Container.Volume(); cv > 0 {
		utilization = usedVolume / cv * 100
	}

	return model.PackingResult{
		Container:         input.Container,
		Items:             best.items,
		Unplaced:          unplaced,
		VolumeUtilization: utilization,
		TotalItemsPacked:  len(best.items),
		Layers:            layerDepths(best.items),
	}
}

// layerDepths returns the sorted unique z start depths of the placed items.
// Depths within dimTolerance of the previous layer merge into it, so float
// noise cannot split one loading step into several.
func layerDepths(items []model.PlacedItem) []float64 {
	if len(items) == 0 {
		return nil
	}

	depths := make([]float64, 0, len(items))
	for _, it := range items {
		depths = append(depths, it.Z)
	}
	sort.Float64s(depths)

	layers := []float64{depths[0]}
	for _, z := range depths[1:] {
		if z-layers[len(layers)-1] > dimTolerance {
			layers = append(layers, z)
		}
	}
	return layers
}

// LayerIndex returns the index of the loading layer an item starts in, or 0
// when layers is empty. Exporters use this to group items into steps.
func LayerIndex(layers []float64, z float64) int {
	for i := len(layers) - 1; i >= 0; i-- {
		if z >= layers[i]-dimTolerance {
			return i
		}
	}
	return 0
}
