package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/loadplan/internal/model"
)

func TestLayerDepthsMergesNearDuplicates(t *testing.T) {
	items := []model.PlacedItem{
		{Z: 0},
		{Z: 0.05}, // within tolerance of layer 0
		{Z: 50},
		{Z: 50.02},
		{Z: 120},
	}
	layers := layerDepths(items)
	require.Len(t, layers, 3)
	assert.InDelta(t, 0, layers[0], dimTolerance)
	assert.InDelta(t, 50, layers[1], dimTolerance)
	assert.InDelta(t, 120, layers[2], dimTolerance)
}

func TestLayerDepthsEmpty(t *testing.T) {
	assert.Nil(t, layerDepths(nil))
}

func TestLayerIndex(t *testing.T) {
	layers := []float64{0, 50, 120}
	assert.Equal(t, 0, LayerIndex(layers, 0))
	assert.Equal(t, 0, LayerIndex(layers, 0.05))
	assert.Equal(t, 1, LayerIndex(layers, 50))
	assert.Equal(t, 2, LayerIndex(layers, 130))
}

func TestAssembleResultAggregatesRemainders(t *testing.T) {
	pkgA := model.NewPackageType("a", 50, 50, 50, 3)
	pkgB := model.NewPackageType("b", 20, 20, 20, 2)
	fill := model.NewPackageType("f", 10, 10, 10, 0)
	input := model.PackingInput{
		Container: model.Dimensions{Length: 100, Width: 100, Height: 100},
		Packages:  []model.PackageType{pkgA, pkgB, fill},
	}

	best := placement{
		items: []model.PlacedItem{
			{PackageID: pkgA.ID, Width: 50, Height: 50, Length: 50},
			{PackageID: pkgA.ID, Width: 50, Height: 50, Length: 50, X: 50},
			{PackageID: fill.ID, Width: 10, Height: 10, Length: 10, Y: 50},
		},
		volume: 2*50*50*50 + 10*10*10,
	}

	result := assembleResult(input, best)

	assert.Equal(t, 3, result.TotalItemsPacked)
	require.Len(t, result.Unplaced, 2)
	assert.Equal(t, pkgA.ID, result.Unplaced[0].ID)
	assert.Equal(t, 1, result.Unplaced[0].Quantity)
	assert.Equal(t, pkgB.ID, result.Unplaced[1].ID)
	assert.Equal(t, 2, result.Unplaced[1].Quantity)

	expected := (2*50*50*50 + 10*10*10) / input.Container.Volume() * 100
	assert.InDelta(t, expected, result.VolumeUtilization, 1e-9)
}

func TestAssembleResultEmptyPlacement(t *testing.T) {
	input := model.PackingInput{
		Container: model.Dimensions{Length: 100, Width: 100, Height: 100},
		Packages:  []model.PackageType{model.NewPackageType("a", 50, 50, 50, 2)},
	}
	result := assembleResult(input, placement{})

	assert.Zero(t, result.TotalItemsPacked)
	assert.Zero(t, result.VolumeUtilization)
	assert.Nil(t, result.Layers)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, 2, result.Unplaced[0].Quantity)
}
