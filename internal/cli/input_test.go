package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/loadplan/internal/model"
	"github.com/loadwise/loadplan/internal/project"
)

func TestParseContainer(t *testing.T) {
	d, err := parseContainer("1203x235x269")
	require.NoError(t, err)
	assert.Equal(t, model.Dimensions{Length: 1203, Width: 235, Height: 269}, d)

	d, err = parseContainer("100 X 50 x 25")
	require.NoError(t, err)
	assert.Equal(t, model.Dimensions{Length: 100, Width: 50, Height: 25}, d)
}

func TestParseContainerRejectsBadInput(t *testing.T) {
	for _, s := range []string{"", "100x50", "100x50x25x10", "axbxc", "100x-5x25", "100x0x25"} {
		_, err := parseContainer(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestLoadInputCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.csv")
	csv := "label,length,width,height,qty\nCrate,120,80,100,4\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	container := model.Dimensions{Length: 1203, Width: 235, Height: 269}
	input, err := loadInput(context.Background(), path, container, false)
	require.NoError(t, err)

	assert.Equal(t, container, input.Container)
	require.Len(t, input.Packages, 1)
	assert.Equal(t, "Crate", input.Packages[0].Label)
}

func TestLoadInputRejectsUnknownFormat(t *testing.T) {
	_, err := loadInput(context.Background(), "packages.txt", model.Dimensions{}, false)
	assert.Error(t, err)
}

func TestLoadInputPackingInputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	doc := `{"container":{"length":100,"width":100,"height":100},"packages":[{"id":"ab12cd34","label":"Box","length":50,"width":50,"height":50,"quantity":2}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	input, err := loadInput(context.Background(), path, model.Dimensions{}, false)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, input.Container.Length, 1e-9)
	require.Len(t, input.Packages, 1)
	assert.Equal(t, 2, input.Packages[0].Quantity)
}

func TestLoadInputSavedPlanJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")

	plan := model.NewPlan("saved")
	plan.Input = model.PackingInput{
		Container: model.Dimensions{Length: 200, Width: 100, Height: 100},
		Packages:  []model.PackageType{model.NewPackageType("Crate", 50, 50, 50, 3)},
	}
	require.NoError(t, project.SavePlan(path, plan))

	input, err := loadInput(context.Background(), path, model.Dimensions{}, false)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, input.Container.Length, 1e-9)
	require.Len(t, input.Packages, 1)
}

func TestLoadInputSavedPlanExplicitContainerWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")

	plan := model.NewPlan("saved")
	plan.Input = model.PackingInput{
		Container: model.Dimensions{Length: 200, Width: 100, Height: 100},
		Packages:  []model.PackageType{model.NewPackageType("Crate", 50, 50, 50, 3)},
	}
	require.NoError(t, project.SavePlan(path, plan))

	flagged := model.Dimensions{Length: 600, Width: 240, Height: 260}
	input, err := loadInput(context.Background(), path, flagged, true)
	require.NoError(t, err)
	assert.Equal(t, flagged, input.Container, "an explicit container flag overrides the saved plan's container")
}

func TestLoadInputJSONExplicitContainerWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	doc := `{"container":{"length":100,"width":100,"height":100},"packages":[{"id":"ab12cd34","label":"Box","length":50,"width":50,"height":50,"quantity":2}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	flagged := model.Dimensions{Length: 600, Width: 240, Height: 260}
	input, err := loadInput(context.Background(), path, flagged, true)
	require.NoError(t, err)
	assert.Equal(t, flagged, input.Container)
}

func TestLoadInputJSONUsesDefaultContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	doc := `{"packages":[{"id":"ab12cd34","label":"Box","length":50,"width":50,"height":50,"quantity":2}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	fallback := model.Dimensions{Length: 100, Width: 100, Height: 100}
	input, err := loadInput(context.Background(), path, fallback, false)
	require.NoError(t, err)
	assert.Equal(t, fallback, input.Container)
}

func TestWriteJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeJSON(path, map[string]int{"a": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a": 1`)
}
