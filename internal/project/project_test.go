package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/loadplan/internal/model"
)

func testPlan() model.Plan {
	plan := model.NewPlan("Warehouse run 14")
	plan.Input = model.PackingInput{
		Container: model.Dimensions{Length: 1203, Width: 235, Height: 269},
		Packages: []model.PackageType{
			model.NewPackageType("Crate", 120, 80, 100, 4),
		},
	}
	return plan
}

func TestSaveAndLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "run14.json")
	require.NoError(t, SavePlan(path, testPlan()))

	loaded, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "Warehouse run 14", loaded.Name)
	require.Len(t, loaded.Input.Packages, 1)
	assert.Equal(t, "Crate", loaded.Input.Packages[0].Label)
	assert.InDelta(t, 1203.0, loaded.Input.Container.Length, 1e-9)
}

func TestSavePlanBacksUpExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.json")

	require.NoError(t, SavePlan(path, testPlan()))
	require.NoError(t, SavePlan(path, testPlan()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	backups := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".bak" {
			backups++
		}
	}
	assert.Equal(t, 1, backups, "overwriting must leave one backup")
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadPlanRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadPlan(path)
	assert.Error(t, err)
}

func TestLoadPlanRejectsMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nover.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"plan":{"name":"x"}}`), 0644))

	_, err := LoadPlan(path)
	assert.Error(t, err)
}

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.json")

	config := model.DefaultAppConfig()
	config.AddRecentPlan("/tmp/a.json", 10)
	config.LastExportDir = "/tmp/exports"

	require.NoError(t, SaveAppConfig(path, config))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.RecentPlans, loaded.RecentPlans)
	assert.Equal(t, "/tmp/exports", loaded.LastExportDir)
}

func TestLoadAppConfigMissingFileReturnsDefault(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	def := model.DefaultAppConfig()
	assert.Equal(t, def.DefaultContainer, loaded.DefaultContainer)
	assert.NotNil(t, loaded.RecentPlans)
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, "config.json", filepath.Base(path))
	assert.Contains(t, path, ".loadplan")
}
