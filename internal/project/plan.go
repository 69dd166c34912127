package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/loadwise/loadplan/internal/model"
)

// planVersion is written into every saved plan file.
const planVersion = "1.0.0"

// planFile is the on-disk envelope for a saved plan.
type planFile struct {
	Version string     `json:"version"`
	SavedAt string     `json:"saved_at"`
	Plan    model.Plan `json:"plan"`
}

// SavePlan persists a plan to the given path as JSON, creating parent
// directories as needed. An existing file at the path is backed up with a
// timestamp suffix before it is overwritten.
func SavePlan(path string, plan model.Plan) error {
	envelope := planFile{
		Version: planVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Plan:    plan,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := backupPlan(path); err != nil {
			return fmt.Errorf("failed to back up existing plan: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// LoadPlan reads a plan from the given path.
func LoadPlan(path string) (model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to read plan file: %w", err)
	}
	var envelope planFile
	if err := json.Unmarshal(data, &envelope); err != nil {
		return model.Plan{}, fmt.Errorf("failed to parse plan file: %w", err)
	}
	if envelope.Version == "" {
		return model.Plan{}, fmt.Errorf("invalid plan file: missing version field")
	}
	return envelope.Plan, nil
}

// backupPlan copies the file at path to path.YYYYMMDD-HHMMSS.bak.
func backupPlan(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	return os.WriteFile(backupPath, data, 0644)
}
