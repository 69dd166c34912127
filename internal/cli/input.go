package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/loadwise/loadplan/internal/importer"
	"github.com/loadwise/loadplan/internal/model"
	"github.com/loadwise/loadplan/internal/project"
)

// parseContainer parses a "LxWxH" dimension string in centimeters.
func parseContainer(s string) (model.Dimensions, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 3 {
		return model.Dimensions{}, fmt.Errorf("container must be LxWxH in cm, got %q", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 {
			return model.Dimensions{}, fmt.Errorf("invalid container dimension %q", p)
		}
		vals[i] = v
	}
	return model.Dimensions{Length: vals[0], Width: vals[1], Height: vals[2]}, nil
}

// resolveContainer returns the container dimensions from the --container flag
// or, when the flag is empty, from the saved application config.
func resolveContainer(flag string) (model.Dimensions, error) {
	if flag != "" {
		return parseContainer(flag)
	}
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		return model.Dimensions{}, fmt.Errorf("failed to load config: %w", err)
	}
	return config.DefaultContainer, nil
}

// loadInput reads a package list from path (CSV, XLSX, or JSON) and combines
// it with the container dimensions into a PackingInput. JSON files may be
// either a raw PackingInput or a plan saved by this tool; containerSet marks
// an explicitly flagged container, which wins over one stored in the file.
func loadInput(ctx context.Context, path string, container model.Dimensions, containerSet bool) (model.PackingInput, error) {
	logger := loggerFromContext(ctx)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return inputFromImport(importer.ImportCSV(path), container, logger.Warn)
	case ".xlsx", ".xls":
		return inputFromImport(importer.ImportExcel(path), container, logger.Warn)
	case ".json":
		return inputFromJSON(path, container, containerSet)
	default:
		return model.PackingInput{}, fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

func inputFromImport(result importer.ImportResult, container model.Dimensions, warn func(msg interface{}, keyvals ...interface{})) (model.PackingInput, error) {
	for _, w := range result.Warnings {
		warn(w)
	}
	if len(result.Errors) > 0 {
		return model.PackingInput{}, fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
	}
	if len(result.Packages) == 0 {
		return model.PackingInput{}, fmt.Errorf("no packages found in input")
	}
	return model.PackingInput{Container: container, Packages: result.Packages}, nil
}

func inputFromJSON(path string, container model.Dimensions, containerSet bool) (model.PackingInput, error) {
	if plan, err := project.LoadPlan(path); err == nil {
		input := plan.Input
		if containerSet {
			input.Container = container
		}
		return input, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.PackingInput{}, fmt.Errorf("failed to read input file: %w", err)
	}
	var input model.PackingInput
	if err := json.Unmarshal(data, &input); err != nil {
		return model.PackingInput{}, fmt.Errorf("failed to parse input file: %w", err)
	}
	if len(input.Packages) == 0 {
		return model.PackingInput{}, fmt.Errorf("no packages found in input")
	}
	if containerSet || input.Container.Volume() == 0 {
		input.Container = container
	}
	return input, nil
}

// writeJSON marshals v with indentation to path, or to stdout if path is empty.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0644)
}
