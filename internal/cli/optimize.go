package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/loadwise/loadplan/internal/engine"
	"github.com/loadwise/loadplan/internal/export"
	"github.com/loadwise/loadplan/internal/model"
	"github.com/loadwise/loadplan/internal/project"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	container string // container dimensions as "LxWxH" in cm
	output    string // result JSON path (stdout if empty)
	pdfPath   string
	labels    string
	xlsxPath  string
	dxfPath   string
	savePlan  string // save input and result as a reloadable plan
	planName  string
	quick     bool // fewer generations for a fast draft
	greedy    bool // skip the search entirely
	seed      int64
}

func newOptimizeCmd() *cobra.Command {
	var opts optimizeOpts

	cmd := &cobra.Command{
		Use:   "optimize <packages-file>",
		Short: "Pack a package list into a container",
		Long: `Pack a package list into a container and emit the load plan as JSON.

The input may be a CSV or XLSX package list, a PackingInput JSON document, or
a previously saved plan. Use the export flags to additionally write PDF, QR
label, XLSX manifest, or DXF outputs.

Examples:
  loadplan optimize packages.csv --container 1203x235x269
  loadplan optimize packages.xlsx -o result.json --pdf plan.pdf
  loadplan optimize run14.json --quick --dxf floor.dxf`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runOptimize(c, &opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.container, "container", "c", "", "container dimensions as LxWxH in cm (default from config)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "result JSON file (stdout if empty)")
	cmd.Flags().StringVar(&opts.pdfPath, "pdf", "", "write a PDF load plan to this path")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write QR item labels (PDF) to this path")
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "write an XLSX manifest to this path")
	cmd.Flags().StringVar(&opts.dxfPath, "dxf", "", "write a top-down DXF plan to this path")
	cmd.Flags().StringVar(&opts.savePlan, "save-plan", "", "save input and result as a plan file")
	cmd.Flags().StringVar(&opts.planName, "name", "", "plan name used with --save-plan")
	cmd.Flags().BoolVar(&opts.quick, "quick", false, "run a shorter search for a fast draft")
	cmd.Flags().BoolVar(&opts.greedy, "greedy", false, "skip the search and use the greedy baseline")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (0 means time-derived)")

	return cmd
}

func runOptimize(cmd *cobra.Command, opts *optimizeOpts, inputPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	container, err := resolveContainer(opts.container)
	if err != nil {
		return err
	}

	input, err := loadInput(ctx, inputPath, container, opts.container != "")
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d package types, container %.0fx%.0fx%.0f cm",
		len(input.Packages), input.Container.Length, input.Container.Width, input.Container.Height)

	config := engine.DefaultGeneticConfig()
	if opts.quick {
		config.Generations /= 4
		config.PopulationSize /= 2
	}

	track := newProgress(logger)
	var result model.PackingResult
	if opts.greedy {
		result = engine.GreedyPack(input)
	} else {
		coord := engine.New(config)
		coord.Seed = opts.seed
		coord.Progress = func(p engine.Progress) {
			logger.Debugf("%s: %.0f%%", p.Message, p.Percent)
		}
		result, err = coord.Optimize(ctx, input)
		if err != nil {
			return err
		}
	}
	track.done(fmt.Sprintf("Packed %d items at %.1f%% utilization in %d steps",
		result.TotalItemsPacked, result.VolumeUtilization, len(result.Layers)))

	for _, u := range result.Unplaced {
		logger.Warnf("Did not fit: %s x%d", u.Label, u.Quantity)
	}

	if err := writeJSON(opts.output, result); err != nil {
		return err
	}

	if err := runExports(opts, result, logger.Infof); err != nil {
		return err
	}

	if opts.savePlan != "" {
		plan := model.NewPlan(opts.planName)
		plan.Input = input
		plan.Result = &result
		if err := project.SavePlan(opts.savePlan, plan); err != nil {
			return err
		}
		logger.Infof("Saved plan to %s", opts.savePlan)
	}

	if exportDir := firstExportDir(opts); opts.savePlan != "" || exportDir != "" {
		if err := updateAppConfig(project.DefaultConfigPath(), opts.savePlan, exportDir); err != nil {
			return err
		}
	}

	return nil
}

// maxRecentPlans bounds the recent-plan list in the app config.
const maxRecentPlans = 10

// firstExportDir returns the directory of the first requested export, or ""
// when no exports were requested.
func firstExportDir(opts *optimizeOpts) string {
	for _, p := range []string{opts.pdfPath, opts.labels, opts.xlsxPath, opts.dxfPath} {
		if p != "" {
			return filepath.Dir(p)
		}
	}
	return ""
}

// updateAppConfig records a saved plan and the last export directory in the
// persisted application config.
func updateAppConfig(configPath, planPath, exportDir string) error {
	config, err := project.LoadAppConfig(configPath)
	if err != nil {
		return err
	}
	if planPath != "" {
		config.AddRecentPlan(planPath, maxRecentPlans)
	}
	if exportDir != "" {
		config.LastExportDir = exportDir
	}
	return project.SaveAppConfig(configPath, config)
}

// runExports writes each requested export format.
func runExports(opts *optimizeOpts, result model.PackingResult, report func(string, ...interface{})) error {
	exports := []struct {
		path string
		name string
		fn   func(string, model.PackingResult) error
	}{
		{opts.pdfPath, "PDF load plan", export.ExportPDF},
		{opts.labels, "QR labels", export.ExportLabels},
		{opts.xlsxPath, "XLSX manifest", export.ExportXLSX},
		{opts.dxfPath, "DXF plan", export.ExportDXF},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := e.fn(e.path, result); err != nil {
			return fmt.Errorf("failed to export %s: %w", e.name, err)
		}
		report("Wrote %s to %s", e.name, e.path)
	}
	return nil
}
