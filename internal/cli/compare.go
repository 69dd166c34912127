package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/loadwise/loadplan/internal/engine"
)

func newCompareCmd() *cobra.Command {
	var containerFlag string

	cmd := &cobra.Command{
		Use:   "compare <packages-file>",
		Short: "Compare search settings on the same input",
		Long: `Run several search configurations against the same package list and print
a table comparing utilization, waste, and unplaced counts. Useful for judging
whether a longer search is worth the time for a given load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runCompare(c, containerFlag, args[0])
		},
	}

	cmd.Flags().StringVarP(&containerFlag, "container", "c", "", "container dimensions as LxWxH in cm (default from config)")

	return cmd
}

func runCompare(cmd *cobra.Command, containerFlag, inputPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	container, err := resolveContainer(containerFlag)
	if err != nil {
		return err
	}

	input, err := loadInput(ctx, inputPath, container, containerFlag != "")
	if err != nil {
		return err
	}

	scenarios := engine.BuildDefaultScenarios(engine.DefaultGeneticConfig())

	track := newProgress(logger)
	results, err := engine.CompareScenarios(ctx, scenarios, input)
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("Compared %d scenarios", len(results)))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tITEMS\tUTILIZATION\tWASTE\tUNPLACED")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.1f%%\t%d\n",
			r.Scenario.Name, r.ItemsPacked, r.Result.VolumeUtilization, r.WastePercent, r.UnplacedCount)
	}
	return w.Flush()
}
