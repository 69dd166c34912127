package engine

import (
	"context"

	"github.com/loadwise/loadplan/internal/model"
)

// ComparisonScenario defines a named search configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config GeneticConfig
	Greedy bool // run the single-shot greedy baseline instead of the search
}

// ComparisonResult holds the packing result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PackingResult
	ItemsPacked   int
	WastePercent  float64
	UnplacedCount int
}

// CompareScenarios runs the coordinator for each scenario against the same
// input and returns the results in scenario order. This enables side-by-side
// comparison of search budgets (e.g. quick pass vs. wider search).
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, input model.PackingInput) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		var result model.PackingResult
		if scenario.Greedy {
			result = GreedyPack(input)
		} else {
			var err error
			result, err = New(scenario.Config).Optimize(ctx, input)
			if err != nil {
				return nil, err
			}
		}

		unplacedCount := 0
		for _, u := range result.Unplaced {
			unplacedCount += u.Quantity
		}

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			ItemsPacked:   result.TotalItemsPacked,
			WastePercent:  100.0 - result.VolumeUtilization,
			UnplacedCount: unplacedCount,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates comparison scenarios around a base
// configuration, varying the search budget to show what-if alternatives.
func BuildDefaultScenarios(base GeneticConfig) []ComparisonScenario {
	if base.PopulationSize <= 0 {
		base = DefaultGeneticConfig()
	}

	quick := base
	quick.PopulationSize = base.PopulationSize / 2
	quick.Generations = base.Generations / 4

	wide := base
	wide.Generations = base.Generations * 2

	return []ComparisonScenario{
		{Name: "Greedy Baseline", Greedy: true},
		{Name: "Current Settings", Config: base},
		{Name: "Quick Pass", Config: quick},
		{Name: "Wider Search", Config: wide},
	}
}
