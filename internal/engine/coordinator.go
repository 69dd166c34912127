package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/loadwise/loadplan/internal/model"
)

const (
	// maxSearchInstances caps the number of parallel search goroutines.
	maxSearchInstances = 4

	// fillCapPerType bounds the expansion of fill-mode (unbounded demand)
	// package types. Instances beyond the cap are never generated and are
	// not reported as unplaced; that is the fill-mode contract.
	fillCapPerType = 1000

	// maxTotalItems caps the overall expanded item count per run.
	maxTotalItems = 5000
)

// Progress is a snapshot of coordinated search progress. Percent is
// monotonically non-decreasing within one Optimize call.
type Progress struct {
	Completed int // generations finished across all instances
	Total     int
	Percent   float64
	Message   string
}

// ProgressFunc receives progress snapshots during a search. Calls are
// serialized by the coordinator, never concurrent.
type ProgressFunc func(Progress)

// Coordinator runs several independently seeded genetic searches in parallel
// and keeps the single best placement. A zero Config uses defaults; a zero
// Seed derives instance seeds from the clock.
type Coordinator struct {
	Config   GeneticConfig
	Progress ProgressFunc
	Seed     int64
}

// New returns a Coordinator with the given search configuration.
func New(config GeneticConfig) *Coordinator {
	return &Coordinator{Config: config}
}

// Optimize expands the input packages into item instances, fans them out to
// min(NumCPU, 4) search instances with diverse seed strategies and private
// item copies, waits for all of them, and assembles the best result. The
// first instance error cancels the siblings and fails the whole operation;
// no partial result is returned.
func (c *Coordinator) Optimize(ctx context.Context, input model.PackingInput) (model.PackingResult, error) {
	items := expandItems(input.Packages)
	if len(items) == 0 || input.Container.Volume() <= 0 {
		return assembleResult(input, placement{}), nil
	}

	config := c.Config
	if config.PopulationSize <= 0 {
		config = DefaultGeneticConfig()
	}
	config = config.scaleForItemCount(len(items))

	instances := runtime.NumCPU()
	if instances > maxSearchInstances {
		instances = maxSearchInstances
	}
	if instances < 1 {
		instances = 1
	}

	// Instances beyond the named strategies fall back to random shuffles
	// with distinct RNG seeds.
	strategies := []SeedStrategy{SeedVolumeDesc, SeedFootprintDesc, SeedRandom, SeedRandom}

	baseSeed := c.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	total := instances * config.Generations
	var mu sync.Mutex
	completed := 0
	report := func() {
		if c.Progress == nil {
			return
		}
		mu.Lock()
		completed++
		snap := Progress{
			Completed: completed,
			Total:     total,
			Percent:   float64(completed) / float64(total) * 100,
			Message:   fmt.Sprintf("evaluated %d of %d generations", completed, total),
		}
		c.Progress(snap)
		mu.Unlock()
	}

	results := make([]placement, instances)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < instances; i++ {
		g.Go(func() error {
			// Each instance owns a private copy of the expanded items;
			// nothing mutable is shared across instances.
			local := make([]itemInstance, len(items))
			copy(local, items)

			strategy := strategies[i%len(strategies)]
			search := newGeneticSearch(input.Container, config, local, strategy, baseSeed+int64(i)*7919)
			best, err := search.run(ctx, func(int) { report() })
			if err != nil {
				return fmt.Errorf("search instance %d (%s): %w", i, strategy, err)
			}
			results[i] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.PackingResult{}, err
	}

	// Max-of-N selection: instance results are never merged.
	best := results[0]
	for _, r := range results[1:] {
		if r.volume > best.volume {
			best = r
		}
	}
	return assembleResult(input, best), nil
}

// GreedyPack runs a single volume-descending greedy placement without the
// genetic search. It is deterministic and fast, and serves as the baseline
// the ordering search improves on.
func GreedyPack(input model.PackingInput) model.PackingResult {
	items := expandItems(input.Packages)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].volume > items[j].volume
	})
	return assembleResult(input, placeItems(input.Container, items))
}

// expandItems turns package types into concrete item instances. Finite
// quantities expand exactly; fill types expand up to fillCapPerType. The
// overall count is capped at maxTotalItems.
func expandItems(packages []model.PackageType) []itemInstance {
	var items []itemInstance
	for _, pkg := range packages {
		count := pkg.Quantity
		if pkg.IsFill() {
			count = fillCapPerType
		}
		for n := 0; n < count; n++ {
			if len(items) == maxTotalItems {
				return items
			}
			items = append(items, itemInstance{pkg: pkg, seq: len(items), volume: pkg.Volume()})
		}
	}
	return items
}
