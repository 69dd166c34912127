package engine

import (
	"context"
	"math/rand"
	"sort"

	"github.com/loadwise/loadplan/internal/model"
)

// GeneticConfig holds parameters for the ordering search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	SurvivorCount  int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 30,
		Generations:    60,
		MutationRate:   0.2,
		SurvivorCount:  10,
	}
}

// scaleForItemCount shrinks the population and generation counts for large
// expanded item counts, keeping a single run's cost bounded. The run is
// time-budgeted by generation count, not convergence.
func (c GeneticConfig) scaleForItemCount(n int) GeneticConfig {
	if n > 200 {
		c.PopulationSize = 16
		c.Generations = 30
	}
	if n > 1000 {
		c.PopulationSize = 10
		c.Generations = 15
	}
	if c.SurvivorCount > c.PopulationSize/2 {
		c.SurvivorCount = c.PopulationSize / 2
	}
	if c.SurvivorCount < 2 {
		c.SurvivorCount = 2
	}
	if c.SurvivorCount > c.PopulationSize {
		c.SurvivorCount = c.PopulationSize
	}
	return c
}

// SeedStrategy selects how a search instance builds its first informed
// ordering, diversifying the starting basin across parallel instances.
type SeedStrategy int

const (
	SeedVolumeDesc    SeedStrategy = iota // largest volume first
	SeedFootprintDesc                     // largest base extent first
	SeedRandom                            // uniform random shuffle
)

func (s SeedStrategy) String() string {
	switch s {
	case SeedVolumeDesc:
		return "volume-desc"
	case SeedFootprintDesc:
		return "footprint-desc"
	default:
		return "random"
	}
}

// chromosome is a candidate ordering of all item instances offered to the
// greedy placer.
type chromosome struct {
	order   []itemInstance
	fitness float64 // total placed volume
}

// geneticSearch evolves item orderings for a fixed container, retaining the
// best placement seen across all generations.
type geneticSearch struct {
	container model.Dimensions
	config    GeneticConfig
	items     []itemInstance
	strategy  SeedStrategy
	rng       *rand.Rand

	best       placement
	bestVolume float64
}

func newGeneticSearch(container model.Dimensions, config GeneticConfig, items []itemInstance, strategy SeedStrategy, seed int64) *geneticSearch {
	return &geneticSearch{
		container: container,
		config:    config,
		items:     items,
		strategy:  strategy,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// run executes the configured number of generations and returns the best
// placement found. ctx is observed only at generation boundaries, so a
// placement pass always completes once started; report, when non-nil, is
// invoked after every finished generation.
func (g *geneticSearch) run(ctx context.Context, report func(generation int)) (placement, error) {
	if len(g.items) == 0 {
		return placement{}, nil
	}

	population := g.initPopulation()

	for gen := 0; gen < g.config.Generations; gen++ {
		select {
		case <-ctx.Done():
			return placement{}, ctx.Err()
		default:
		}

		for i := range population {
			g.evaluate(&population[i])
		}

		// Top-K survivors by fitness. Offspring bred after the last
		// evaluation would never be scored, so the final generation
		// skips breeding.
		if gen+1 < g.config.Generations {
			sort.SliceStable(population, func(i, j int) bool {
				return population[i].fitness > population[j].fitness
			})
			survivors := population[:g.config.SurvivorCount]

			next := make([]chromosome, 0, g.config.PopulationSize)
			for len(next) < g.config.PopulationSize {
				p1 := survivors[g.rng.Intn(len(survivors))]
				p2 := survivors[g.rng.Intn(len(survivors))]
				child := g.crossover(p1, p2)
				if g.rng.Float64() < g.config.MutationRate {
					g.mutate(&child)
				}
				next = append(next, child)
			}
			population = next
		}

		if report != nil {
			report(gen + 1)
		}
	}

	return g.best, nil
}

// initPopulation seeds the population with the instance's own strategy
// ordering plus the two informed heuristics, then fills the remainder with
// random shuffles.
func (g *geneticSearch) initPopulation() []chromosome {
	seeds := []SeedStrategy{g.strategy, SeedVolumeDesc, SeedFootprintDesc}

	population := make([]chromosome, 0, g.config.PopulationSize)
	for _, s := range seeds {
		if len(population) == g.config.PopulationSize {
			break
		}
		population = append(population, chromosome{order: g.orderedBy(s)})
	}
	for len(population) < g.config.PopulationSize {
		population = append(population, chromosome{order: g.orderedBy(SeedRandom)})
	}
	return population
}

// orderedBy returns a fresh copy of the items arranged per the strategy.
func (g *geneticSearch) orderedBy(s SeedStrategy) []itemInstance {
	order := make([]itemInstance, len(g.items))
	copy(order, g.items)

	switch s {
	case SeedVolumeDesc:
		sort.SliceStable(order, func(i, j int) bool {
			return order[i].volume > order[j].volume
		})
	case SeedFootprintDesc:
		sort.SliceStable(order, func(i, j int) bool {
			return maxBaseExtent(order[i].pkg) > maxBaseExtent(order[j].pkg)
		})
	default:
		g.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return order
}

// maxBaseExtent returns the largest footprint dimension of a package.
func maxBaseExtent(p model.PackageType) float64 {
	if p.Width > p.Length {
		return p.Width
	}
	return p.Length
}

// evaluate decodes the chromosome through the greedy placer and records the
// achieved volume. The best placement ever seen is retained, so a later,
// worse generation can never lose it.
func (g *geneticSearch) evaluate(c *chromosome) {
	p := placeItems(g.container, c.order)
	c.fitness = p.volume
	if p.volume > g.bestVolume || g.best.items == nil {
		g.best = p
		g.bestVolume = p.volume
	}
}

// crossover keeps the first half of parent a's ordering and appends parent
// b's items in b's order, skipping items already taken. The child is always
// a valid permutation with no duplicates or omissions.
func (g *geneticSearch) crossover(a, b chromosome) chromosome {
	n := len(a.order)
	cut := n / 2

	child := make([]itemInstance, 0, n)
	taken := make(map[int]bool, cut)
	for _, inst := range a.order[:cut] {
		child = append(child, inst)
		taken[inst.seq] = true
	}
	for _, inst := range b.order {
		if !taken[inst.seq] {
			child = append(child, inst)
		}
	}
	return chromosome{order: child}
}

// mutate swaps two random positions in the ordering.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.order)
	if n < 2 {
		return
	}
	i, j := g.rng.Intn(n), g.rng.Intn(n)
	c.order[i], c.order[j] = c.order[j], c.order[i]
}
