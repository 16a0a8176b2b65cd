package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"slices"

	"github.com/samber/lo"
)

// loadRoundTable reads and validates the authored ordering rounds.
// Violations are configuration errors and fail loudly at startup.
func loadRoundTable(path string) (map[string][]AuthoredRound, error) {
	logInfo("Loading round table from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rt RoundTable
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, err
	}
	for tier, rounds := range rt.Rounds {
		if !isKnownDifficulty(tier) {
			return nil, fmt.Errorf("round table: unknown difficulty %q", tier)
		}
		if len(rounds) == 0 {
			return nil, fmt.Errorf("round table: difficulty %q has no rounds", tier)
		}
		for i, r := range rounds {
			if err := validateAuthoredRound(r); err != nil {
				return nil, fmt.Errorf("round table: %s round %d: %w", tier, i, err)
			}
		}
	}
	total := lo.SumBy(lo.Values(rt.Rounds), func(rs []AuthoredRound) int { return len(rs) })
	logInfo("Successfully loaded %d rounds across %d difficulties", total, len(rt.Rounds))
	return rt.Rounds, nil
}

// validateAuthoredRound checks the permutation invariant: TargetOrder
// must contain every item id exactly once, no more and no less.
func validateAuthoredRound(r AuthoredRound) error {
	if len(r.Items) == 0 {
		return fmt.Errorf("no items")
	}
	if r.TimeLimitSeconds <= 0 {
		return fmt.Errorf("non-positive time limit %d", r.TimeLimitSeconds)
	}
	if len(r.TargetOrder) != len(r.Items) {
		return fmt.Errorf("target order has %d entries for %d items", len(r.TargetOrder), len(r.Items))
	}
	ids := lo.Map(r.Items, func(it Item, _ int) string { return it.ID })
	if len(lo.Uniq(ids)) != len(ids) {
		return fmt.Errorf("duplicate item ids")
	}
	for _, id := range r.TargetOrder {
		if !slices.Contains(ids, id) {
			return fmt.Errorf("target order references unknown item %q", id)
		}
	}
	if len(lo.Uniq(r.TargetOrder)) != len(r.TargetOrder) {
		return fmt.Errorf("target order repeats an item")
	}
	if len(r.Clues) == 0 {
		return fmt.Errorf("no clues")
	}
	return nil
}

// loadGridTable reads and validates grid specs per difficulty.
func loadGridTable(path string) (map[string]GridSpec, error) {
	logInfo("Loading grid table from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var gt GridTable
	if err := json.Unmarshal(data, &gt); err != nil {
		return nil, err
	}
	for tier, spec := range gt.Grids {
		if !isKnownDifficulty(tier) {
			return nil, fmt.Errorf("grid table: unknown difficulty %q", tier)
		}
		if err := validateGridSpec(spec); err != nil {
			return nil, fmt.Errorf("grid table: %s: %w", tier, err)
		}
	}
	logInfo("Successfully loaded %d grid specs", len(gt.Grids))
	return gt.Grids, nil
}

func validateGridSpec(spec GridSpec) error {
	if spec.TotalCells <= 0 {
		return fmt.Errorf("non-positive cell count %d", spec.TotalCells)
	}
	if spec.TargetCellCount <= 0 || spec.TargetCellCount > spec.TotalCells {
		return fmt.Errorf("target cell count %d out of range for %d cells", spec.TargetCellCount, spec.TotalCells)
	}
	if spec.MemorizeSeconds <= 0 {
		return fmt.Errorf("non-positive memorize window %d", spec.MemorizeSeconds)
	}
	if spec.TimeLimitSeconds <= 0 {
		return fmt.Errorf("non-positive time limit %d", spec.TimeLimitSeconds)
	}
	if spec.RoundCount <= 0 {
		return fmt.Errorf("non-positive round count %d", spec.RoundCount)
	}
	return nil
}

func isKnownDifficulty(tier string) bool {
	return tier == DifficultyEasy || tier == DifficultyMedium || tier == DifficultyHard
}

// roundForIndex returns the authored ordering round for a difficulty and
// round index as an immutable Round value. The sequencer never requests
// an out-of-range index; if one arrives anyway it is a programmer error.
func (app *App) roundForIndex(difficulty string, index int) (Round, error) {
	rounds, ok := app.RoundTables[difficulty]
	if !ok {
		return Round{}, fmt.Errorf("no rounds authored for difficulty %q", difficulty)
	}
	if index < 0 || index >= len(rounds) {
		return Round{}, fmt.Errorf("round index %d out of range for difficulty %q (%d rounds)", index, difficulty, len(rounds))
	}
	r := rounds[index]
	return Round{
		Variant:          VariantOrdering,
		Items:            slices.Clone(r.Items),
		TargetOrder:      slices.Clone(r.TargetOrder),
		Clues:            slices.Clone(r.Clues),
		TimeLimitSeconds: r.TimeLimitSeconds,
	}, nil
}

// gridRound builds a grid Round for a difficulty, sampling target cells
// without replacement from [0, TotalCells).
func (app *App) gridRound(difficulty string) (Round, error) {
	spec, ok := app.GridSpecs[difficulty]
	if !ok {
		return Round{}, fmt.Errorf("no grid spec for difficulty %q", difficulty)
	}
	targets, err := sampleCells(spec.TotalCells, spec.TargetCellCount)
	if err != nil {
		return Round{}, err
	}
	return Round{
		Variant:          VariantGrid,
		TotalCells:       spec.TotalCells,
		TargetCellCount:  spec.TargetCellCount,
		TargetCells:      targets,
		TimeLimitSeconds: spec.TimeLimitSeconds,
	}, nil
}

// sampleCells picks count distinct cell indices from [0, total) using
// crypto/rand, returned sorted for stable JSON output.
func sampleCells(total, count int) ([]int, error) {
	if count > total {
		return nil, fmt.Errorf("cannot sample %d cells from %d", count, total)
	}
	chosen := make(map[int]bool, count)
	for len(chosen) < count {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(total)))
		if err != nil {
			return nil, fmt.Errorf("sampling grid cells: %w", err)
		}
		chosen[int(n.Int64())] = true
	}
	cells := lo.Keys(chosen)
	slices.Sort(cells)
	return cells, nil
}

// roundCountFor returns how many rounds a session of this variant and
// difficulty plays through.
func (app *App) roundCountFor(variant, difficulty string) (int, error) {
	switch variant {
	case VariantOrdering:
		rounds, ok := app.RoundTables[difficulty]
		if !ok {
			return 0, fmt.Errorf("no rounds authored for difficulty %q", difficulty)
		}
		return len(rounds), nil
	case VariantGrid:
		spec, ok := app.GridSpecs[difficulty]
		if !ok {
			return 0, fmt.Errorf("no grid spec for difficulty %q", difficulty)
		}
		return spec.RoundCount, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", variant)
	}
}
