// Command roundcheck validates the authored puzzle content under data/.
// It runs the same checks the server applies at startup and exits
// non-zero on the first malformed table, so broken content is caught
// before deploy rather than at boot.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

type item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Style string `json:"style"`
}

type authoredRound struct {
	Items            []item   `json:"items"`
	TargetOrder      []string `json:"targetOrder"`
	Clues            []string `json:"clues"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

type roundTable struct {
	Rounds map[string][]authoredRound `json:"rounds"`
}

type gridSpec struct {
	TotalCells       int `json:"totalCells"`
	TargetCellCount  int `json:"targetCellCount"`
	MemorizeSeconds  int `json:"memorizeSeconds"`
	TimeLimitSeconds int `json:"timeLimitSeconds"`
	RoundCount       int `json:"roundCount"`
}

type gridTable struct {
	Grids map[string]gridSpec `json:"grids"`
}

func main() {
	roundsPath := "data/rounds.json"
	gridsPath := "data/grids.json"
	if len(os.Args) > 1 {
		roundsPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		gridsPath = os.Args[2]
	}

	problems := 0
	problems += checkRounds(roundsPath)
	problems += checkGrids(gridsPath)

	if problems > 0 {
		log.Fatalf("roundcheck: %d problem(s) found", problems)
	}
	fmt.Println("roundcheck: all content valid")
}

func checkRounds(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("cannot read %s: %v", path, err)
	}
	var rt roundTable
	if err := json.Unmarshal(data, &rt); err != nil {
		log.Fatalf("cannot parse %s: %v", path, err)
	}

	problems := 0
	for tier, rounds := range rt.Rounds {
		if len(rounds) == 0 {
			fmt.Printf("FAIL %s: no rounds\n", tier)
			problems++
			continue
		}
		for i, r := range rounds {
			for _, msg := range roundProblems(r) {
				fmt.Printf("FAIL %s round %d: %s\n", tier, i, msg)
				problems++
			}
		}
		fmt.Printf("ok   %s: %d ordering rounds\n", tier, len(rounds))
	}
	return problems
}

// roundProblems collects every violation of the permutation invariant:
// the target order must use each authored item exactly once.
func roundProblems(r authoredRound) []string {
	var problems []string
	if len(r.Items) == 0 {
		problems = append(problems, "no items")
	}
	if r.TimeLimitSeconds <= 0 {
		problems = append(problems, fmt.Sprintf("non-positive time limit %d", r.TimeLimitSeconds))
	}
	if len(r.Clues) == 0 {
		problems = append(problems, "no clues")
	}
	if len(r.TargetOrder) != len(r.Items) {
		problems = append(problems, fmt.Sprintf("target order has %d entries for %d items", len(r.TargetOrder), len(r.Items)))
	}

	ids := make(map[string]int)
	for _, it := range r.Items {
		ids[it.ID]++
		if it.ID == "" {
			problems = append(problems, "item with empty id")
		}
	}
	for id, n := range ids {
		if n > 1 {
			problems = append(problems, fmt.Sprintf("item id %q appears %d times", id, n))
		}
	}

	seen := make(map[string]bool)
	for _, id := range r.TargetOrder {
		if _, ok := ids[id]; !ok {
			problems = append(problems, fmt.Sprintf("target order references unknown item %q", id))
		}
		if seen[id] {
			problems = append(problems, fmt.Sprintf("target order repeats item %q", id))
		}
		seen[id] = true
	}
	return problems
}

func checkGrids(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("cannot read %s: %v", path, err)
	}
	var gt gridTable
	if err := json.Unmarshal(data, &gt); err != nil {
		log.Fatalf("cannot parse %s: %v", path, err)
	}

	problems := 0
	for tier, spec := range gt.Grids {
		bad := false
		report := func(msg string) {
			fmt.Printf("FAIL %s grid: %s\n", tier, msg)
			problems++
			bad = true
		}
		if spec.TotalCells <= 0 {
			report(fmt.Sprintf("non-positive cell count %d", spec.TotalCells))
		}
		if spec.TargetCellCount <= 0 || spec.TargetCellCount > spec.TotalCells {
			report(fmt.Sprintf("target cell count %d out of range for %d cells", spec.TargetCellCount, spec.TotalCells))
		}
		if spec.MemorizeSeconds <= 0 {
			report(fmt.Sprintf("non-positive memorize window %d", spec.MemorizeSeconds))
		}
		if spec.TimeLimitSeconds <= 0 {
			report(fmt.Sprintf("non-positive time limit %d", spec.TimeLimitSeconds))
		}
		if spec.RoundCount <= 0 {
			report(fmt.Sprintf("non-positive round count %d", spec.RoundCount))
		}
		if !bad {
			fmt.Printf("ok   %s: %d cells, %d targets, %d rounds\n", tier, spec.TotalCells, spec.TargetCellCount, spec.RoundCount)
		}
	}
	return problems
}
