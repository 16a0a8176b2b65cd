package main

import (
	"math"
	"slices"
	"testing"
)

func testGridRound() Round {
	return Round{
		Variant:          VariantGrid,
		TotalCells:       25,
		TargetCellCount:  4,
		TargetCells:      []int{2, 5, 9, 14},
		TimeLimitSeconds: 30,
	}
}

func gridBoardWith(total int, cells ...int) *GridBoard {
	g := &GridBoard{TotalCells: total, Selected: make(map[int]bool)}
	for _, c := range cells {
		g.Selected[c] = true
	}
	return g
}

// TestEvaluateOrderingCorrect checks a full positional match earns the bonus
func TestEvaluateOrderingCorrect(t *testing.T) {
	round := testOrderingRound()
	b := newBoard(round)
	b.PlaceItem(TestItemCarrot, 0)
	b.PlaceItem(TestItemPizza, 1)
	b.PlaceItem(TestItemApple, 2)
	b.PlaceItem(TestItemCherry, 3)

	result := evaluateOrdering(round, b, 0, false)
	if !result.Correct {
		t.Error("fully correct board judged incorrect")
	}
	if result.ScoreDelta != CorrectRoundBonus {
		t.Errorf("ScoreDelta = %d, want %d", result.ScoreDelta, CorrectRoundBonus)
	}
	if result.AccuracyPercent != 100 {
		t.Errorf("AccuracyPercent = %v, want 100", result.AccuracyPercent)
	}
	for i, m := range result.Marks {
		if m != MarkCorrect {
			t.Errorf("Marks[%d] = %q, want %q", i, m, MarkCorrect)
		}
	}
}

// TestEvaluateOrderingSwappedPair checks one transposition scores zero
func TestEvaluateOrderingSwappedPair(t *testing.T) {
	round := testOrderingRound()
	b := newBoard(round)
	b.PlaceItem(TestItemCarrot, 0)
	b.PlaceItem(TestItemApple, 1)
	b.PlaceItem(TestItemPizza, 2)
	b.PlaceItem(TestItemCherry, 3)

	result := evaluateOrdering(round, b, 0, false)
	if result.Correct {
		t.Error("board with swapped pair judged correct")
	}
	if result.ScoreDelta != 0 {
		t.Errorf("ScoreDelta = %d, want 0 (no partial credit)", result.ScoreDelta)
	}
	wantMarks := []string{MarkCorrect, MarkWrong, MarkWrong, MarkCorrect}
	if !slices.Equal(result.Marks, wantMarks) {
		t.Errorf("Marks = %v, want %v", result.Marks, wantMarks)
	}
	if result.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", result.CorrectCount)
	}
}

// TestEvaluateOrderingIncomplete checks a partially filled board can
// never be judged correct, even if every filled slot matches
func TestEvaluateOrderingIncomplete(t *testing.T) {
	round := testOrderingRound()
	b := newBoard(round)
	b.PlaceItem(TestItemCarrot, 0)
	b.PlaceItem(TestItemPizza, 1)
	b.PlaceItem(TestItemApple, 2)

	result := evaluateOrdering(round, b, 0, true)
	if result.Correct {
		t.Error("incomplete board judged correct")
	}
	if result.ScoreDelta != 0 {
		t.Errorf("ScoreDelta = %d, want 0", result.ScoreDelta)
	}
	if result.Marks[3] != MarkMissed {
		t.Errorf("Marks[3] = %q, want %q for empty slot", result.Marks[3], MarkMissed)
	}
	if !result.TimedOut {
		t.Error("TimedOut flag not carried into result")
	}
}

// TestEvaluateOrderingSnapshotIsIndependent checks later board edits do
// not leak into an already-created result
func TestEvaluateOrderingSnapshotIsIndependent(t *testing.T) {
	round := testOrderingRound()
	b := newBoard(round)
	b.PlaceItem(TestItemCarrot, 0)
	result := evaluateOrdering(round, b, 0, false)

	b.ReturnToPool(0)
	if result.Slots[0] != TestItemCarrot {
		t.Errorf("result snapshot mutated: Slots[0] = %q", result.Slots[0])
	}
}

// TestEvaluateGridExactMatch checks exact set equality earns the bonus
func TestEvaluateGridExactMatch(t *testing.T) {
	round := testGridRound()
	g := gridBoardWith(25, 2, 5, 9, 14)

	result := evaluateGrid(round, g, 0, false)
	if !result.Correct {
		t.Error("exact selection judged incorrect")
	}
	if result.ScoreDelta != CorrectRoundBonus {
		t.Errorf("ScoreDelta = %d, want %d", result.ScoreDelta, CorrectRoundBonus)
	}
	if result.CorrectCount != 4 {
		t.Errorf("CorrectCount = %d, want 4", result.CorrectCount)
	}
	if result.AccuracyPercent != 100 {
		t.Errorf("AccuracyPercent = %v, want 100", result.AccuracyPercent)
	}
}

// TestEvaluateGridExtraSelectionForfeitsBonus checks that covering all
// targets plus one wrong cell is not a win
func TestEvaluateGridExtraSelectionForfeitsBonus(t *testing.T) {
	round := testGridRound()
	g := gridBoardWith(25, 2, 5, 9, 14, 20)

	result := evaluateGrid(round, g, 0, false)
	if result.Correct {
		t.Error("selection with an extra wrong cell judged correct")
	}
	if result.ScoreDelta != 0 {
		t.Errorf("ScoreDelta = %d, want 0", result.ScoreDelta)
	}
	if result.CorrectCount != 4 {
		t.Errorf("CorrectCount = %d, want 4 (all targets were found)", result.CorrectCount)
	}
	if result.Marks[20] != MarkWrong {
		t.Errorf("Marks[20] = %q, want %q", result.Marks[20], MarkWrong)
	}
}

// TestEvaluateGridHalfAccuracy checks the 50% accuracy example
func TestEvaluateGridHalfAccuracy(t *testing.T) {
	round := testGridRound()
	g := gridBoardWith(25, 2, 5, 20, 21)

	result := evaluateGrid(round, g, 0, false)
	if result.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", result.CorrectCount)
	}
	if math.Abs(result.AccuracyPercent-50) > 1e-9 {
		t.Errorf("AccuracyPercent = %v, want 50", result.AccuracyPercent)
	}
	if result.Correct {
		t.Error("half-right selection judged correct")
	}
}

// TestEvaluateGridMarks checks the four-way per-cell classification
func TestEvaluateGridMarks(t *testing.T) {
	round := Round{
		Variant:         VariantGrid,
		TotalCells:      4,
		TargetCellCount: 2,
		TargetCells:     []int{1, 2},
	}
	g := gridBoardWith(4, 0, 1)

	result := evaluateGrid(round, g, 0, false)
	want := []string{MarkWrong, MarkCorrect, MarkMissed, MarkNeutral}
	if !slices.Equal(result.Marks, want) {
		t.Errorf("Marks = %v, want %v", result.Marks, want)
	}
}

// TestEvaluateGridSelectEverything checks the anti-shotgun rule: a full
// grid selection contains all targets but wins nothing
func TestEvaluateGridSelectEverything(t *testing.T) {
	round := testGridRound()
	g := &GridBoard{TotalCells: 25, Selected: make(map[int]bool)}
	for i := 0; i < 25; i++ {
		g.Selected[i] = true
	}

	result := evaluateGrid(round, g, 0, false)
	if result.Correct || result.ScoreDelta != 0 {
		t.Errorf("select-everything scored: correct=%v delta=%d", result.Correct, result.ScoreDelta)
	}
	if result.AccuracyPercent != 100 {
		t.Errorf("AccuracyPercent = %v, want 100 (all targets covered)", result.AccuracyPercent)
	}
}
