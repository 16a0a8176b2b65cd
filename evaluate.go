package main

import (
	"slices"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// evaluateRound produces the immutable RoundResult for the current
// round. The caller snapshots nothing beforehand; the result owns
// cloned copies of the player configuration.
func evaluateRound(round Round, session *GameSession, roundIndex int, timedOut bool) RoundResult {
	switch round.Variant {
	case VariantGrid:
		return evaluateGrid(round, session.Grid, roundIndex, timedOut)
	default:
		return evaluateOrdering(round, session.Board, roundIndex, timedOut)
	}
}

// evaluateOrdering applies exact positional equality: the round is
// correct iff every slot is filled and matches the target order. No
// partial credit; the bonus is all or nothing.
func evaluateOrdering(round Round, board *Board, roundIndex int, timedOut bool) RoundResult {
	marks := make([]string, len(round.TargetOrder))
	matched := 0
	for i, want := range round.TargetOrder {
		got := board.Slots[i]
		switch {
		case got == want:
			marks[i] = MarkCorrect
			matched++
		case got == "":
			marks[i] = MarkMissed
		default:
			marks[i] = MarkWrong
		}
	}

	correct := board.IsComplete() && matched == len(round.TargetOrder)
	score := 0
	if correct {
		score = CorrectRoundBonus
	}
	accuracy := 0.0
	if len(round.TargetOrder) > 0 {
		accuracy = float64(matched) / float64(len(round.TargetOrder)) * 100
	}

	return RoundResult{
		ResultID:        uuid.NewString(),
		RoundIndex:      roundIndex,
		Slots:           slices.Clone(board.Slots),
		Correct:         correct,
		CorrectCount:    matched,
		ScoreDelta:      score,
		AccuracyPercent: accuracy,
		Marks:           marks,
		TimedOut:        timedOut,
	}
}

// evaluateGrid applies set-intersection scoring. Accuracy counts target
// cells the player found; the full bonus requires exact set equality,
// so extra wrong selections forfeit it even when every target cell was
// also selected. Guessing every cell must not trivially win.
func evaluateGrid(round Round, grid *GridBoard, roundIndex int, timedOut bool) RoundResult {
	target := lo.SliceToMap(round.TargetCells, func(c int) (int, bool) { return c, true })

	marks := make([]string, round.TotalCells)
	correctCount := 0
	for i := 0; i < round.TotalCells; i++ {
		selected := grid.Selected[i]
		inTarget := target[i]
		switch {
		case selected && inTarget:
			marks[i] = MarkCorrect
			correctCount++
		case selected:
			marks[i] = MarkWrong
		case inTarget:
			marks[i] = MarkMissed
		default:
			marks[i] = MarkNeutral
		}
	}

	exact := correctCount == round.TargetCellCount && len(grid.Selected) == round.TargetCellCount
	score := 0
	if exact {
		score = CorrectRoundBonus
	}
	accuracy := 0.0
	if round.TargetCellCount > 0 {
		accuracy = float64(correctCount) / float64(round.TargetCellCount) * 100
	}

	return RoundResult{
		ResultID:        uuid.NewString(),
		RoundIndex:      roundIndex,
		SelectedCells:   grid.SelectedCells(),
		Correct:         exact,
		CorrectCount:    correctCount,
		ScoreDelta:      score,
		AccuracyPercent: accuracy,
		Marks:           marks,
		TimedOut:        timedOut,
	}
}
