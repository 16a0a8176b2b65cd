package main

import (
	"maps"
	"slices"
	"time"
)

// Item is one placeable unit in an ordering round. Style is an opaque
// presentation tag resolved by the frontend; the engine never inspects it.
type Item struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Style string `json:"style"`
}

// Round is one puzzle instance. Variant selects which fields are
// meaningful: Items/TargetOrder/Clues for ordering, TotalCells/
// TargetCellCount/TargetCells for grid.
type Round struct {
	Variant          string   `json:"variant"`
	Items            []Item   `json:"items,omitempty"`
	TargetOrder      []string `json:"targetOrder,omitempty"`
	Clues            []string `json:"clues,omitempty"`
	TotalCells       int      `json:"totalCells,omitempty"`
	TargetCellCount  int      `json:"targetCellCount,omitempty"`
	TargetCells      []int    `json:"targetCells,omitempty"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

// RoundTable is the JSON structure for loading authored ordering rounds.
type RoundTable struct {
	Rounds map[string][]AuthoredRound `json:"rounds"`
}

// AuthoredRound is one hand-authored ordering puzzle as stored on disk.
type AuthoredRound struct {
	Items            []Item   `json:"items"`
	TargetOrder      []string `json:"targetOrder"`
	Clues            []string `json:"clues"`
	TimeLimitSeconds int      `json:"timeLimitSeconds"`
}

// GridSpec describes the grid variant for one difficulty tier. Cell
// positions themselves are sampled fresh each round.
type GridSpec struct {
	TotalCells       int `json:"totalCells"`
	TargetCellCount  int `json:"targetCellCount"`
	MemorizeSeconds  int `json:"memorizeSeconds"`
	TimeLimitSeconds int `json:"timeLimitSeconds"`
	RoundCount       int `json:"roundCount"`
}

// GridTable is the JSON structure for loading grid specs.
type GridTable struct {
	Grids map[string]GridSpec `json:"grids"`
}

// Board holds the mutable player configuration for an ordering round.
// Every item id lives in exactly one of Slots or Pool at all times; an
// empty slot holds "".
type Board struct {
	Slots []string `json:"slots"`
	Pool  []string `json:"pool"`
}

// GridBoard holds the mutable player configuration for a grid round.
type GridBoard struct {
	TotalCells int          `json:"totalCells"`
	Selected   map[int]bool `json:"selected"`
}

// RoundResult is the immutable record of one evaluated round. Marks is
// the per-slot (ordering) or per-cell (grid) diff classification shown
// on the review screen.
type RoundResult struct {
	ResultID        string   `json:"resultId"`
	RoundIndex      int      `json:"roundIndex"`
	Slots           []string `json:"slots,omitempty"`
	SelectedCells   []int    `json:"selectedCells,omitempty"`
	Correct         bool     `json:"correct"`
	CorrectCount    int      `json:"correctCount"`
	ScoreDelta      int      `json:"scoreDelta"`
	AccuracyPercent float64  `json:"accuracyPercent"`
	Marks           []string `json:"marks"`
	TimedOut        bool     `json:"timedOut"`
}

// GameSession is a player's multi-round play-through. The sequencer is
// the sole mutator of CurrentRound, CumulativeScore, and Phase; the
// workspace (Board/Grid) belongs to the current round only and is
// discarded on advance.
type GameSession struct {
	Variant         string        `json:"variant"`
	Difficulty      string        `json:"difficulty"`
	RoundCount      int           `json:"roundCount"`
	CurrentRound    int           `json:"currentRound"`
	Phase           string        `json:"phase"`
	TimeRemaining   int           `json:"timeRemaining"`
	MemorizeLeft    int           `json:"memorizeLeft"` // grid variant: seconds the target stays visible
	EvaluatedFor    int           `json:"evaluatedFor"` // seconds spent in Evaluated, drives auto-advance
	CumulativeScore int           `json:"cumulativeScore"`
	Results         []RoundResult `json:"results"`
	Board           *Board        `json:"board,omitempty"`
	Grid            *GridBoard    `json:"grid,omitempty"`
	GridTarget      []int         `json:"gridTarget,omitempty"` // current round's sampled target cells
	ScoreNotice     string        `json:"scoreNotice,omitempty"`
	ScoreSubmitted  bool          `json:"scoreSubmitted"`
	LastAccessTime  time.Time     `json:"lastAccessTime"`
}

// snapshot returns a copy safe to marshal outside the session lock.
// RoundResult rows are immutable once appended, so cloning the slice
// headers is enough; the mutable workspace is copied in full.
func (s *GameSession) snapshot() *GameSession {
	out := *s
	out.Results = slices.Clone(s.Results)
	out.GridTarget = slices.Clone(s.GridTarget)
	if s.Board != nil {
		out.Board = &Board{Slots: slices.Clone(s.Board.Slots), Pool: slices.Clone(s.Board.Pool)}
	}
	if s.Grid != nil {
		out.Grid = &GridBoard{TotalCells: s.Grid.TotalCells, Selected: maps.Clone(s.Grid.Selected)}
	}
	return &out
}
