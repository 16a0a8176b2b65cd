package main

import (
	"slices"

	"github.com/samber/lo"
)

// newBoard creates an empty ordering board with every item in the pool,
// in authored order. Presentation shuffling is the frontend's concern.
func newBoard(round Round) *Board {
	return &Board{
		Slots: make([]string, len(round.TargetOrder)),
		Pool:  lo.Map(round.Items, func(it Item, _ int) string { return it.ID }),
	}
}

// PlaceItem moves itemID from wherever it currently resides into
// slotIndex. A pool item displaces any occupant back to the pool; a
// slot item swaps places with the occupant. An item that is in neither
// the pool nor a slot is absorbed as a no-op so a misordered drag event
// can never corrupt the board.
func (b *Board) PlaceItem(itemID string, slotIndex int) {
	if slotIndex < 0 || slotIndex >= len(b.Slots) {
		return
	}
	if b.Slots[slotIndex] == itemID {
		return
	}

	sourceSlot := slices.Index(b.Slots, itemID)
	poolIndex := slices.Index(b.Pool, itemID)
	if sourceSlot < 0 && poolIndex < 0 {
		logWarn("PlaceItem ignored unknown item %q", itemID)
		return
	}

	displaced := b.Slots[slotIndex]
	b.Slots[slotIndex] = itemID

	switch {
	case sourceSlot >= 0:
		// Slot-to-slot move: occupant trades into the vacated slot.
		b.Slots[sourceSlot] = displaced
	default:
		b.Pool = slices.Delete(b.Pool, poolIndex, poolIndex+1)
		if displaced != "" {
			b.Pool = append(b.Pool, displaced)
		}
	}
}

// ReturnToPool moves the occupant of slotIndex back to the pool. Empty
// or out-of-range slots are no-ops.
func (b *Board) ReturnToPool(slotIndex int) {
	if slotIndex < 0 || slotIndex >= len(b.Slots) {
		return
	}
	occupant := b.Slots[slotIndex]
	if occupant == "" {
		return
	}
	b.Slots[slotIndex] = ""
	b.Pool = append(b.Pool, occupant)
}

// IsComplete reports whether every slot is filled.
func (b *Board) IsComplete() bool {
	return !slices.Contains(b.Slots, "")
}

// newGridBoard creates an empty grid board.
func newGridBoard(round Round) *GridBoard {
	return &GridBoard{
		TotalCells: round.TotalCells,
		Selected:   make(map[int]bool),
	}
}

// ToggleCell flips membership of index in the selection. No upper bound
// is enforced during selection; the evaluator alone judges size.
// Out-of-range indices are no-ops.
func (g *GridBoard) ToggleCell(index int) {
	if index < 0 || index >= g.TotalCells {
		return
	}
	if g.Selected[index] {
		delete(g.Selected, index)
	} else {
		g.Selected[index] = true
	}
}

// SelectedCells returns the selection as a sorted slice.
func (g *GridBoard) SelectedCells() []int {
	cells := lo.Keys(g.Selected)
	slices.Sort(cells)
	return cells
}
