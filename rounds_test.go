package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestValidateAuthoredRound checks the permutation invariant catches
// malformed content
func TestValidateAuthoredRound(t *testing.T) {
	valid := testAuthoredRound()

	tests := []struct {
		name   string
		mutate func(r *AuthoredRound)
		wantOK bool
	}{
		{"valid round", func(r *AuthoredRound) {}, true},
		{"no items", func(r *AuthoredRound) { r.Items = nil }, false},
		{"no clues", func(r *AuthoredRound) { r.Clues = nil }, false},
		{"zero time limit", func(r *AuthoredRound) { r.TimeLimitSeconds = 0 }, false},
		{"target shorter than items", func(r *AuthoredRound) { r.TargetOrder = r.TargetOrder[:2] }, false},
		{"target references unknown item", func(r *AuthoredRound) { r.TargetOrder = []string{"a", "b", "zz"} }, false},
		{"target repeats item", func(r *AuthoredRound) { r.TargetOrder = []string{"a", "b", "b"} }, false},
		{"duplicate item ids", func(r *AuthoredRound) { r.Items = append(r.Items, r.Items[0]) }, false},
	}

	for _, tt := range tests {
		r := valid
		r.Items = append([]Item{}, valid.Items...)
		r.TargetOrder = append([]string{}, valid.TargetOrder...)
		r.Clues = append([]string{}, valid.Clues...)
		tt.mutate(&r)
		err := validateAuthoredRound(r)
		if (err == nil) != tt.wantOK {
			t.Errorf("%s: err = %v, wantOK = %v", tt.name, err, tt.wantOK)
		}
	}
}

// TestValidateGridSpec checks grid spec bounds
func TestValidateGridSpec(t *testing.T) {
	tests := []struct {
		name   string
		spec   GridSpec
		wantOK bool
	}{
		{"valid", GridSpec{TotalCells: 16, TargetCellCount: 4, MemorizeSeconds: 5, TimeLimitSeconds: 30, RoundCount: 5}, true},
		{"zero cells", GridSpec{TotalCells: 0, TargetCellCount: 4, MemorizeSeconds: 5, TimeLimitSeconds: 30, RoundCount: 5}, false},
		{"targets exceed cells", GridSpec{TotalCells: 4, TargetCellCount: 5, MemorizeSeconds: 5, TimeLimitSeconds: 30, RoundCount: 5}, false},
		{"zero memorize window", GridSpec{TotalCells: 16, TargetCellCount: 4, MemorizeSeconds: 0, TimeLimitSeconds: 30, RoundCount: 5}, false},
		{"zero rounds", GridSpec{TotalCells: 16, TargetCellCount: 4, MemorizeSeconds: 5, TimeLimitSeconds: 30, RoundCount: 0}, false},
	}
	for _, tt := range tests {
		err := validateGridSpec(tt.spec)
		if (err == nil) != tt.wantOK {
			t.Errorf("%s: err = %v, wantOK = %v", tt.name, err, tt.wantOK)
		}
	}
}

// TestRoundForIndex checks table lookup bounds
func TestRoundForIndex(t *testing.T) {
	app := testApp(2)

	round, err := app.roundForIndex(DifficultyEasy, 1)
	if err != nil {
		t.Fatalf("roundForIndex(easy, 1): %v", err)
	}
	if round.Variant != VariantOrdering || len(round.TargetOrder) != 3 {
		t.Errorf("unexpected round: %+v", round)
	}

	if _, err := app.roundForIndex(DifficultyEasy, 2); err == nil {
		t.Error("out-of-range index accepted")
	}
	if _, err := app.roundForIndex(DifficultyEasy, -1); err == nil {
		t.Error("negative index accepted")
	}
	if _, err := app.roundForIndex(DifficultyHard, 0); err == nil {
		t.Error("unauthored difficulty accepted")
	}
}

// TestSampleCells checks sampled targets are distinct, in range, and sorted
func TestSampleCells(t *testing.T) {
	for i := 0; i < 20; i++ {
		cells, err := sampleCells(16, 4)
		if err != nil {
			t.Fatalf("sampleCells: %v", err)
		}
		if len(cells) != 4 {
			t.Fatalf("sampled %d cells, want 4", len(cells))
		}
		seen := make(map[int]bool)
		last := -1
		for _, c := range cells {
			if c < 0 || c >= 16 {
				t.Errorf("cell %d out of range [0,16)", c)
			}
			if seen[c] {
				t.Errorf("duplicate cell %d", c)
			}
			if c <= last {
				t.Errorf("cells not sorted: %v", cells)
			}
			seen[c] = true
			last = c
		}
	}
}

// TestSampleCellsFullCoverage checks sampling every cell is allowed and
// oversampling is rejected
func TestSampleCellsFullCoverage(t *testing.T) {
	cells, err := sampleCells(5, 5)
	if err != nil {
		t.Fatalf("sampleCells(5,5): %v", err)
	}
	if len(cells) != 5 {
		t.Errorf("sampled %d cells, want 5", len(cells))
	}
	if _, err := sampleCells(4, 5); err == nil {
		t.Error("oversampling accepted")
	}
}

// TestLoadRoundTable checks loading and rejection of malformed tables
func TestLoadRoundTable(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "rounds.json")
	goodContent := `{"rounds":{"easy":[{"items":[{"id":"x","name":"X","style":"s"},{"id":"y","name":"Y","style":"s"}],"targetOrder":["x","y"],"clues":["X first."],"timeLimitSeconds":30}]}}`
	if err := os.WriteFile(good, []byte(goodContent), 0644); err != nil {
		t.Fatal(err)
	}
	tables, err := loadRoundTable(good)
	if err != nil {
		t.Fatalf("loadRoundTable: %v", err)
	}
	if len(tables[DifficultyEasy]) != 1 {
		t.Errorf("loaded %d easy rounds, want 1", len(tables[DifficultyEasy]))
	}

	bad := filepath.Join(dir, "bad.json")
	badContent := `{"rounds":{"easy":[{"items":[{"id":"x","name":"X","style":"s"}],"targetOrder":["x","x"],"clues":["c"],"timeLimitSeconds":30}]}}`
	if err := os.WriteFile(bad, []byte(badContent), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadRoundTable(bad); err == nil {
		t.Error("malformed table accepted")
	}

	unknownTier := filepath.Join(dir, "tier.json")
	tierContent := `{"rounds":{"brutal":[{"items":[{"id":"x","name":"X","style":"s"}],"targetOrder":["x"],"clues":["c"],"timeLimitSeconds":30}]}}`
	if err := os.WriteFile(unknownTier, []byte(tierContent), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadRoundTable(unknownTier); err == nil {
		t.Error("unknown difficulty tier accepted")
	}

	if _, err := loadRoundTable(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
}
