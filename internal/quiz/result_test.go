package quiz

import (
	"context"
	"testing"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		name        string
		stats       Stats
		wantPercent int
		wantTier    string
	}{
		{name: "empty session", stats: Stats{}, wantPercent: 0, wantTier: TierKeepGoing},
		{name: "perfect", stats: Stats{Correct: 3, Total: 3}, wantPercent: 100, wantTier: TierPerfect},
		{name: "great", stats: Stats{Correct: 4, Total: 5}, wantPercent: 80, wantTier: TierGreat},
		{name: "good rounds up", stats: Stats{Correct: 2, Total: 3}, wantPercent: 67, wantTier: TierGood},
		{name: "keep going", stats: Stats{Correct: 1, Total: 3}, wantPercent: 33, wantTier: TierKeepGoing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(tc.stats)
			if got.Percent != tc.wantPercent || got.Tier != tc.wantTier {
				t.Fatalf("Grade(%+v) = %d%%/%s, want %d%%/%s", tc.stats, got.Percent, got.Tier, tc.wantPercent, tc.wantTier)
			}
			if got.Correct != tc.stats.Correct || got.Total != tc.stats.Total || got.Message == "" {
				t.Fatalf("unexpected result: %+v", got)
			}
		})
	}
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository(append(SeedItems(), Item{ID: "draft", Question: "?", CorrectAnswer: "x"})...)

	items, err := repo.ListPublished(context.Background())
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(items) != len(SeedItems()) {
		t.Fatalf("published = %d, want %d", len(items), len(SeedItems()))
	}
	for _, item := range items {
		if item.ID == "draft" {
			t.Fatal("unpublished item listed")
		}
		if err := item.Validate(); err != nil {
			t.Fatalf("seed item %q invalid: %v", item.ID, err)
		}
	}
}
