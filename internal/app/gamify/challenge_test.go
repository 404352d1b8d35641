package gamify

import (
	"testing"
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

func TestGenerateDaily_Deterministic(t *testing.T) {
	pool := DefaultChallengeTemplates()

	a := GenerateDaily(pool, "2026-08-31", 3)
	b := GenerateDaily(pool, "2026-08-31", 3)
	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("lens = %d/%d, want 3", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("same date key diverged at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestGenerateDaily_DifferentDays(t *testing.T) {
	pool := DefaultChallengeTemplates()

	a := GenerateDaily(pool, "2026-08-31", 3)
	varied := false
	for _, key := range []string{
		"2026-09-01", "2026-09-02", "2026-09-03",
		"2026-09-04", "2026-09-05", "2026-09-06",
	} {
		b := GenerateDaily(pool, key, 3)
		for i := range a {
			if a[i].Template != b[i].Template {
				varied = true
			}
		}
	}
	if !varied {
		t.Error("a week of date keys produced identical sets; seed is not day-bound")
	}
}

func TestGenerateDaily_Bounds(t *testing.T) {
	pool := DefaultChallengeTemplates()

	if got := GenerateDaily(pool, "2026-08-31", 0); got != nil {
		t.Errorf("n=0 should yield nil, got %v", got)
	}
	if got := GenerateDaily(nil, "2026-08-31", 3); got != nil {
		t.Errorf("empty pool should yield nil, got %v", got)
	}
	if got := GenerateDaily(pool, "2026-08-31", 100); len(got) != len(pool) {
		t.Errorf("n beyond pool = %d challenges, want %d", len(got), len(pool))
	}
}

func TestGenerateDaily_IDsCarryDateKey(t *testing.T) {
	for _, c := range GenerateDaily(DefaultChallengeTemplates(), "2026-08-31", 3) {
		if c.DateKey != "2026-08-31" {
			t.Errorf("challenge %s has date key %s", c.ID, c.DateKey)
		}
		if c.ID != c.Template+"-2026-08-31" {
			t.Errorf("challenge id %s not derived from template and day", c.ID)
		}
		if c.Progress != 0 || c.Completed {
			t.Errorf("fresh challenge %s carries progress", c.ID)
		}
	}
}

func TestEnsureDay_Rollover(t *testing.T) {
	pool := DefaultChallengeTemplates()
	stats := domain.NewPlayerStats()

	day1 := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	if !EnsureDay(&stats, pool, 3, day1) {
		t.Fatal("first EnsureDay should generate")
	}
	stats.DailyChallenges[0].Progress = 2

	// Same day: progress stays.
	if EnsureDay(&stats, pool, 3, day1.Add(4*time.Hour)) {
		t.Error("same day should not regenerate")
	}
	if stats.DailyChallenges[0].Progress != 2 {
		t.Error("same-day EnsureDay lost progress")
	}

	// Next day: replaced wholesale, progress discarded.
	if !EnsureDay(&stats, pool, 3, day1.AddDate(0, 0, 1)) {
		t.Fatal("next day should regenerate")
	}
	for _, c := range stats.DailyChallenges {
		if c.Progress != 0 || c.Completed {
			t.Errorf("rolled-over challenge %s carries old progress", c.ID)
		}
		if c.DateKey != "2026-09-01" {
			t.Errorf("challenge %s has stale date key %s", c.ID, c.DateKey)
		}
	}
}

func statsWithChallenges(cs ...domain.Challenge) domain.PlayerStats {
	stats := domain.NewPlayerStats()
	stats.DailyChallenges = cs
	return stats
}

func TestRecordDecision_CategoryMatch(t *testing.T) {
	pool := []ChallengeTemplate{
		{ID: "approve_2", Category: domain.CatPosted, Target: 2, RewardXP: 50},
		{ID: "any_2", Target: 2, RewardXP: 30},
	}
	stats := statsWithChallenges(
		domain.Challenge{ID: "approve_2-d", Template: "approve_2", Category: domain.CatPosted, Target: 2, RewardXP: 50, DateKey: "d"},
		domain.Challenge{ID: "any_2-d", Template: "any_2", Target: 2, RewardXP: 30, DateKey: "d"},
	)

	completed, bonus := RecordDecision(&stats, pool, domain.CatRejected)
	if len(completed) != 0 || bonus != 0 {
		t.Fatalf("first rejection completed %v", completed)
	}
	if stats.DailyChallenges[0].Progress != 0 {
		t.Error("rejection advanced the posted-only challenge")
	}
	if stats.DailyChallenges[1].Progress != 1 {
		t.Error("rejection should advance the any-category challenge")
	}

	RecordDecision(&stats, pool, domain.CatPosted)
	completed, bonus = RecordDecision(&stats, pool, domain.CatPosted)

	// any_2 finished on the second decision; approve_2 on this one.
	if bonus != 50 {
		t.Errorf("bonus = %d, want 50 for approve_2", bonus)
	}
	if len(completed) != 1 || completed[0].Template != "approve_2" {
		t.Errorf("completed = %+v", completed)
	}
}

func TestRecordDecision_CompletesOnce(t *testing.T) {
	pool := []ChallengeTemplate{{ID: "one", Target: 1, RewardXP: 40}}
	stats := statsWithChallenges(
		domain.Challenge{ID: "one-d", Template: "one", Target: 1, RewardXP: 40, DateKey: "d"},
	)

	_, bonus := RecordDecision(&stats, pool, domain.CatPosted)
	if bonus != 40 {
		t.Fatalf("first completion bonus = %d, want 40", bonus)
	}

	completed, bonus := RecordDecision(&stats, pool, domain.CatPosted)
	if len(completed) != 0 || bonus != 0 {
		t.Error("a completed challenge paid out twice")
	}
	if stats.DailyChallenges[0].Progress != 1 {
		t.Errorf("progress = %d, want clamped at target", stats.DailyChallenges[0].Progress)
	}
}

func TestRecordCombo_MaxObserved(t *testing.T) {
	pool := []ChallengeTemplate{{ID: "combo_5", Metric: MetricCombo, Target: 5, RewardXP: 90}}
	stats := statsWithChallenges(
		domain.Challenge{ID: "combo_5-d", Template: "combo_5", Target: 5, RewardXP: 90, DateKey: "d"},
	)

	RecordCombo(&stats, pool, 3)
	if stats.DailyChallenges[0].Progress != 3 {
		t.Errorf("progress = %d, want 3", stats.DailyChallenges[0].Progress)
	}

	// A lower combo later never regresses the high-water mark.
	RecordCombo(&stats, pool, 2)
	if stats.DailyChallenges[0].Progress != 3 {
		t.Errorf("progress = %d after lower combo, want 3", stats.DailyChallenges[0].Progress)
	}

	completed, bonus := RecordCombo(&stats, pool, 5)
	if len(completed) != 1 || bonus != 90 {
		t.Errorf("combo of 5 should complete: %v, %d", completed, bonus)
	}
}

func TestRecordQueueCleared(t *testing.T) {
	pool := []ChallengeTemplate{{ID: "clear", Metric: MetricQueueClear, Target: 1, RewardXP: 100}}
	stats := statsWithChallenges(
		domain.Challenge{ID: "clear-d", Template: "clear", Target: 1, RewardXP: 100, DateKey: "d"},
	)

	completed, bonus := RecordQueueCleared(&stats, pool)
	if len(completed) != 1 || bonus != 100 {
		t.Errorf("clearing the queue should complete: %v, %d", completed, bonus)
	}
}
