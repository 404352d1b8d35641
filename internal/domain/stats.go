package domain

import "time"

// ─── Daily Challenge Types ──────────────────────────────────────────────────

// Challenge is one per-day target with progress tracking.
// The set is replaced wholesale on every date-key change — progress is
// never carried over or retried.
type Challenge struct {
	ID          string   `json:"id"`
	Template    string   `json:"template"`
	Description string   `json:"description"`
	Category    Category `json:"category,omitempty"` // empty = any decision counts
	Target      int      `json:"target"`
	Progress    int      `json:"progress"`
	RewardXP    int64    `json:"reward_xp"`
	Completed   bool     `json:"completed"`
	DateKey     string   `json:"date_key"`
}

// ProgressPct returns completion percentage (0–100).
func (c Challenge) ProgressPct() float64 {
	if c.Target <= 0 {
		return 100.0
	}
	pct := float64(c.Progress) / float64(c.Target) * 100.0
	if pct > 100.0 {
		pct = 100.0
	}
	return pct
}

// ─── Player Stats ───────────────────────────────────────────────────────────

// PlayerStats is the durable aggregate owned by the queue processor.
// Level is always derived from XP — recomputed, never set directly.
// It is an explicit value passed through engine operations; the hosting
// application owns the single long-lived instance per session.
type PlayerStats struct {
	XP              int64                `json:"xp"`
	Level           int                  `json:"level"`
	StreakCount     int                  `json:"streak_count"` // consecutive qualifying decisions
	LongestStreak   int                  `json:"longest_streak"`
	BestCombo       int                  `json:"best_combo"`
	TotalDecisions  int64                `json:"total_decisions"`
	LastActionAt    time.Time            `json:"last_action_at"`
	Counts          map[Category]int64   `json:"counts"`
	Unlocked        map[string]time.Time `json:"unlocked"`
	DailyChallenges []Challenge          `json:"daily_challenges"`
}

// NewPlayerStats returns zeroed defaults for first use.
func NewPlayerStats() PlayerStats {
	return PlayerStats{
		Level:    1,
		Counts:   make(map[Category]int64),
		Unlocked: make(map[string]time.Time),
	}
}

// Count returns a category counter, zero when absent.
func (s PlayerStats) Count(c Category) int64 {
	return s.Counts[c]
}

// Bump increments a category counter.
func (s *PlayerStats) Bump(c Category) {
	if s.Counts == nil {
		s.Counts = make(map[Category]int64)
	}
	s.Counts[c]++
}

// IsUnlocked reports whether an achievement id is already held.
func (s PlayerStats) IsUnlocked(id string) bool {
	_, ok := s.Unlocked[id]
	return ok
}

// Clone returns a deep copy so snapshots stay immutable.
func (s PlayerStats) Clone() PlayerStats {
	cp := s
	cp.Counts = make(map[Category]int64, len(s.Counts))
	for k, v := range s.Counts {
		cp.Counts[k] = v
	}
	cp.Unlocked = make(map[string]time.Time, len(s.Unlocked))
	for k, v := range s.Unlocked {
		cp.Unlocked[k] = v
	}
	cp.DailyChallenges = make([]Challenge, len(s.DailyChallenges))
	copy(cp.DailyChallenges, s.DailyChallenges)
	return cp
}

// View flattens the aggregate into the snapshot achievement predicates read.
func (s PlayerStats) View() StatsView {
	done := 0
	for _, c := range s.DailyChallenges {
		if c.Completed {
			done++
		}
	}
	return StatsView{
		XP:              s.XP,
		Level:           s.Level,
		Posted:          s.Count(CatPosted),
		Rejected:        s.Count(CatRejected),
		Skipped:         s.Count(CatSkipped),
		Drafts:          s.Count(CatDrafts),
		Voice:           s.Count(CatVoice),
		Media:           s.Count(CatMedia),
		TotalDecisions:  s.TotalDecisions,
		StreakCount:     s.StreakCount,
		LongestStreak:   s.LongestStreak,
		BestCombo:       s.BestCombo,
		ChallengesDone:  done,
		ChallengesTotal: len(s.DailyChallenges),
	}
}

// StatsView is an immutable snapshot fed to achievement predicates.
// Predicates compare a before/after pair of these — they never mutate.
type StatsView struct {
	XP              int64 `json:"xp"`
	Level           int   `json:"level"`
	Posted          int64 `json:"posted"`
	Rejected        int64 `json:"rejected"`
	Skipped         int64 `json:"skipped"`
	Drafts          int64 `json:"drafts"`
	Voice           int64 `json:"voice"`
	Media           int64 `json:"media"`
	TotalDecisions  int64 `json:"total_decisions"`
	StreakCount     int   `json:"streak_count"`
	LongestStreak   int   `json:"longest_streak"`
	BestCombo       int   `json:"best_combo"`
	ChallengesDone  int   `json:"challenges_done"`
	ChallengesTotal int   `json:"challenges_total"`
}
