package domain

import "time"

// ComboState is the UI-visible view of the combo tracker after a decision.
type ComboState struct {
	Active     bool      `json:"active"`
	Count      int       `json:"count"`
	Multiplier float64   `json:"multiplier"`
	WindowEnds time.Time `json:"window_ends,omitempty"`
}

// ResultEvent is emitted to the presentation layer after every accepted
// decision. Purely observational — the engine does not depend on how the
// dashboard renders it (toasts, confetti, haptics).
type ResultEvent struct {
	ItemID              string     `json:"item_id"`
	Action              ActionKind `json:"action"`
	XPDelta             int64      `json:"xp_delta"`
	XP                  int64      `json:"xp"`
	Level               int        `json:"level"`
	LeveledUp           bool       `json:"leveled_up"`
	Combo               ComboState `json:"combo"`
	NewAchievements     []string   `json:"new_achievements,omitempty"`
	ChallengesCompleted []string   `json:"challenges_completed,omitempty"`
	QueueRemaining      int        `json:"queue_remaining"`
	Message             string     `json:"message,omitempty"`
	At                  time.Time  `json:"at"`
}
