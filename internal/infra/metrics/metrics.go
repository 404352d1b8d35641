// Package metrics registers Prometheus metrics for the approval engine:
// decisions, XP flow, combo state, and persistence health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Decisions ──────────────────────────────────────────────────────────────

// DecisionsTotal counts accepted decisions by category.
var DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "decisions_total",
	Help:      "Total accepted moderation decisions.",
}, []string{"category"})

// InvalidTransitions counts decisions rejected by the state machine.
var InvalidTransitions = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "invalid_transitions_total",
	Help:      "Decisions rejected because the processor was not ready.",
})

// MalformedItems counts queue items consumed with zero XP.
var MalformedItems = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "malformed_items_total",
	Help:      "Queue items lacking required fields for their kind.",
})

// ─── Scoring ────────────────────────────────────────────────────────────────

// XPAwarded totals XP granted, bonuses included.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded across all decisions.",
})

// Level tracks the moderator's current level.
var Level = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "swipedeck",
	Name:      "level_current",
	Help:      "Current moderator level.",
})

// ComboCount tracks the combo count after the most recent decision.
var ComboCount = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "swipedeck",
	Name:      "combo_count",
	Help:      "Combo count after the most recent decision.",
})

// AchievementsUnlocked counts achievement unlocks.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked.",
})

// ChallengesCompleted counts completed daily challenges.
var ChallengesCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "challenges_completed_total",
	Help:      "Total daily challenges completed.",
})

// ─── Queue & Storage ────────────────────────────────────────────────────────

// BatchLoads counts queue batch loads by outcome.
var BatchLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "batch_loads_total",
	Help:      "Queue batch load attempts by outcome.",
}, []string{"outcome"})

// QueueRemaining tracks items left in the current batch.
var QueueRemaining = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "swipedeck",
	Name:      "queue_remaining",
	Help:      "Items remaining in the current batch, current item included.",
})

// PersistFailures counts write-through failures (retried on next mutation).
var PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "swipedeck",
	Name:      "persist_failures_total",
	Help:      "Player stats write-through failures.",
})
