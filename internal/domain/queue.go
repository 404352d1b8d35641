// Package domain holds the pure types of the approval engine.
// Queue items flow in from the content feed, decisions flow out of the
// moderator's hands, and everything in between is scoring.
package domain

import "time"

// ─── Queue Item Types ───────────────────────────────────────────────────────

// ItemKind categorizes a pending content item.
type ItemKind string

const (
	ItemApproval        ItemKind = "approval"
	ItemVoicePrompt     ItemKind = "voice_prompt"
	ItemMediaComparison ItemKind = "media_comparison"
)

// QueueItem is one unit of content awaiting a moderation decision.
// The payload is opaque to the engine; Hint and Options are only used for
// scoring training items (voice prompts, media comparisons).
// Immutable once queued; consumed exactly once by the processor.
type QueueItem struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	Payload   string    `json:"payload"`
	Options   []string  `json:"options,omitempty"`
	Hint      string    `json:"hint,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate reports whether the item carries the fields its kind requires.
// Malformed items are consumed with zero XP, never aborting the batch.
func (q QueueItem) Validate() error {
	if q.ID == "" || q.Payload == "" {
		return ErrMalformedItem
	}
	switch q.Kind {
	case ItemApproval:
		return nil
	case ItemVoicePrompt, ItemMediaComparison:
		if q.Hint == "" || len(q.Options) < 2 {
			return ErrMalformedItem
		}
		return nil
	default:
		return ErrMalformedItem
	}
}

// ─── Decision Types ─────────────────────────────────────────────────────────

// DecisionKind is the moderator's verdict on one item.
type DecisionKind string

const (
	DecisionApprove DecisionKind = "approve"
	DecisionReject  DecisionKind = "reject"
	DecisionSkip    DecisionKind = "skip"
	DecisionDraft   DecisionKind = "draft"
	DecisionPick    DecisionKind = "pick" // training items: a selected option
)

// Decision is produced per queue item. Transient — it exists only long
// enough to produce a ScoreEvent.
type Decision struct {
	Kind    DecisionKind  `json:"kind"`
	Reason  string        `json:"reason,omitempty"` // rejections with a reason score higher
	Choice  string        `json:"choice,omitempty"` // selected option for training items
	At      time.Time     `json:"at"`
	Elapsed time.Duration `json:"elapsed"` // time the item was in view
}

// ─── Scoring Types ──────────────────────────────────────────────────────────

// ActionKind keys the scoring rules table. One accepted decision maps to
// exactly one action.
type ActionKind string

const (
	ActionApprove      ActionKind = "approve"
	ActionApproveFast  ActionKind = "approve_fast"
	ActionReject       ActionKind = "reject"
	ActionRejectReason ActionKind = "reject_with_reason"
	ActionSkip         ActionKind = "skip"
	ActionDraft        ActionKind = "draft"
	ActionVoiceCorrect ActionKind = "voice_correct"
	ActionVoiceMiss    ActionKind = "voice_miss"
	ActionMediaPick    ActionKind = "media_pick"
	ActionMalformed    ActionKind = "malformed"
)

// Category is a per-category counter namespace on PlayerStats.
type Category string

const (
	CatPosted   Category = "posted"
	CatRejected Category = "rejected"
	CatSkipped  Category = "skipped"
	CatDrafts   Category = "draft"
	CatVoice    Category = "voice"
	CatMedia    Category = "media"
)

// CategoryForAction maps a scoring action onto its counter category.
func CategoryForAction(a ActionKind) Category {
	switch a {
	case ActionApprove, ActionApproveFast:
		return CatPosted
	case ActionReject, ActionRejectReason:
		return CatRejected
	case ActionDraft:
		return CatDrafts
	case ActionVoiceCorrect, ActionVoiceMiss:
		return CatVoice
	case ActionMediaPick:
		return CatMedia
	default:
		return CatSkipped
	}
}

// ScoreEvent is the transient output of one accepted decision.
type ScoreEvent struct {
	ItemID     string     `json:"item_id"`
	Action     ActionKind `json:"action"`
	Category   Category   `json:"category"`
	BaseXP     int64      `json:"base_xp"`
	Multiplier float64    `json:"multiplier"`
	XPDelta    int64      `json:"xp_delta"`
	CreatedAt  time.Time  `json:"created_at"`
}
