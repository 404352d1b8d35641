// Package gamify implements the scoring engine behind the approval queue:
// scoring rules, the level curve, combo tracking, achievements, and daily
// challenges. Everything here is pure or value-stateful — persistence and
// transport live elsewhere.
package gamify

import (
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// Rules maps scoring actions to base XP. Zero and negative rewards are
// valid entries, not failures.
type Rules map[domain.ActionKind]int64

// DefaultRules is the compiled-in scoring table, overridable per catalog.
func DefaultRules() Rules {
	return Rules{
		domain.ActionApprove:      10,
		domain.ActionApproveFast:  15,
		domain.ActionReject:       5,
		domain.ActionRejectReason: 8,
		domain.ActionSkip:         0,
		domain.ActionDraft:        2,
		domain.ActionVoiceCorrect: 12,
		domain.ActionVoiceMiss:    2,
		domain.ActionMediaPick:    8,
		domain.ActionMalformed:    0,
	}
}

// BaseXP returns the base reward for an action, zero when unlisted.
func (r Rules) BaseXP(a domain.ActionKind) int64 {
	return r[a]
}

// Classify maps an (item, decision) pair onto a scoring action.
// fastCutoff bounds the speed bonus for approvals; a non-positive cutoff
// disables it. Returns ErrInvalidDecision for kinds that make no sense for
// the item (e.g. "pick" on a plain approval).
func Classify(item domain.QueueItem, dec domain.Decision, fastCutoff time.Duration) (domain.ActionKind, error) {
	if dec.Kind == domain.DecisionSkip {
		return domain.ActionSkip, nil
	}

	switch item.Kind {
	case domain.ItemApproval:
		switch dec.Kind {
		case domain.DecisionApprove:
			if fastCutoff > 0 && dec.Elapsed > 0 && dec.Elapsed <= fastCutoff {
				return domain.ActionApproveFast, nil
			}
			return domain.ActionApprove, nil
		case domain.DecisionReject:
			if dec.Reason != "" {
				return domain.ActionRejectReason, nil
			}
			return domain.ActionReject, nil
		case domain.DecisionDraft:
			return domain.ActionDraft, nil
		}

	case domain.ItemVoicePrompt:
		if dec.Kind == domain.DecisionPick {
			if dec.Choice == item.Hint {
				return domain.ActionVoiceCorrect, nil
			}
			return domain.ActionVoiceMiss, nil
		}

	case domain.ItemMediaComparison:
		if dec.Kind == domain.DecisionPick {
			return domain.ActionMediaPick, nil
		}
	}

	return "", domain.ErrInvalidDecision
}

// Disqualifies reports whether an action breaks the combo and streak.
// Skips and explicit misses disqualify; so does any negative reward.
func (r Rules) Disqualifies(a domain.ActionKind) bool {
	if a == domain.ActionSkip || a == domain.ActionVoiceMiss {
		return true
	}
	return r.BaseXP(a) < 0
}
