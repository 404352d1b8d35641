package gamify

import (
	"testing"
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

func approvalItem() domain.QueueItem {
	return domain.QueueItem{ID: "p1", Kind: domain.ItemApproval, Payload: "caption"}
}

func voiceItem() domain.QueueItem {
	return domain.QueueItem{
		ID: "v1", Kind: domain.ItemVoicePrompt, Payload: "tone?",
		Options: []string{"casual", "formal"}, Hint: "casual",
	}
}

func mediaItem() domain.QueueItem {
	return domain.QueueItem{
		ID: "m1", Kind: domain.ItemMediaComparison, Payload: "crop",
		Options: []string{"left", "right"}, Hint: "left",
	}
}

func TestClassify(t *testing.T) {
	cutoff := 3 * time.Second

	tests := []struct {
		name string
		item domain.QueueItem
		dec  domain.Decision
		want domain.ActionKind
	}{
		{"approve", approvalItem(), domain.Decision{Kind: domain.DecisionApprove, Elapsed: 10 * time.Second}, domain.ActionApprove},
		{"approve fast", approvalItem(), domain.Decision{Kind: domain.DecisionApprove, Elapsed: 2 * time.Second}, domain.ActionApproveFast},
		{"approve at cutoff", approvalItem(), domain.Decision{Kind: domain.DecisionApprove, Elapsed: 3 * time.Second}, domain.ActionApproveFast},
		{"reject plain", approvalItem(), domain.Decision{Kind: domain.DecisionReject}, domain.ActionReject},
		{"reject with reason", approvalItem(), domain.Decision{Kind: domain.DecisionReject, Reason: "off brand"}, domain.ActionRejectReason},
		{"draft", approvalItem(), domain.Decision{Kind: domain.DecisionDraft}, domain.ActionDraft},
		{"skip approval", approvalItem(), domain.Decision{Kind: domain.DecisionSkip}, domain.ActionSkip},
		{"skip voice", voiceItem(), domain.Decision{Kind: domain.DecisionSkip}, domain.ActionSkip},
		{"voice correct", voiceItem(), domain.Decision{Kind: domain.DecisionPick, Choice: "casual"}, domain.ActionVoiceCorrect},
		{"voice miss", voiceItem(), domain.Decision{Kind: domain.DecisionPick, Choice: "formal"}, domain.ActionVoiceMiss},
		{"media pick", mediaItem(), domain.Decision{Kind: domain.DecisionPick, Choice: "right"}, domain.ActionMediaPick},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.item, tt.dec, cutoff)
			if err != nil {
				t.Fatalf("Classify() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassify_InvalidDecisions(t *testing.T) {
	cutoff := 3 * time.Second

	tests := []struct {
		name string
		item domain.QueueItem
		dec  domain.Decision
	}{
		{"pick on approval", approvalItem(), domain.Decision{Kind: domain.DecisionPick, Choice: "left"}},
		{"approve on voice", voiceItem(), domain.Decision{Kind: domain.DecisionApprove}},
		{"draft on media", mediaItem(), domain.Decision{Kind: domain.DecisionDraft}},
		{"unknown kind", approvalItem(), domain.Decision{Kind: "promote"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Classify(tt.item, tt.dec, cutoff); err != domain.ErrInvalidDecision {
				t.Errorf("Classify() error = %v, want ErrInvalidDecision", err)
			}
		})
	}
}

func TestClassify_CutoffDisabled(t *testing.T) {
	got, err := Classify(approvalItem(), domain.Decision{Kind: domain.DecisionApprove, Elapsed: time.Second}, 0)
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if got != domain.ActionApprove {
		t.Errorf("Classify() = %s, want plain approve with no cutoff", got)
	}
}

func TestRules_Disqualifies(t *testing.T) {
	r := DefaultRules()

	if !r.Disqualifies(domain.ActionSkip) {
		t.Error("skip should break the combo")
	}
	if !r.Disqualifies(domain.ActionVoiceMiss) {
		t.Error("a voice miss should break the combo")
	}
	if r.Disqualifies(domain.ActionApprove) {
		t.Error("approve should not break the combo")
	}
	if r.Disqualifies(domain.ActionDraft) {
		t.Error("draft should not break the combo")
	}

	// A negative reward disqualifies regardless of action.
	r[domain.ActionDraft] = -5
	if !r.Disqualifies(domain.ActionDraft) {
		t.Error("negative reward should break the combo")
	}
}

func TestRules_BaseXP_Unlisted(t *testing.T) {
	r := Rules{}
	if got := r.BaseXP(domain.ActionApprove); got != 0 {
		t.Errorf("BaseXP(unlisted) = %d, want 0", got)
	}
}
