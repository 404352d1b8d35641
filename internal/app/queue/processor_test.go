package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/swipedeck/swipedeck/internal/app/gamify"
	"github.com/swipedeck/swipedeck/internal/domain"
)

// Wednesday noon: clear of the night-owl and weekend achievement windows.
var testEpoch = time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

type memStore struct {
	stats     domain.PlayerStats
	has       bool
	events    []domain.ScoreEvent
	saves     int
	failSaves int // fail this many SaveStats calls, then succeed
}

func (m *memStore) LoadStats() (domain.PlayerStats, error) {
	if !m.has {
		return domain.NewPlayerStats(), domain.ErrStatsNotFound
	}
	return m.stats.Clone(), nil
}

func (m *memStore) SaveStats(stats domain.PlayerStats) error {
	if m.failSaves > 0 {
		m.failSaves--
		return errors.New("disk on fire")
	}
	m.stats = stats.Clone()
	m.has = true
	m.saves++
	return nil
}

func (m *memStore) AppendScoreEvent(e domain.ScoreEvent) error {
	m.events = append(m.events, e)
	return nil
}

type sliceFetcher struct {
	items []domain.QueueItem
}

func (f *sliceFetcher) FetchBatch(ctx context.Context, cursor string, limit int) ([]domain.QueueItem, string, error) {
	return f.items, "", nil
}

func approvalBatch(n int) []domain.QueueItem {
	items := make([]domain.QueueItem, n)
	for i := range items {
		items[i] = domain.QueueItem{
			ID:        fmt.Sprintf("post-%d", i+1),
			Kind:      domain.ItemApproval,
			Payload:   "caption",
			CreatedAt: testEpoch,
		}
	}
	return items
}

func newTestProcessor(t *testing.T, store *memStore, items []domain.QueueItem) *Processor {
	t.Helper()

	p, err := New(store, &sliceFetcher{items: items}, gamify.DefaultCatalog(), Options{
		Clock: func() time.Time { return testEpoch },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if len(items) > 0 {
		if _, err := p.Load(context.Background()); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
	}
	return p
}

func approveAt(t *testing.T, p *Processor, at time.Time) domain.ResultEvent {
	t.Helper()
	ev, err := p.Submit(domain.Decision{Kind: domain.DecisionApprove, At: at, Elapsed: 10 * time.Second})
	if err != nil {
		t.Fatalf("Submit(approve) error: %v", err)
	}
	return ev
}

// ─── Scoring Pipeline ───────────────────────────────────────────────────────

func TestSubmit_TenApprovalCombo(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, approvalBatch(10))

	var results []domain.ResultEvent
	for i := 0; i < 10; i++ {
		results = append(results, approveAt(t, p, testEpoch.Add(time.Duration(i)*time.Second)))
	}

	// Base 10 each; the multiplier steps up after runs of 3 and 6:
	// 10+10+10 + 15+15+15 + 20+20+20+20 = 155.
	var sum int64
	for _, e := range store.events {
		sum += e.XPDelta
	}
	if sum != 155 {
		t.Errorf("decision XP sum = %d, want 155", sum)
	}

	// ten_posts fires on the tenth approval, exactly once.
	count := 0
	for _, r := range results {
		for _, id := range r.NewAchievements {
			if id == "ten_posts" {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("ten_posts unlocked %d times, want exactly once", count)
	}

	stats := p.Stats()
	if stats.Counts[domain.CatPosted] != 10 || stats.TotalDecisions != 10 {
		t.Errorf("counters = %+v", stats.Counts)
	}
	if stats.BestCombo != 10 || stats.StreakCount != 10 {
		t.Errorf("combo/streak = %d/%d, want 10/10", stats.BestCombo, stats.StreakCount)
	}
	if p.Snapshot().State != StateExhausted {
		t.Errorf("state = %s, want exhausted after draining", p.Snapshot().State)
	}
}

func TestSubmit_SkipResetsCombo(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, approvalBatch(4))

	approveAt(t, p, testEpoch)
	approveAt(t, p, testEpoch.Add(time.Second))

	skip, err := p.Submit(domain.Decision{Kind: domain.DecisionSkip, At: testEpoch.Add(2 * time.Second)})
	if err != nil {
		t.Fatalf("Submit(skip) error: %v", err)
	}
	if skip.Combo.Active || skip.Combo.Count != 0 {
		t.Errorf("combo after skip = %+v, want idle", skip.Combo)
	}
	if skip.XPDelta != 0 {
		t.Errorf("skip XPDelta = %d, want 0", skip.XPDelta)
	}
	if got := p.Stats().StreakCount; got != 0 {
		t.Errorf("streak after skip = %d, want 0", got)
	}

	// The next qualifying decision starts a fresh run at 1.
	next := approveAt(t, p, testEpoch.Add(3*time.Second))
	if next.Combo.Count != 1 {
		t.Errorf("combo after restart = %d, want 1", next.Combo.Count)
	}
}

func TestSubmit_ComboLapsesAcrossIdle(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, approvalBatch(3))

	approveAt(t, p, testEpoch)
	approveAt(t, p, testEpoch.Add(time.Second))

	// Past the 30s window the run lapsed; it does not resume.
	late := approveAt(t, p, testEpoch.Add(time.Second+31*time.Second))
	if late.Combo.Count != 1 {
		t.Errorf("combo after idle gap = %d, want restart at 1", late.Combo.Count)
	}
}

func TestSubmit_InvalidDecisionNoMutation(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, approvalBatch(2))
	before := p.Stats()

	_, err := p.Submit(domain.Decision{Kind: domain.DecisionPick, Choice: "left", At: testEpoch})
	if !errors.Is(err, domain.ErrInvalidDecision) {
		t.Fatalf("Submit(pick on approval) = %v, want ErrInvalidDecision", err)
	}

	after := p.Stats()
	if after.XP != before.XP || after.TotalDecisions != before.TotalDecisions {
		t.Error("a rejected decision mutated stats")
	}
	if snap := p.Snapshot(); snap.State != StateReady || snap.Current.ID != "post-1" {
		t.Errorf("state = %+v, want same current item", snap.State)
	}
}

func TestSubmit_NoCurrentItem(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, nil)

	_, err := p.Submit(domain.Decision{Kind: domain.DecisionApprove, At: testEpoch})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Submit on empty = %v, want ErrInvalidTransition", err)
	}
}

// reentrantNotifier submits a second decision from inside Notify, like a
// double-tap landing while the first result renders.
type reentrantNotifier struct {
	p       *Processor
	tries   int
	lastErr error
}

func (n *reentrantNotifier) Notify(domain.ResultEvent) {
	n.tries++
	_, n.lastErr = n.p.Submit(domain.Decision{Kind: domain.DecisionApprove, At: testEpoch})
}

func TestSubmit_WhileProcessingRejected(t *testing.T) {
	store := &memStore{}
	notifier := &reentrantNotifier{}

	p, err := New(store, &sliceFetcher{items: approvalBatch(3)}, gamify.DefaultCatalog(), Options{
		Notifier: notifier,
		Clock:    func() time.Time { return testEpoch },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	notifier.p = p
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	approveAt(t, p, testEpoch)

	if notifier.tries != 1 {
		t.Fatalf("notifier fired %d times, want 1", notifier.tries)
	}
	if !errors.Is(notifier.lastErr, domain.ErrInvalidTransition) {
		t.Errorf("reentrant Submit = %v, want ErrInvalidTransition", notifier.lastErr)
	}

	// Only the first decision landed.
	stats := p.Stats()
	if stats.TotalDecisions != 1 {
		t.Errorf("TotalDecisions = %d, want 1", stats.TotalDecisions)
	}
	if snap := p.Snapshot(); snap.Current == nil || snap.Current.ID != "post-2" {
		t.Errorf("current = %+v, want post-2", snap.Current)
	}
}

func TestSubmit_MalformedItemConsumedNeutrally(t *testing.T) {
	items := approvalBatch(4)
	items[2] = domain.QueueItem{ID: "broken", Kind: domain.ItemApproval} // no payload

	store := &memStore{}
	p := newTestProcessor(t, store, items)

	approveAt(t, p, testEpoch)
	approveAt(t, p, testEpoch.Add(time.Second))

	ev, err := p.Submit(domain.Decision{Kind: domain.DecisionApprove, At: testEpoch.Add(2 * time.Second)})
	if err != nil {
		t.Fatalf("Submit on malformed error: %v", err)
	}
	if ev.Action != domain.ActionMalformed || ev.XPDelta != 0 {
		t.Errorf("malformed result = %+v, want neutral consumption", ev)
	}

	// Combo and streak survive: the run continues on the next good item.
	next := approveAt(t, p, testEpoch.Add(3*time.Second))
	if next.Combo.Count != 3 {
		t.Errorf("combo after malformed = %d, want 3", next.Combo.Count)
	}
	if got := p.Stats().StreakCount; got != 3 {
		t.Errorf("streak = %d, want 3", got)
	}
}

// ─── Batch Loading ──────────────────────────────────────────────────────────

func TestCompleteLoad_StaleBatchDiscarded(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, nil)

	seq1 := p.StartLoad()
	seq2 := p.StartLoad()

	batchB := approvalBatch(2)
	batchB[0].ID = "from-b"
	if err := p.CompleteLoad(seq2, batchB, ""); err != nil {
		t.Fatalf("CompleteLoad(#2) error: %v", err)
	}

	// Request #1 resolves late: discarded, state still reflects #2.
	batchA := approvalBatch(5)
	if err := p.CompleteLoad(seq1, batchA, ""); !errors.Is(err, domain.ErrStaleBatch) {
		t.Fatalf("CompleteLoad(#1) = %v, want ErrStaleBatch", err)
	}

	snap := p.Snapshot()
	if snap.Current == nil || snap.Current.ID != "from-b" {
		t.Errorf("current = %+v, want from-b", snap.Current)
	}
	if snap.Remaining != 2 {
		t.Errorf("remaining = %d, want batch #2's 2", snap.Remaining)
	}
}

func TestCompleteLoad_EmptyBatch(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, nil)

	seq := p.StartLoad()
	if err := p.CompleteLoad(seq, nil, ""); err != nil {
		t.Fatalf("CompleteLoad(empty) error: %v", err)
	}
	if got := p.Snapshot().State; got != StateEmpty {
		t.Errorf("state = %s, want empty", got)
	}
}

// ─── Persistence ────────────────────────────────────────────────────────────

func TestSubmit_WriteThroughEveryDecision(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, approvalBatch(3))

	approveAt(t, p, testEpoch)
	approveAt(t, p, testEpoch.Add(time.Second))

	if store.stats.TotalDecisions != 2 {
		t.Errorf("persisted TotalDecisions = %d, want 2", store.stats.TotalDecisions)
	}
	if len(store.events) != 2 {
		t.Errorf("persisted events = %d, want 2", len(store.events))
	}
}

func TestSubmit_PersistFailureRetriedNextMutation(t *testing.T) {
	// First failure hits the initial challenge-generation write in New;
	// the second hits the first decision's write-through.
	store := &memStore{failSaves: 2}
	core, logs := observer.New(zapcore.InfoLevel)
	p, err := New(store, &sliceFetcher{items: approvalBatch(3)}, gamify.DefaultCatalog(), Options{
		Logger: zap.New(core),
		Clock:  func() time.Time { return testEpoch },
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// First write fails; scoring continues regardless.
	first := approveAt(t, p, testEpoch)
	if first.XPDelta <= 0 {
		t.Fatal("decision should score despite the failed write")
	}

	// The next mutation carries the full latest state.
	approveAt(t, p, testEpoch.Add(time.Second))
	if store.stats.TotalDecisions != 2 {
		t.Errorf("recovered write has TotalDecisions = %d, want 2", store.stats.TotalDecisions)
	}
	if n := logs.FilterMessage("stats write-through recovered").Len(); n != 1 {
		t.Errorf("recovery logged %d times, want once", n)
	}
}

func TestNew_RecomputesLevelFromXP(t *testing.T) {
	seeded := domain.NewPlayerStats()
	seeded.XP = 1000
	seeded.Level = 1 // stale on disk
	store := &memStore{stats: seeded, has: true}

	p := newTestProcessor(t, store, nil)
	if got, want := p.Stats().Level, gamify.LevelForXP(1000); got != want {
		t.Errorf("level = %d, want recomputed %d", got, want)
	}
}

func TestDraftHoarder_FiresOnce(t *testing.T) {
	store := &memStore{}
	p := newTestProcessor(t, store, approvalBatch(12))

	unlocks := 0
	for i := 0; i < 12; i++ {
		ev, err := p.Submit(domain.Decision{Kind: domain.DecisionDraft, At: testEpoch.Add(time.Duration(i) * time.Second)})
		if err != nil {
			t.Fatalf("Submit(draft) error: %v", err)
		}
		for _, id := range ev.NewAchievements {
			if id == "draft_hoarder" {
				unlocks++
			}
		}
	}
	if unlocks != 1 {
		t.Errorf("draft_hoarder unlocked %d times, want exactly once", unlocks)
	}
}
