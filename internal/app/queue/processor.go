// Package queue implements the approval queue processor: a state machine
// that consumes batches of pending content items, accepts one moderation
// decision at a time, and applies every gamification side effect in a
// fixed order before persisting and notifying the presentation layer.
package queue

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/swipedeck/swipedeck/internal/app/gamify"
	"github.com/swipedeck/swipedeck/internal/domain"
	"github.com/swipedeck/swipedeck/internal/infra/metrics"
)

// State names the processor's four states.
type State string

const (
	StateEmpty      State = "empty"
	StateReady      State = "ready"
	StateProcessing State = "processing"
	StateExhausted  State = "exhausted"
)

// Fetcher supplies batches of pending queue items. Batches are finite and
// may be empty; an empty batch leaves the processor presentable in empty.
type Fetcher interface {
	FetchBatch(ctx context.Context, cursor string, limit int) (items []domain.QueueItem, nextCursor string, err error)
}

// Store persists the player stats aggregate (write-through) and the
// score-event log. Failures are recoverable: the engine logs, keeps
// scoring, and retries on the next mutation.
type Store interface {
	LoadStats() (domain.PlayerStats, error)
	SaveStats(domain.PlayerStats) error
	AppendScoreEvent(domain.ScoreEvent) error
}

// Notifier receives a result event after every accepted decision.
// Purely observational.
type Notifier interface {
	Notify(domain.ResultEvent)
}

// Options tune a Processor. Zero values get sensible defaults.
type Options struct {
	BatchSize int
	Notifier  Notifier
	Logger    *zap.Logger
	Clock     func() time.Time // injectable for tests; defaults to time.Now
}

// Processor owns the PlayerStats aggregate. All mutation flows through
// Submit; nothing else writes stats. A mutex guards against concurrent
// HTTP handlers, but the model is single-actor: one moderator, one
// logical writer per session.
type Processor struct {
	mu        sync.Mutex
	state     State
	current   *domain.QueueItem
	remaining []domain.QueueItem
	cursor    string
	batchSeq  uint64

	stats domain.PlayerStats
	combo *gamify.ComboTracker
	cat   gamify.Catalog
	dirty bool // last write-through failed; retry on next mutation

	store    Store
	fetcher  Fetcher
	notifier Notifier
	log      *zap.Logger
	clock    func() time.Time
	batch    int
}

// New creates a processor, loading persisted stats (zeroed defaults on
// first use) and generating today's challenges if needed.
func New(store Store, fetcher Fetcher, cat gamify.Catalog, opts Options) (*Processor, error) {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}

	stats, err := store.LoadStats()
	if err != nil {
		if err != domain.ErrStatsNotFound {
			return nil, fmt.Errorf("load player stats: %w", err)
		}
		stats = domain.NewPlayerStats()
	}

	// Level is derived state; recompute on load rather than trusting
	// whatever was stored.
	stats.Level = gamify.LevelForXP(stats.XP)

	p := &Processor{
		state:    StateEmpty,
		stats:    stats,
		combo:    gamify.NewComboTracker(cat.Combo),
		cat:      cat,
		store:    store,
		fetcher:  fetcher,
		notifier: opts.Notifier,
		log:      opts.Logger,
		clock:    opts.Clock,
		batch:    opts.BatchSize,
	}

	if gamify.EnsureDay(&p.stats, cat.Challenges, cat.DailyCount, p.clock()) {
		p.persist(nil)
	}
	return p, nil
}

// ─── Batch Loading ──────────────────────────────────────────────────────────

// StartLoad reserves a batch-request sequence token. A load completed with
// a stale token is discarded, so a superseded fetch (filter change, rapid
// reload) can never transition state out of order.
func (p *Processor) StartLoad() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.batchSeq++
	return p.batchSeq
}

// CompleteLoad installs a fetched batch if its token is still current.
func (p *Processor) CompleteLoad(seq uint64, items []domain.QueueItem, nextCursor string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.batchSeq {
		metrics.BatchLoads.WithLabelValues("stale").Inc()
		return domain.ErrStaleBatch
	}
	if p.state == StateProcessing {
		return domain.ErrInvalidTransition
	}

	p.cursor = nextCursor
	if len(items) == 0 {
		p.current = nil
		p.remaining = nil
		p.state = StateEmpty // valid terminal presentation state
		metrics.BatchLoads.WithLabelValues("empty").Inc()
		metrics.QueueRemaining.Set(0)
		return nil
	}

	batch := make([]domain.QueueItem, len(items))
	copy(batch, items)
	p.current = &batch[0]
	p.remaining = batch[1:]
	p.state = StateReady
	metrics.BatchLoads.WithLabelValues("ok").Inc()
	metrics.QueueRemaining.Set(float64(len(batch)))
	return nil
}

// Load fetches the next batch through the injected Fetcher. While the
// fetch is outstanding no decisions can be accepted (there is no current
// item); a fetch superseded by a newer Load is discarded on return.
func (p *Processor) Load(ctx context.Context) (int, error) {
	seq := p.StartLoad()

	p.mu.Lock()
	cursor := p.cursor
	p.mu.Unlock()

	items, next, err := p.fetcher.FetchBatch(ctx, cursor, p.batch)
	if err != nil {
		metrics.BatchLoads.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("fetch batch: %w", err)
	}
	if err := p.CompleteLoad(seq, items, next); err != nil {
		return 0, err
	}
	return len(items), nil
}

// ─── Decision Processing ────────────────────────────────────────────────────

// Submit applies one moderation decision to the current item.
// Exactly one decision may be in flight; a second submission while
// processing is rejected with ErrInvalidTransition and mutates nothing.
// Side effects apply in fixed order: combo → XP (multiplier from the
// updated combo) → level recompute → category counter → challenge
// progress → achievement evaluation → persist → notify. Achievements and
// challenge completions therefore observe the post-XP, post-counter state.
func (p *Processor) Submit(dec domain.Decision) (domain.ResultEvent, error) {
	p.mu.Lock()

	if p.state == StateProcessing {
		p.mu.Unlock()
		metrics.InvalidTransitions.Inc()
		return domain.ResultEvent{}, domain.ErrInvalidTransition
	}
	if p.state != StateReady || p.current == nil {
		p.mu.Unlock()
		metrics.InvalidTransitions.Inc()
		return domain.ResultEvent{}, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, domain.ErrNoCurrentItem)
	}

	item := *p.current
	now := dec.At
	if now.IsZero() {
		now = p.clock()
	}

	malformed := false
	var action domain.ActionKind
	if err := item.Validate(); err != nil {
		// Malformed items are consumed with zero XP instead of aborting
		// the batch. Combo and streak stay untouched — no decision of
		// merit was scored.
		malformed = true
		action = domain.ActionMalformed
		metrics.MalformedItems.Inc()
		p.log.Warn("malformed queue item skipped",
			zap.String("item", item.ID), zap.String("kind", string(item.Kind)))
	} else {
		var err error
		action, err = gamify.Classify(item, dec, p.cat.FastApproveCutoff())
		if err != nil {
			// Invalid decision for the item kind: surfaced, no mutation.
			p.mu.Unlock()
			return domain.ResultEvent{}, err
		}
	}

	p.state = StateProcessing

	rules := gamify.Rules(p.cat.Rules)
	base := rules.BaseXP(action)

	// Combo first — the multiplier comes from the *updated* state.
	var comboCount int
	if malformed {
		base = 0
	} else if rules.Disqualifies(action) {
		p.combo.Break()
		p.stats.StreakCount = 0
	} else {
		comboCount = p.combo.Advance(now)
		p.stats.StreakCount++
		if p.stats.StreakCount > p.stats.LongestStreak {
			p.stats.LongestStreak = p.stats.StreakCount
		}
		if comboCount > p.stats.BestCombo {
			p.stats.BestCombo = comboCount
		}
	}
	mult := p.combo.MultiplierFor(comboCount)

	result := p.score(item, action, base, mult, now, malformed)
	notifier := p.notifier
	p.mu.Unlock()

	// The processor stays in processing while observers run: a decision
	// submitted from a notification callback (double-tap, re-render) is
	// rejected, not applied to the next item.
	if notifier != nil {
		notifier.Notify(result)
	}

	p.mu.Lock()
	p.advance()
	result.QueueRemaining = p.queueLen()
	metrics.QueueRemaining.Set(float64(result.QueueRemaining))
	p.mu.Unlock()

	return result, nil
}

// score runs the scoring pipeline for one consumed item. The caller holds
// the mutex, has set the processing state, and has updated the combo
// tracker.
func (p *Processor) score(item domain.QueueItem, action domain.ActionKind, base int64, mult float64, now time.Time, malformed bool) domain.ResultEvent {
	// Day boundary: replace yesterday's challenges before scoring today.
	gamify.EnsureDay(&p.stats, p.cat.Challenges, p.cat.DailyCount, now)

	before := p.stats.View()
	levelBefore := p.stats.Level

	delta := int64(math.Round(float64(base) * mult))
	if delta < 0 {
		// The rules table permits negative rewards, but the aggregate's
		// XP is monotonically non-decreasing: penalties break the combo
		// and clamp to zero here.
		delta = 0
	}
	p.stats.XP += delta
	p.stats.Level = gamify.LevelForXP(p.stats.XP)

	category := domain.CategoryForAction(action)
	p.stats.Bump(category)
	p.stats.TotalDecisions++
	p.stats.LastActionAt = now

	// Challenge progress observes the post-XP, post-counter state.
	var completed []domain.Challenge
	var bonus int64
	if !malformed {
		completed, bonus = gamify.RecordDecision(&p.stats, p.cat.Challenges, category)
		if count := p.combo.Count(now); count > 0 {
			cc, cb := gamify.RecordCombo(&p.stats, p.cat.Challenges, count)
			completed = append(completed, cc...)
			bonus += cb
		}
		if len(p.remaining) == 0 {
			qc, qb := gamify.RecordQueueCleared(&p.stats, p.cat.Challenges)
			completed = append(completed, qc...)
			bonus += qb
		}
	}
	if bonus > 0 {
		p.stats.XP += bonus
		p.stats.Level = gamify.LevelForXP(p.stats.XP)
	}

	// Achievements run last over the fully updated snapshot, atomically
	// with the rest of the stats update — never reported twice.
	after := p.stats.View()
	newDefs := gamify.Evaluate(before, after, now, p.stats.Unlocked)
	var achIDs []string
	var achXP int64
	for _, def := range newDefs {
		p.stats.Unlocked[def.ID] = now
		achIDs = append(achIDs, def.ID)
		achXP += def.RewardXP
	}
	if achXP > 0 {
		p.stats.XP += achXP
		p.stats.Level = gamify.LevelForXP(p.stats.XP)
	}

	event := domain.ScoreEvent{
		ItemID:     item.ID,
		Action:     action,
		Category:   category,
		BaseXP:     base,
		Multiplier: mult,
		XPDelta:    delta,
		CreatedAt:  now,
	}
	p.persist(&event)

	comboState := p.combo.State(now)
	result := domain.ResultEvent{
		ItemID:              item.ID,
		Action:              action,
		XPDelta:             delta + bonus + achXP,
		XP:                  p.stats.XP,
		Level:               p.stats.Level,
		LeveledUp:           p.stats.Level > levelBefore,
		Combo:               comboState,
		NewAchievements:     achIDs,
		ChallengesCompleted: challengeIDs(completed),
		QueueRemaining:      len(p.remaining),
		At:                  now,
	}

	pool := gamify.PoolPraise
	switch {
	case result.LeveledUp:
		pool = gamify.PoolLevelUp
	case action == domain.ActionSkip || action == domain.ActionVoiceMiss:
		pool = gamify.PoolRoast
	}
	result.Message = gamify.PickMessage(p.cat.Flavor[pool], p.stats.TotalDecisions)

	metrics.DecisionsTotal.WithLabelValues(string(category)).Inc()
	metrics.XPAwarded.Add(float64(result.XPDelta))
	metrics.Level.Set(float64(p.stats.Level))
	metrics.ComboCount.Set(float64(comboState.Count))
	metrics.AchievementsUnlocked.Add(float64(len(achIDs)))
	metrics.ChallengesCompleted.Add(float64(len(completed)))

	return result
}

// advance promotes the next queued item, or drains out. The caller holds
// the mutex.
func (p *Processor) advance() {
	if len(p.remaining) > 0 {
		p.current = &p.remaining[0]
		p.remaining = p.remaining[1:]
		p.state = StateReady
	} else {
		p.current = nil
		p.state = StateExhausted
	}
}

// persist writes the aggregate through to storage. Failure never blocks
// scoring: it is logged, counted, and retried on the next mutation (the
// next write carries the full latest state, so last-write-wins heals it).
func (p *Processor) persist(event *domain.ScoreEvent) {
	if err := p.store.SaveStats(p.stats); err != nil {
		p.dirty = true
		metrics.PersistFailures.Inc()
		p.log.Warn("stats write-through failed; will retry on next mutation", zap.Error(err))
	} else {
		if p.dirty {
			p.log.Info("stats write-through recovered")
		}
		p.dirty = false
	}
	if event != nil {
		if err := p.store.AppendScoreEvent(*event); err != nil {
			p.log.Warn("score event append failed", zap.Error(err))
		}
	}
}

// ─── Accessors ──────────────────────────────────────────────────────────────

// Snapshot is the read-only view the API layer serves.
type Snapshot struct {
	State     State              `json:"state"`
	Current   *domain.QueueItem  `json:"current,omitempty"`
	Remaining int                `json:"remaining"`
	Stats     domain.PlayerStats `json:"stats"`
	Level     gamify.LevelInfo   `json:"level"`
	Combo     domain.ComboState  `json:"combo"`
}

// Snapshot returns a copy of the processor's UI-visible state.
func (p *Processor) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		State:     p.state,
		Remaining: p.queueLen(),
		Stats:     p.stats.Clone(),
		Level:     gamify.InfoForXP(p.stats.XP),
		Combo:     p.combo.State(p.clock()),
	}
	if p.current != nil {
		cur := *p.current
		snap.Current = &cur
	}
	return snap
}

// Stats returns a deep copy of the aggregate.
func (p *Processor) Stats() domain.PlayerStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.Clone()
}

// Challenges returns today's challenge set, generating it if the day
// rolled over since the last decision.
func (p *Processor) Challenges() []domain.Challenge {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gamify.EnsureDay(&p.stats, p.cat.Challenges, p.cat.DailyCount, p.clock()) {
		p.persist(nil)
	}
	out := make([]domain.Challenge, len(p.stats.DailyChallenges))
	copy(out, p.stats.DailyChallenges)
	return out
}

func (p *Processor) queueLen() int {
	n := len(p.remaining)
	if p.current != nil {
		n++
	}
	return n
}

func challengeIDs(cs []domain.Challenge) []string {
	if len(cs) == 0 {
		return nil
	}
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}
