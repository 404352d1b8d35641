package gamify

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// Challenge metrics. Most templates count matching decisions; the rest
// track special events signaled by the queue processor.
const (
	MetricDecisions  = "decisions"
	MetricCombo      = "combo"
	MetricQueueClear = "queue_clear"
)

// ChallengeTemplate defines the pool of possible daily challenges.
type ChallengeTemplate struct {
	ID          string          `yaml:"id"`
	Description string          `yaml:"description"`
	Metric      string          `yaml:"metric,omitempty"` // defaults to decisions
	Category    domain.Category `yaml:"category,omitempty"`
	Target      int             `yaml:"target"`
	RewardXP    int64           `yaml:"reward_xp"`
}

// DefaultChallengeTemplates is the compiled-in template pool.
func DefaultChallengeTemplates() []ChallengeTemplate {
	return []ChallengeTemplate{
		{ID: "approve_10", Description: "Approve 10 items", Category: domain.CatPosted, Target: 10, RewardXP: 60},
		{ID: "approve_20", Description: "Approve 20 items", Category: domain.CatPosted, Target: 20, RewardXP: 120},
		{ID: "decide_15", Description: "Decide 15 items of any kind", Target: 15, RewardXP: 80},
		{ID: "reject_5", Description: "Reject 5 items", Category: domain.CatRejected, Target: 5, RewardXP: 50},
		{ID: "voice_5", Description: "Work through 5 voice prompts", Category: domain.CatVoice, Target: 5, RewardXP: 70},
		{ID: "media_5", Description: "Pick 5 media comparisons", Category: domain.CatMedia, Target: 5, RewardXP: 70},
		{ID: "combo_5", Description: "Hit a combo of 5", Metric: MetricCombo, Target: 5, RewardXP: 90},
		{ID: "clear_queue", Description: "Clear the whole queue", Metric: MetricQueueClear, Target: 1, RewardXP: 100},
	}
}

// DateKey formats a calendar day in the caller's local time zone.
// The same zone feeds the time-of-day achievement predicates, so day
// boundaries and "night" agree with what the moderator sees.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// GenerateDaily deterministically selects n challenges for a date key.
// The seed derives from the key alone, so the same day always yields the
// same set across reloads, and different days (very likely) differ.
func GenerateDaily(pool []ChallengeTemplate, dateKey string, n int) []domain.Challenge {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	h := fnv.New64a()
	h.Write([]byte(dateKey))
	r := rand.New(rand.NewSource(int64(h.Sum64())))

	shuffled := make([]ChallengeTemplate, len(pool))
	copy(shuffled, pool)
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}

	challenges := make([]domain.Challenge, 0, n)
	for _, tmpl := range shuffled[:n] {
		challenges = append(challenges, domain.Challenge{
			ID:          fmt.Sprintf("%s-%s", tmpl.ID, dateKey),
			Template:    tmpl.ID,
			Description: tmpl.Description,
			Category:    tmpl.Category,
			Target:      tmpl.Target,
			RewardXP:    tmpl.RewardXP,
			DateKey:     dateKey,
		})
	}
	return challenges
}

// EnsureDay replaces the stats' challenge set when the date key changed
// (or on first use). Yesterday's progress is discarded, never carried
// over. Returns true if the set was (re)generated.
func EnsureDay(stats *domain.PlayerStats, pool []ChallengeTemplate, n int, now time.Time) bool {
	key := DateKey(now)
	if len(stats.DailyChallenges) > 0 && stats.DailyChallenges[0].DateKey == key {
		return false
	}
	stats.DailyChallenges = GenerateDaily(pool, key, n)
	return true
}

// RecordDecision advances every active challenge whose category matches
// the decision (empty category matches anything). Completion flips exactly
// once; completed challenges are returned along with their total bonus XP.
func RecordDecision(stats *domain.PlayerStats, pool []ChallengeTemplate, cat domain.Category) ([]domain.Challenge, int64) {
	return applyProgress(stats, pool, func(tmpl ChallengeTemplate) bool {
		return metricOf(tmpl) == MetricDecisions && (tmpl.Category == "" || tmpl.Category == cat)
	}, func(c *domain.Challenge) {
		c.Progress++
	})
}

// RecordCombo updates combo-metric challenges with the highest combo
// count observed so far today.
func RecordCombo(stats *domain.PlayerStats, pool []ChallengeTemplate, count int) ([]domain.Challenge, int64) {
	return applyProgress(stats, pool, func(tmpl ChallengeTemplate) bool {
		return metricOf(tmpl) == MetricCombo
	}, func(c *domain.Challenge) {
		if count > c.Progress {
			c.Progress = count
		}
	})
}

// RecordQueueCleared advances clear-the-queue challenges.
func RecordQueueCleared(stats *domain.PlayerStats, pool []ChallengeTemplate) ([]domain.Challenge, int64) {
	return applyProgress(stats, pool, func(tmpl ChallengeTemplate) bool {
		return metricOf(tmpl) == MetricQueueClear
	}, func(c *domain.Challenge) {
		c.Progress++
	})
}

func applyProgress(stats *domain.PlayerStats, pool []ChallengeTemplate, match func(ChallengeTemplate) bool, update func(*domain.Challenge)) ([]domain.Challenge, int64) {
	byID := make(map[string]ChallengeTemplate, len(pool))
	for _, tmpl := range pool {
		byID[tmpl.ID] = tmpl
	}

	var completed []domain.Challenge
	var bonus int64
	for i := range stats.DailyChallenges {
		c := &stats.DailyChallenges[i]
		if c.Completed {
			continue
		}
		tmpl, ok := byID[c.Template]
		if !ok || !match(tmpl) {
			continue
		}
		update(c)
		if c.Progress >= c.Target {
			c.Progress = c.Target
			c.Completed = true
			bonus += c.RewardXP
			completed = append(completed, *c)
		}
	}
	return completed, bonus
}

func metricOf(tmpl ChallengeTemplate) string {
	if tmpl.Metric == "" {
		return MetricDecisions
	}
	return tmpl.Metric
}
