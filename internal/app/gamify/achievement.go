package gamify

import (
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// Def defines a single achievement's requirements.
// Predicates are pure: they read the before/after stats snapshots and the
// decision time, and never trigger further mutation.
type Def struct {
	ID          string
	Name        string
	Description string
	Icon        string
	RewardXP    int64
	Predicate   func(before, after domain.StatsView, at time.Time) bool
}

// Evaluate runs every not-yet-unlocked achievement against the snapshot
// pair taken around one applied decision. It returns the defs whose
// predicate is newly true; the caller records them on the stats aggregate.
// Already-unlocked ids are skipped, so replaying the same decision against
// a frozen before-snapshot can never double-unlock.
func Evaluate(before, after domain.StatsView, at time.Time, unlocked map[string]time.Time) []Def {
	var newly []Def
	for _, def := range Defs() {
		if _, held := unlocked[def.ID]; held {
			continue
		}
		if def.Predicate != nil && def.Predicate(before, after, at) {
			newly = append(newly, def)
		}
	}
	return newly
}

// Defs returns the full achievement catalog.
func Defs() []Def {
	return []Def{
		// ── Getting Started ────────────────────────────────────────────
		{
			ID: "first_post", Name: "First Post", Icon: "🎉", RewardXP: 20,
			Description: "Approve your first item",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Posted == 0 && a.Posted >= 1
			},
		},
		{
			ID: "ten_posts", Name: "Ten Going Strong", Icon: "📣", RewardXP: 50,
			Description: "Approve 10 items",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Posted < 10 && a.Posted >= 10
			},
		},
		{
			ID: "fifty_posts", Name: "Feed Machine", Icon: "🏭", RewardXP: 150,
			Description: "Approve 50 items",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Posted < 50 && a.Posted >= 50
			},
		},
		{
			ID: "century_club", Name: "Century Club", Icon: "💯", RewardXP: 300,
			Description: "Decide 100 items of any kind",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.TotalDecisions < 100 && a.TotalDecisions >= 100
			},
		},

		// ── Habits ─────────────────────────────────────────────────────
		{
			ID: "night_owl", Name: "Night Owl", Icon: "🦉", RewardXP: 40,
			Description: "Approve something between 1 and 5 in the morning",
			Predicate: func(b, a domain.StatsView, at time.Time) bool {
				h := at.Hour()
				return a.Posted > b.Posted && h >= 1 && h < 5
			},
		},
		{
			ID: "weekend_warrior", Name: "Weekend Warrior", Icon: "🗓️", RewardXP: 40,
			Description: "Approve something on a weekend",
			Predicate: func(b, a domain.StatsView, at time.Time) bool {
				wd := at.Weekday()
				return a.Posted > b.Posted && (wd == time.Saturday || wd == time.Sunday)
			},
		},
		{
			ID: "draft_hoarder", Name: "Draft Hoarder", Icon: "🗃️", RewardXP: 25,
			Description: "Stack up 10 drafts without posting anything",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Drafts < 10 && a.Drafts >= 10 && a.Posted == 0
			},
		},
		{
			ID: "tough_critic", Name: "Tough Critic", Icon: "🧐", RewardXP: 60,
			Description: "Reject 25 items",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Rejected < 25 && a.Rejected >= 25
			},
		},

		// ── Combos & Streaks ───────────────────────────────────────────
		{
			ID: "combo_spark", Name: "Combo Spark", Icon: "✨", RewardXP: 30,
			Description: "Hit a 3-decision combo",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.BestCombo < 3 && a.BestCombo >= 3
			},
		},
		{
			ID: "combo_blaze", Name: "Combo Blaze", Icon: "🔥", RewardXP: 80,
			Description: "Hit a 6-decision combo",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.BestCombo < 6 && a.BestCombo >= 6
			},
		},
		{
			ID: "streak_10", Name: "On a Roll", Icon: "🎳", RewardXP: 60,
			Description: "10 qualifying decisions without a miss",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.LongestStreak < 10 && a.LongestStreak >= 10
			},
		},
		{
			ID: "streak_25", Name: "Untouchable", Icon: "🛡️", RewardXP: 150,
			Description: "25 qualifying decisions without a miss",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.LongestStreak < 25 && a.LongestStreak >= 25
			},
		},

		// ── Training ───────────────────────────────────────────────────
		{
			ID: "voice_coach", Name: "Voice Coach", Icon: "🎙️", RewardXP: 70,
			Description: "Work through 10 voice-tone prompts",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Voice < 10 && a.Voice >= 10
			},
		},
		{
			ID: "media_maven", Name: "Media Maven", Icon: "🖼️", RewardXP: 70,
			Description: "Pick 10 media-edit comparisons",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Media < 10 && a.Media >= 10
			},
		},

		// ── Progression ────────────────────────────────────────────────
		{
			ID: "level_5", Name: "Rising Star", Icon: "🌅", RewardXP: 100,
			Description: "Reach level 5",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Level < 5 && a.Level >= 5
			},
		},
		{
			ID: "level_10", Name: "Deck Veteran", Icon: "🎖️", RewardXP: 250,
			Description: "Reach level 10",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return b.Level < 10 && a.Level >= 10
			},
		},
		{
			ID: "challenge_sweep", Name: "Clean Sweep", Icon: "🧹", RewardXP: 120,
			Description: "Complete every daily challenge in one day",
			Predicate: func(b, a domain.StatsView, _ time.Time) bool {
				return a.ChallengesTotal > 0 &&
					a.ChallengesDone == a.ChallengesTotal &&
					b.ChallengesDone < b.ChallengesTotal
			},
		},
	}
}
