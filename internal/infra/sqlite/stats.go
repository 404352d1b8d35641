package sqlite

import (
	"fmt"
	"strconv"
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// Scalar stats live in the key-value table; achievements and challenges
// have their own tables. SaveStats writes all three in one transaction so
// a crash never leaves the aggregate half-persisted.

const (
	keyXP             = "xp"
	keyLevel          = "level"
	keyStreakCount    = "streak_count"
	keyLongestStreak  = "longest_streak"
	keyBestCombo      = "best_combo"
	keyTotalDecisions = "total_decisions"
	keyLastActionAt   = "last_action_at"
)

var categories = []domain.Category{
	domain.CatPosted, domain.CatRejected, domain.CatSkipped,
	domain.CatDrafts, domain.CatVoice, domain.CatMedia,
}

// LoadStats reconstructs the player aggregate. Returns
// domain.ErrStatsNotFound on a fresh database.
func (d *DB) LoadStats() (domain.PlayerStats, error) {
	stats := domain.NewPlayerStats()

	kv, err := d.statsKV()
	if err != nil {
		return stats, fmt.Errorf("load stats kv: %w", err)
	}
	if _, ok := kv[keyXP]; !ok {
		return stats, domain.ErrStatsNotFound
	}

	stats.XP = kvInt(kv, keyXP)
	stats.Level = int(kvInt(kv, keyLevel))
	stats.StreakCount = int(kvInt(kv, keyStreakCount))
	stats.LongestStreak = int(kvInt(kv, keyLongestStreak))
	stats.BestCombo = int(kvInt(kv, keyBestCombo))
	stats.TotalDecisions = kvInt(kv, keyTotalDecisions)
	if ts := kvInt(kv, keyLastActionAt); ts > 0 {
		stats.LastActionAt = time.Unix(ts, 0)
	}
	for _, c := range categories {
		stats.Counts[c] = kvInt(kv, "count_"+string(c))
	}

	if err := d.loadAchievements(&stats); err != nil {
		return stats, fmt.Errorf("load achievements: %w", err)
	}
	if err := d.loadChallenges(&stats); err != nil {
		return stats, fmt.Errorf("load challenges: %w", err)
	}
	return stats, nil
}

// SaveStats writes the full aggregate through. Last write wins.
func (d *DB) SaveStats(stats domain.PlayerStats) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save stats: %w", err)
	}
	defer tx.Rollback()

	var lastAction int64
	if !stats.LastActionAt.IsZero() {
		lastAction = stats.LastActionAt.Unix()
	}
	pairs := map[string]int64{
		keyXP:             stats.XP,
		keyLevel:          int64(stats.Level),
		keyStreakCount:    int64(stats.StreakCount),
		keyLongestStreak:  int64(stats.LongestStreak),
		keyBestCombo:      int64(stats.BestCombo),
		keyTotalDecisions: stats.TotalDecisions,
		keyLastActionAt:   lastAction,
	}
	for _, c := range categories {
		pairs["count_"+string(c)] = stats.Counts[c]
	}
	for k, v := range pairs {
		if _, err := tx.Exec(
			`INSERT INTO stats (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
			k, strconv.FormatInt(v, 10),
		); err != nil {
			return fmt.Errorf("save stats key %s: %w", k, err)
		}
	}

	for id, at := range stats.Unlocked {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO achievements (id, unlocked_at) VALUES (?, ?)`,
			id, at.Unix(),
		); err != nil {
			return fmt.Errorf("save achievement %s: %w", id, err)
		}
	}

	// Challenges are only ever the current day's set; drop stale rows.
	var dateKey string
	if len(stats.DailyChallenges) > 0 {
		dateKey = stats.DailyChallenges[0].DateKey
	}
	if _, err := tx.Exec(`DELETE FROM challenges WHERE date_key != ?`, dateKey); err != nil {
		return fmt.Errorf("prune challenges: %w", err)
	}
	for _, c := range stats.DailyChallenges {
		if _, err := tx.Exec(
			`INSERT INTO challenges (id, template, description, category, target, progress, reward_xp, completed, date_key)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET progress=excluded.progress, completed=excluded.completed`,
			c.ID, c.Template, c.Description, string(c.Category),
			c.Target, c.Progress, c.RewardXP, c.Completed, c.DateKey,
		); err != nil {
			return fmt.Errorf("save challenge %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// AppendScoreEvent records one scored decision in the append-only log.
func (d *DB) AppendScoreEvent(e domain.ScoreEvent) error {
	_, err := d.db.Exec(
		`INSERT INTO score_events (item_id, action, category, base_xp, multiplier, xp_delta, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ItemID, string(e.Action), string(e.Category),
		e.BaseXP, e.Multiplier, e.XPDelta, e.CreatedAt.Unix(),
	)
	return err
}

// RecentEvents returns the latest scored decisions, newest first.
func (d *DB) RecentEvents(limit int) ([]domain.ScoreEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT item_id, action, category, base_xp, multiplier, xp_delta, created_at
		 FROM score_events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.ScoreEvent
	for rows.Next() {
		var e domain.ScoreEvent
		var action, category string
		var createdAt int64
		if err := rows.Scan(&e.ItemID, &action, &category, &e.BaseXP, &e.Multiplier, &e.XPDelta, &createdAt); err != nil {
			return nil, err
		}
		e.Action = domain.ActionKind(action)
		e.Category = domain.Category(category)
		e.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (d *DB) statsKV() (map[string]string, error) {
	rows, err := d.db.Query(`SELECT key, value FROM stats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		kv[k] = v
	}
	return kv, rows.Err()
}

func (d *DB) loadAchievements(stats *domain.PlayerStats) error {
	rows, err := d.db.Query(`SELECT id, unlocked_at FROM achievements`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var at int64
		if err := rows.Scan(&id, &at); err != nil {
			return err
		}
		stats.Unlocked[id] = time.Unix(at, 0)
	}
	return rows.Err()
}

func (d *DB) loadChallenges(stats *domain.PlayerStats) error {
	rows, err := d.db.Query(
		`SELECT id, template, description, category, target, progress, reward_xp, completed, date_key
		 FROM challenges ORDER BY id ASC`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.Challenge
		var category string
		if err := rows.Scan(&c.ID, &c.Template, &c.Description, &category,
			&c.Target, &c.Progress, &c.RewardXP, &c.Completed, &c.DateKey); err != nil {
			return err
		}
		c.Category = domain.Category(category)
		stats.DailyChallenges = append(stats.DailyChallenges, c)
	}
	return rows.Err()
}

func kvInt(kv map[string]string, key string) int64 {
	v, ok := kv[key]
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
