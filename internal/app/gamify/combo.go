package gamify

import (
	"time"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// ComboConfig tunes the combo window and multiplier steps.
type ComboConfig struct {
	Window        time.Duration `yaml:"-"`
	WindowMs      int           `yaml:"window_ms"`
	ThresholdA    int           `yaml:"threshold_a"` // count where ×1.5 starts
	ThresholdB    int           `yaml:"threshold_b"` // count where ×2.0 starts
	MaxMultiplier float64       `yaml:"max_multiplier"`
}

// DefaultComboConfig matches the dashboard defaults: a 30s window,
// ×1.5 once a run of 3 is built, ×2.0 past 6, capped there.
func DefaultComboConfig() ComboConfig {
	return ComboConfig{
		Window:        30 * time.Second,
		ThresholdA:    3,
		ThresholdB:    6,
		MaxMultiplier: 2.0,
	}
}

// ComboTracker counts consecutive qualifying decisions inside a rolling
// wall-clock window. Two states: idle (count 0) and active. Expiry is
// evaluated lazily against the next decision's timestamp — combo state is
// never suspended and resumed across inactivity, it lapses.
type ComboTracker struct {
	cfg        ComboConfig
	count      int
	windowEnds time.Time
}

// NewComboTracker creates an idle tracker.
func NewComboTracker(cfg ComboConfig) *ComboTracker {
	if cfg.Window <= 0 {
		cfg.Window = DefaultComboConfig().Window
	}
	if cfg.MaxMultiplier <= 0 {
		cfg.MaxMultiplier = DefaultComboConfig().MaxMultiplier
	}
	return &ComboTracker{cfg: cfg}
}

// Advance records a qualifying decision at the given time and returns the
// new combo count. Inside the window the count extends; from idle or after
// the window lapsed it restarts at 1. The window resets either way.
func (c *ComboTracker) Advance(now time.Time) int {
	if c.count == 0 || now.After(c.windowEnds) {
		c.count = 1
	} else {
		c.count++
	}
	c.windowEnds = now.Add(c.cfg.Window)
	return c.count
}

// Break records a disqualifying decision: back to idle.
func (c *ComboTracker) Break() {
	c.count = 0
	c.windowEnds = time.Time{}
}

// Count returns the combo count observed at the given time, zero if the
// window has lapsed.
func (c *ComboTracker) Count(now time.Time) int {
	if c.count == 0 || now.After(c.windowEnds) {
		return 0
	}
	return c.count
}

// MultiplierFor is the step function applied to XP for a given count.
// The boost pays out only after a run has built past a threshold; the
// decisions that build the run still score at the lower tier.
func (c *ComboTracker) MultiplierFor(count int) float64 {
	mult := 1.0
	if c.cfg.ThresholdA > 0 && count > c.cfg.ThresholdA {
		mult = 1.5
	}
	if c.cfg.ThresholdB > 0 && count > c.cfg.ThresholdB {
		mult = 2.0
	}
	if mult > c.cfg.MaxMultiplier {
		mult = c.cfg.MaxMultiplier
	}
	return mult
}

// State snapshots the tracker for the UI at the given time.
func (c *ComboTracker) State(now time.Time) domain.ComboState {
	count := c.Count(now)
	st := domain.ComboState{
		Active:     count > 0,
		Count:      count,
		Multiplier: c.MultiplierFor(count),
	}
	if st.Active {
		st.WindowEnds = c.windowEnds
	}
	return st
}
