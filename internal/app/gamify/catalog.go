package gamify

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/swipedeck/swipedeck/internal/domain"
)

// Catalog bundles every tunable table of the engine: scoring rules, combo
// thresholds, the daily-challenge pool, and flavor copy. A YAML file can
// override any section; omitted sections keep the compiled-in defaults.
type Catalog struct {
	Rules         map[domain.ActionKind]int64 `yaml:"rules,omitempty"`
	Combo         ComboConfig                 `yaml:"combo,omitempty"`
	FastApproveMs int                         `yaml:"fast_approve_ms,omitempty"`
	DailyCount    int                         `yaml:"daily_count,omitempty"`
	Challenges    []ChallengeTemplate         `yaml:"challenges,omitempty"`
	Flavor        map[string][]string         `yaml:"flavor,omitempty"`
}

// DefaultCatalog returns the compiled-in tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Rules:         DefaultRules(),
		Combo:         DefaultComboConfig(),
		FastApproveMs: 3000,
		DailyCount:    3,
		Challenges:    DefaultChallengeTemplates(),
		Flavor:        DefaultFlavorPools(),
	}
}

// LoadCatalog reads a YAML catalog file over the defaults.
// An empty path returns the defaults unchanged.
func LoadCatalog(path string) (Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cat, fmt.Errorf("read catalog: %w", err)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return cat, fmt.Errorf("parse catalog: %w", err)
	}

	if len(override.Rules) > 0 {
		cat.Rules = override.Rules
	}
	if override.Combo.WindowMs > 0 || override.Combo.ThresholdA > 0 {
		cat.Combo = override.Combo
	}
	if override.FastApproveMs > 0 {
		cat.FastApproveMs = override.FastApproveMs
	}
	if override.DailyCount > 0 {
		cat.DailyCount = override.DailyCount
	}
	if len(override.Challenges) > 0 {
		cat.Challenges = override.Challenges
	}
	if len(override.Flavor) > 0 {
		cat.Flavor = override.Flavor
	}

	cat.normalize()
	return cat, nil
}

// normalize derives durations from the serialized millisecond knobs.
func (c *Catalog) normalize() {
	if c.Combo.WindowMs > 0 {
		c.Combo.Window = time.Duration(c.Combo.WindowMs) * time.Millisecond
	}
	if c.Combo.Window <= 0 {
		c.Combo.Window = DefaultComboConfig().Window
	}
	if c.Combo.MaxMultiplier <= 0 {
		c.Combo.MaxMultiplier = DefaultComboConfig().MaxMultiplier
	}
}

// FastApproveCutoff returns the speed-bonus cutoff as a duration.
func (c Catalog) FastApproveCutoff() time.Duration {
	return time.Duration(c.FastApproveMs) * time.Millisecond
}
