package gamify

import (
	"math"
)

// maxLevel caps the curve. Past this the moderator has seen everything.
const maxLevel = 100

// LevelInfo describes where a given XP total sits on the level curve.
type LevelInfo struct {
	Level          int     `json:"level"`
	XPIntoLevel    int64   `json:"xp_into_level"`
	XPForNextLevel int64   `json:"xp_for_next_level"` // 0 at max level
	Progress       float64 `json:"progress"`          // fraction in [0,1]
}

// XPForLevel returns the cumulative XP required to reach a given level.
// Exponential curve: 100 * 1.2^(level-1) for level >= 2.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(100 * math.Pow(1.2, float64(level-1)))
}

// LevelForXP returns the level for a given XP amount.
// Iterates upward until cumulative XP exceeds the target.
func LevelForXP(xp int64) int {
	level := 1
	for level < maxLevel {
		required := XPForLevel(level + 1)
		if xp < required {
			return level
		}
		level++
	}
	return maxLevel
}

// InfoForXP is the pure, total level function: defined for all inputs,
// deterministic, no hidden state. Negative XP clamps to zero.
func InfoForXP(xp int64) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := LevelForXP(xp)

	if level >= maxLevel {
		return LevelInfo{Level: maxLevel, XPIntoLevel: xp - XPForLevel(maxLevel), Progress: 1.0}
	}

	floor := XPForLevel(level)
	next := XPForLevel(level + 1)
	span := next - floor
	info := LevelInfo{
		Level:          level,
		XPIntoLevel:    xp - floor,
		XPForNextLevel: next - xp,
	}
	if span > 0 {
		info.Progress = float64(xp-floor) / float64(span)
	}
	if info.Progress < 0 {
		info.Progress = 0
	}
	if info.Progress > 1 {
		info.Progress = 1
	}
	return info
}
