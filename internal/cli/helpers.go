package cli

import (
	"strings"

	"github.com/swipedeck/swipedeck/internal/daemon"
)

const barWidth = 20

// openEngine builds the engine stack against the local state directory.
// CLI commands operate on the same database the daemon serves.
func openEngine() (*daemon.Daemon, error) {
	return daemon.New()
}

// bar renders a fixed-width progress bar like [########------------].
func bar(progress, target int) string {
	if target <= 0 {
		target = 1
	}
	filled := progress * barWidth / target
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// mark renders a done/pending marker.
func mark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
