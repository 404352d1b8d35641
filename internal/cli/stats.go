package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show reviewer progress (XP, level, streaks)",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	d, err := openEngine()
	if err != nil {
		return err
	}
	defer d.Close()

	snap := d.Processor.Snapshot()
	view := snap.Stats.View()

	fmt.Printf("Level %d  %s  %d XP\n",
		snap.Level.Level, bar(int(snap.Level.XPIntoLevel), int(snap.Level.XPIntoLevel+snap.Level.XPForNextLevel)), view.XP)
	if snap.Level.XPForNextLevel > 0 {
		fmt.Printf("Next level in %d XP\n", snap.Level.XPForNextLevel)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DECISIONS\tPOSTED\tREJECTED\tSKIPPED\tDRAFTS\tVOICE\tMEDIA")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
		view.TotalDecisions, view.Posted, view.Rejected, view.Skipped,
		view.Drafts, view.Voice, view.Media)
	w.Flush()

	fmt.Printf("\nStreak %d (best %d)  Combo best x%d\n",
		view.StreakCount, view.LongestStreak, view.BestCombo)
	if snap.Combo.Active {
		fmt.Printf("Combo running: %d decisions, %.1fx multiplier\n",
			snap.Combo.Count, snap.Combo.Multiplier)
	}
	return nil
}
