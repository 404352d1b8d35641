package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/swipedeck/swipedeck/internal/app/gamify"
)

func init() {
	achievementsCmd.Flags().BoolVar(&achievementsAll, "all", false, "Include locked achievements")
	rootCmd.AddCommand(achievementsCmd)
}

var achievementsAll bool

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach"},
	Short:   "List unlocked achievements",
	RunE:    runAchievements,
}

func runAchievements(cmd *cobra.Command, args []string) error {
	d, err := openEngine()
	if err != nil {
		return err
	}
	defer d.Close()

	unlocked := d.Processor.Stats().Unlocked
	defs := gamify.Defs()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tREWARD\tUNLOCKED")
	shown := 0
	for _, def := range defs {
		at, ok := unlocked[def.ID]
		if !ok && !achievementsAll {
			continue
		}
		shown++
		when := "-"
		if ok {
			when = at.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s %s\t%s\t%d XP\t%s\n", mark(ok), def.Icon, def.Name, def.RewardXP, when)
	}
	w.Flush()

	if shown == 0 {
		fmt.Println("Nothing unlocked yet. Run 'swipedeck achievements --all' to see what's out there.")
	}
	fmt.Printf("\n%d of %d unlocked\n", len(unlocked), len(defs))
	return nil
}
