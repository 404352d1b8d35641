package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(challengesCmd)
}

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Show today's daily challenges",
	RunE:  runChallenges,
}

func runChallenges(cmd *cobra.Command, args []string) error {
	d, err := openEngine()
	if err != nil {
		return err
	}
	defer d.Close()

	challenges := d.Processor.Challenges()
	if len(challenges) == 0 {
		fmt.Println("No challenges today.")
		return nil
	}

	fmt.Printf("Daily challenges for %s\n\n", challenges[0].DateKey)
	for _, c := range challenges {
		fmt.Printf("%s %s %s %d/%d  (+%d XP)\n",
			mark(c.Completed), bar(c.Progress, c.Target), c.Description,
			c.Progress, c.Target, c.RewardXP)
	}
	return nil
}
