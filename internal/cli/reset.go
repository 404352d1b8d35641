package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe XP, achievements, and challenges (queue items survive)",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetYes {
		fmt.Print("This erases all progress. Type 'reset' to confirm: ")
		var answer string
		fmt.Scanln(&answer)
		if answer != "reset" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	d, err := openEngine()
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.DB.ResetProgress(); err != nil {
		return err
	}
	fmt.Println("Progress reset. The queue is untouched.")
	return nil
}
