package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(queueCmd)
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the review queue state",
	RunE:  runQueue,
}

func runQueue(cmd *cobra.Command, args []string) error {
	d, err := openEngine()
	if err != nil {
		return err
	}
	defer d.Close()

	pending, err := d.DB.PendingCount()
	if err != nil {
		return err
	}

	snap := d.Processor.Snapshot()
	fmt.Printf("State: %s\n", snap.State)
	fmt.Printf("Pending in storage: %d\n", pending)
	if snap.Current != nil {
		fmt.Printf("Current item: %s (%s)\n", snap.Current.ID, snap.Current.Kind)
		fmt.Printf("  %s\n", snap.Current.Payload)
	}
	if snap.Remaining > 0 {
		fmt.Printf("Loaded batch remaining: %d\n", snap.Remaining)
	}
	return nil
}
