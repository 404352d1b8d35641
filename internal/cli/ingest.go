package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swipedeck/swipedeck/internal/domain"
	"github.com/swipedeck/swipedeck/internal/infra/ingest"
)

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Parse a local HTML feed export instead of fetching a URL")
	rootCmd.AddCommand(ingestCmd)
}

var ingestFile string

var ingestCmd = &cobra.Command{
	Use:   "ingest [url]",
	Short: "Pull pending content from a dashboard feed into the queue",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	d, err := openEngine()
	if err != nil {
		return err
	}
	defer d.Close()

	items, err := ingestItems(args)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("Feed contained no queue items.")
		return nil
	}

	inserted, err := d.DB.InsertItems(items)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d items, queued %d new (%d duplicates skipped)\n",
		len(items), inserted, len(items)-inserted)
	return nil
}

func ingestItems(args []string) ([]domain.QueueItem, error) {
	if ingestFile != "" {
		f, err := os.Open(ingestFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ingest.ParseFeed(f)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("a feed url or --file is required")
	}
	scanner := ingest.NewFeedScanner(nil)
	return scanner.Fetch(context.Background(), args[0])
}
