package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/display"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show content and inbox statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := store.Counts(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, c)
		}

		display.Header("Folio Statistics")
		fmt.Println()

		synced := display.Dim.Render("(never synced)")
		if c.LastSynced != "" {
			synced = display.Dim.Render(fmt.Sprintf("(last sync: %s)", display.TimeAgo(c.LastSynced)))
		}
		fmt.Printf("  Content  %s\n", synced)
		fmt.Printf("    Projects   %3d\n", c.Projects)
		fmt.Printf("    Posts      %3d\n", c.Posts)
		fmt.Printf("    Skills     %3d\n", c.Skills)
		fmt.Printf("    Authors    %3d\n", c.Authors)
		fmt.Println()

		fmt.Println("  Inbox")
		fmt.Printf("    Messages   %3d\n", c.Messages)
		pending := fmt.Sprintf("%3d", c.Unnotified)
		if c.Unnotified > 0 {
			pending = display.PendingText.Render(pending)
		}
		fmt.Printf("    Unnotified %s\n", pending)
		fmt.Println()

		fmt.Printf("  Source: %s  ·  Database: %s\n", cfg.Content.Source, display.Dim.Render(store.Path()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
