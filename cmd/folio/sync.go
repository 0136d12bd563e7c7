package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/display"
	fsync "github.com/daviddao/folio/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror Sanity content into the local database",
	Long:  "Fetch every author, project, post and skill from Sanity and replace the SQLite mirror. A type that fails to fetch keeps its previous rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newSanityClient()
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if quietFlag || jsonOutput {
			out = nil
		} else {
			fmt.Fprintf(out, "Syncing from %s...\n", client.BaseURL())
		}

		summary := fsync.New(client, store, logger, out).Run(cmd.Context())

		if jsonOutput {
			if err := printJSON(cmd, summary); err != nil {
				return err
			}
		} else if !quietFlag {
			fmt.Println()
			display.SuccessMsg("Done! %d documents mirrored to %s", summary.TotalSaved, store.Path())
		}

		if fsync.Failed(summary) {
			return fmt.Errorf("some content types failed to sync")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
