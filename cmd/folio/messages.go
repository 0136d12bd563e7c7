package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/display"
)

var (
	messagesLimit  int
	messagesNoBody bool
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "List contact messages, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		msgs, err := store.ListContactMessages(cmd.Context(), messagesLimit)
		if err != nil {
			return fmt.Errorf("list messages: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd, msgs)
		}

		if len(msgs) == 0 {
			fmt.Println(display.Dim.Render("No messages yet."))
			return nil
		}

		display.Header(fmt.Sprintf("Inbox (%d)", len(msgs)))
		fmt.Println()
		for i, m := range msgs {
			var connector string
			switch {
			case len(msgs) == 1:
				connector = "──"
			case i == 0:
				connector = "┌─"
			case i == len(msgs)-1:
				connector = "└─"
			default:
				connector = "├─"
			}

			body := m.Subject
			if !messagesNoBody {
				body = m.Subject + "\n" + m.Message
			}
			display.MessageTree(connector, fmt.Sprintf("%s <%s>", m.Name, m.Email), m.CreatedAt, body)

			switch {
			case m.NotifyError != "":
				fmt.Printf("  %s  %s\n", display.Muted.Render("│"), display.ErrStyle.Render("notify failed: "+display.Truncate(m.NotifyError, 60)))
			case m.NotifiedAt == "":
				fmt.Printf("  %s  %s\n", display.Muted.Render("│"), display.PendingText.Render("not notified"))
			}
			if i < len(msgs)-1 {
				fmt.Println(display.Muted.Render("  │"))
			}
		}
		return nil
	},
}

func init() {
	messagesCmd.Flags().IntVarP(&messagesLimit, "limit", "n", 20, "Maximum messages to show (0 for all)")
	messagesCmd.Flags().BoolVar(&messagesNoBody, "no-body", false, "Show subjects only")
	rootCmd.AddCommand(messagesCmd)
}
