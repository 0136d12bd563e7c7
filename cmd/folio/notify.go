package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/auth"
	"github.com/daviddao/folio/internal/display"
	"github.com/daviddao/folio/internal/gmail"
	"github.com/daviddao/folio/internal/types"
)

var notifyCode string

// notifyCmd is the parent command for owner notifications.
var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Owner notification setup (login, test)",
	Long:  "Authorize Gmail to send contact notifications to the site owner.",
}

var notifyLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize Gmail sending and store token.json",
	Long: `Print the Google consent URL for notify.credentials, then exchange the
authorization code for a token stored next to the credentials file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := auth.LoadOAuthConfig(cfg.Notify.Credentials)
		if err != nil {
			return err
		}

		code := notifyCode
		if code == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Open this URL and approve access:\n\n  %s\n\n", auth.AuthURL(config, uuid.NewString()))
			fmt.Fprint(cmd.OutOrStdout(), "Authorization code: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read authorization code: %w", err)
			}
			code = strings.TrimSpace(line)
		}
		if code == "" {
			return fmt.Errorf("no authorization code given")
		}

		if err := auth.Exchange(cmd.Context(), config, cfg.Notify.Credentials, code); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Saved %s", auth.TokenPath(cfg.Notify.Credentials))
		}
		return nil
	},
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification to notify.to",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Notify.To == "" {
			return fmt.Errorf("notify.to is not set")
		}
		svc, err := auth.LoadGmailService(cmd.Context(), cfg.Notify.Credentials, logger)
		if err != nil {
			return err
		}
		n := gmail.NewNotifier(svc, cfg.Notify.From, cfg.Notify.To, cfg.Site.Title)
		m := &types.ContactMessage{
			ID:      uuid.NewString(),
			Name:    "folio",
			Email:   cfg.Notify.To,
			Subject: "Test notification",
			Message: "Contact notifications are working.",
		}
		if err := n.Notify(cmd.Context(), m); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Sent test notification to %s", cfg.Notify.To)
		}
		return nil
	},
}

func init() {
	notifyLoginCmd.Flags().StringVar(&notifyCode, "code", "", "Authorization code (skips the prompt)")
	notifyCmd.AddCommand(notifyLoginCmd)
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(notifyCmd)
}
