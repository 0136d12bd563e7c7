package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/daviddao/folio/internal/contact"
	"github.com/daviddao/folio/internal/display"
)

var (
	sendName     string
	sendEmail    string
	sendSubject  string
	sendMessage  string
	sendEndpoint string
	sendWait     bool
)

type sendOutput struct {
	Status      string            `json:"status"`
	Transitions []string          `json:"transitions"`
	Errors      map[string]string `json:"errors,omitempty"`
	Error       string            `json:"error,omitempty"`
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit the contact form to a running site",
	Long: `Fill in the contact form and submit it once to the configured endpoint,
printing every status change. With --wait the command stays until the
form reverts to idle.`,
	Example: `  folio send --name Ada --email ada@example.com --subject Hello --message "Would love to chat."
  folio send --endpoint https://example.com/api/contact ... --wait`,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := cfg.Contact.Endpoint
		if sendEndpoint != "" {
			endpoint = sendEndpoint
		}
		submitter := contact.NewHTTPSubmitter(endpoint, cfg.Contact.Timeout)
		submitter.UserAgent = "folio/" + Version

		ctl := contact.NewController(submitter,
			contact.WithRevertDelay(cfg.Contact.RevertDelay),
			contact.WithLogger(logger),
		)
		defer ctl.Close()

		var mu sync.Mutex
		out := sendOutput{Status: contact.StatusIdle.String()}
		reverted := make(chan struct{}, 1)
		ctl.OnStatus(func(s contact.Status) {
			mu.Lock()
			out.Transitions = append(out.Transitions, s.String())
			mu.Unlock()
			if !jsonOutput && !quietFlag {
				fmt.Printf("  %s\n", display.StatusLine(s))
			}
			if s == contact.StatusIdle {
				select {
				case reverted <- struct{}{}:
				default:
				}
			}
		})

		ctl.Set(contact.FieldName, sendName)
		ctl.Set(contact.FieldEmail, sendEmail)
		ctl.Set(contact.FieldSubject, sendSubject)
		ctl.Set(contact.FieldMessage, sendMessage)

		err := ctl.Submit(cmd.Context())

		var verr *contact.ValidationError
		switch {
		case errors.As(err, &verr):
			out.Errors = make(map[string]string, len(verr.Fields))
			for _, f := range contact.Fields {
				if msg, ok := verr.Fields[f]; ok {
					out.Errors[string(f)] = msg
					if !jsonOutput {
						display.ErrorMsg("%s: %s", f, msg)
					}
				}
			}
		case err != nil:
			out.Error = contact.FailureMessage
			if !jsonOutput {
				display.ErrorMsg("%s", contact.FailureMessage)
			}
		default:
			if !jsonOutput && !quietFlag {
				display.SuccessMsg("Message sent to %s", endpoint)
			}
		}

		if sendWait && (err == nil || errors.Is(err, contact.ErrSubmitFailed)) {
			select {
			case <-reverted:
			case <-time.After(cfg.Contact.RevertDelay + time.Second):
			case <-cmd.Context().Done():
			}
		}
		mu.Lock()
		defer mu.Unlock()
		out.Status = ctl.Status().String()
		if jsonOutput {
			if perr := printJSON(cmd, out); perr != nil {
				return perr
			}
		}
		return err
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendName, "name", "", "Your name")
	sendCmd.Flags().StringVar(&sendEmail, "email", "", "Your email address")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "Subject")
	sendCmd.Flags().StringVar(&sendMessage, "message", "", "Message (at least 10 characters)")
	sendCmd.Flags().StringVar(&sendEndpoint, "endpoint", "", "Contact API URL (default: contact.endpoint)")
	sendCmd.Flags().BoolVar(&sendWait, "wait", false, "Wait for the form to return to idle")
	rootCmd.AddCommand(sendCmd)
}
