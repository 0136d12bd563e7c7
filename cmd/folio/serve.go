package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/auth"
	"github.com/daviddao/folio/internal/config"
	"github.com/daviddao/folio/internal/content"
	"github.com/daviddao/folio/internal/gmail"
	"github.com/daviddao/folio/internal/media"
	"github.com/daviddao/folio/internal/sanity"
	"github.com/daviddao/folio/internal/site"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio website",
	Long: `Serve the portfolio pages, the contact form and POST /api/contact.

Content comes from the source named in content.source: "sanity" queries the
CMS on every request, "sqlite" reads the mirror written by 'folio sync'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := newLoader()
		if err != nil {
			return err
		}

		opts := site.Options{
			Site:             cfg.Site,
			Loader:           loader,
			Inbox:            store,
			Images:           media.Resolver{ProjectID: cfg.Sanity.ProjectID, Dataset: cfg.Sanity.Dataset},
			ContactPerMinute: cfg.Server.ContactPerMinute,
			ContactBurst:     cfg.Server.ContactBurst,
			RevertDelay:      cfg.Contact.RevertDelay,
			ReadTimeout:      cfg.Server.ReadTimeout,
			WriteTimeout:     cfg.Server.WriteTimeout,
			Logger:           logger,
		}
		if cfg.Notify.Enabled {
			svc, err := auth.LoadGmailService(cmd.Context(), cfg.Notify.Credentials, logger)
			if err != nil {
				logger.Warn("owner notifications disabled", zap.Error(err))
				if !quietFlag {
					fmt.Fprintf(cmd.ErrOrStderr(), "  ! notifications disabled: %v\n", err)
				}
			} else {
				opts.Notifier = gmail.NewNotifier(svc, cfg.Notify.From, cfg.Notify.To, cfg.Site.Title)
			}
		}

		srv, err := site.New(opts)
		if err != nil {
			return err
		}

		addr := cfg.Server.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		if !quietFlag {
			fmt.Printf("Serving %s from %s on %s\n", cfg.Site.Title, cfg.Content.Source, addr)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Serve(ctx, addr)
	},
}

// contentSource returns the configured content.Source.
func contentSource() (content.Source, error) {
	if cfg.Content.Source == config.SourceSanity {
		return newSanityClient()
	}
	return store, nil
}

func newSanityClient() (*sanity.Client, error) {
	if cfg.Sanity.ProjectID == "" {
		return nil, fmt.Errorf("sanity.project_id is not set: add it to .folio/folio.yaml or set FOLIO_SANITY_PROJECT_ID")
	}
	return sanity.NewClient(sanity.Config{
		ProjectID:  cfg.Sanity.ProjectID,
		Dataset:    cfg.Sanity.Dataset,
		APIVersion: cfg.Sanity.APIVersion,
		UseCDN:     cfg.Sanity.UseCDN,
		Token:      cfg.Sanity.Token,
		Timeout:    cfg.Content.Timeout,
	}, logger)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.listen_addr)")
	rootCmd.AddCommand(serveCmd)
}
