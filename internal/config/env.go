package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// applyEnvOverrides overrides config values with FOLIO_* environment variables.
// Invalid values are an error.
func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"FOLIO_LISTEN_ADDR":       &cfg.Server.ListenAddr,
		"FOLIO_CONTENT_SOURCE":    &cfg.Content.Source,
		"FOLIO_SANITY_PROJECT_ID": &cfg.Sanity.ProjectID,
		"FOLIO_SANITY_DATASET":    &cfg.Sanity.Dataset,
		"FOLIO_SANITY_TOKEN":      &cfg.Sanity.Token,
		"FOLIO_DB":                &cfg.Database.Path,
		"FOLIO_CONTACT_ENDPOINT":  &cfg.Contact.Endpoint,
		"FOLIO_NOTIFY_TO":         &cfg.Notify.To,
		"FOLIO_LOG_LEVEL":         &cfg.Log.Level,
		"FOLIO_LOG_FORMAT":        &cfg.Log.Format,
		"FOLIO_BASE_URL":          &cfg.Site.BaseURL,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("FOLIO_SANITY_USE_CDN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_SANITY_USE_CDN %q: %w", v, err)
		}
		cfg.Sanity.UseCDN = b
	}
	if v := os.Getenv("FOLIO_NOTIFY_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_NOTIFY_ENABLED %q: %w", v, err)
		}
		cfg.Notify.Enabled = b
	}
	if v := os.Getenv("FOLIO_REVERT_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FOLIO_REVERT_DELAY %q: %w", v, err)
		}
		cfg.Contact.RevertDelay = d
	}
	return nil
}
