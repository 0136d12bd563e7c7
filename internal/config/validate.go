package config

import (
	"errors"
	"fmt"
)

// Validate checks the settings the server and CLI depend on.
func (c *Config) Validate() error {
	switch c.Content.Source {
	case SourceSanity:
		if c.Sanity.ProjectID == "" {
			return errors.New("sanity.project_id must be set when content.source is sanity")
		}
	case SourceSQLite:
	default:
		return fmt.Errorf("content.source must be %q or %q, got %q", SourceSanity, SourceSQLite, c.Content.Source)
	}

	if c.Content.FeaturedLimit <= 0 {
		return errors.New("content.featured_limit must be positive")
	}
	if c.Content.SkillsLimit <= 0 {
		return errors.New("content.skills_limit must be positive")
	}
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must be set")
	}
	if c.Server.ContactPerMinute < 0 || c.Server.ContactBurst < 0 {
		return errors.New("server contact rate limits must not be negative")
	}
	if c.Contact.RevertDelay < 0 {
		return errors.New("contact.revert_delay must not be negative")
	}
	if c.Notify.Enabled && c.Notify.To == "" {
		return errors.New("notify.to must be set when notify.enabled is true")
	}
	return nil
}
