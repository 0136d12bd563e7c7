// Package config loads folio.yaml.
package config

import "time"

// Content sources.
const (
	SourceSanity = "sanity"
	SourceSQLite = "sqlite"
)

// Config is the full folio configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Content  ContentConfig  `yaml:"content"`
	Sanity   SanityConfig   `yaml:"sanity"`
	Database DatabaseConfig `yaml:"database"`
	Contact  ContactConfig  `yaml:"contact"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`
}

// SiteConfig holds the owner's details shown on every page.
type SiteConfig struct {
	Title       string      `yaml:"title"`
	Owner       string      `yaml:"owner"`
	Description string      `yaml:"description"`
	BaseURL     string      `yaml:"base_url"`
	Email       string      `yaml:"email"`
	GitHub      string      `yaml:"github"`
	LinkedIn    string      `yaml:"linkedin"`
	Twitter     string      `yaml:"twitter"`
	Resume      string      `yaml:"resume"`
	About       AboutConfig `yaml:"about"`
}

// AboutConfig is the static part of the about page.
type AboutConfig struct {
	Intro     []string        `yaml:"intro"`
	Timeline  []TimelineEntry `yaml:"timeline"`
	Interests []Interest      `yaml:"interests"`
}

// TimelineEntry is one position in the experience timeline.
type TimelineEntry struct {
	Year        string `yaml:"year"`
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Description string `yaml:"description"`
}

// Interest is one card in the interests section.
type Interest struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// ContactPerMinute and ContactBurst rate-limit the contact API per client.
	ContactPerMinute int `yaml:"contact_per_minute"`
	ContactBurst     int `yaml:"contact_burst"`
}

// ContentConfig selects where pages read content from.
type ContentConfig struct {
	Source        string        `yaml:"source"`
	FeaturedLimit int           `yaml:"featured_limit"`
	SkillsLimit   int           `yaml:"skills_limit"`
	Timeout       time.Duration `yaml:"timeout"`
}

// SanityConfig identifies the CMS project.
type SanityConfig struct {
	ProjectID  string `yaml:"project_id"`
	Dataset    string `yaml:"dataset"`
	APIVersion string `yaml:"api_version"`
	UseCDN     bool   `yaml:"use_cdn"`
	Token      string `yaml:"token"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ContactConfig configures the contact form client used by `folio send`.
type ContactConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	RevertDelay time.Duration `yaml:"revert_delay"`
	Timeout     time.Duration `yaml:"timeout"`
}

// NotifyConfig configures owner notifications through Gmail.
type NotifyConfig struct {
	Enabled     bool   `yaml:"enabled"`
	To          string `yaml:"to"`
	From        string `yaml:"from"`
	Credentials string `yaml:"credentials"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Title:       "Portfolio",
			Owner:       "Your Name",
			Description: "Full-stack developer portfolio: projects, writing and contact.",
			BaseURL:     "http://localhost:8080",
			About: AboutConfig{
				Intro: []string{
					"I'm a full-stack developer who enjoys building fast, accessible web applications.",
				},
				Interests: []Interest{
					{Title: "Music & Podcasts", Description: "I enjoy listening to tech podcasts and a wide range of music while coding."},
					{Title: "Reading", Description: "I'm constantly reading technical books and articles to stay updated with the latest trends."},
					{Title: "Photography", Description: "I'm a photography enthusiast who enjoys capturing moments and exploring creative compositions."},
				},
			},
		},
		Server: ServerConfig{
			ListenAddr:       ":8080",
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     30 * time.Second,
			ContactPerMinute: 5,
			ContactBurst:     3,
		},
		Content: ContentConfig{
			Source:        SourceSQLite,
			FeaturedLimit: 3,
			SkillsLimit:   12,
			Timeout:       10 * time.Second,
		},
		Sanity: SanityConfig{
			Dataset:    "production",
			APIVersion: "2023-05-03",
			UseCDN:     true,
		},
		Database: DatabaseConfig{
			Path: ".folio/folio.db",
		},
		Contact: ContactConfig{
			Endpoint:    "http://localhost:8080/api/contact",
			RevertDelay: 3 * time.Second,
			Timeout:     15 * time.Second,
		},
		Notify: NotifyConfig{
			Credentials: ".folio/credentials.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
