package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/daviddao/folio/internal/config"
	"github.com/daviddao/folio/internal/db"
	"github.com/daviddao/folio/internal/display"
	"github.com/daviddao/folio/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	configPath  string
	dbPath      string
	jsonOutput  bool
	quietFlag   bool
	verboseFlag bool

	cfg    *config.Config
	logger *zap.Logger
	store  *db.DB
)

var rootCmd = &cobra.Command{
	Use:           "folio",
	Short:         "folio - personal portfolio site",
	Long:          "Folio: serve a portfolio website from Sanity or a local SQLite mirror, and collect contact messages.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "init", "help", "version", "quickstart", "notify":
			return nil
		}

		path := configPath
		if path == "" {
			path = config.Discover()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, verboseFlag)
		if err != nil {
			return err
		}

		// The contact client and OAuth login don't touch the database.
		switch cmd.Name() {
		case "send", "login", "test":
			return nil
		}

		switch {
		case dbPath != "":
			cfg.Database.Path = dbPath
		case path == "":
			found := db.DiscoverDB()
			if found == "" {
				return fmt.Errorf("no folio database found: run 'folio init' first")
			}
			cfg.Database.Path = found
		}

		store, err = db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "folio version %s\n", Version)
	},
}

var initSanityProject string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .folio/ in the project root",
	Long:  "Create .folio/folio.yaml with default settings and an empty database next to the .git root.",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := db.FindProjectRoot()
		if root == "" {
			return fmt.Errorf("could not find project root (no .git directory found)")
		}

		dir := filepath.Join(root, db.DefaultDir)
		cfgFile := filepath.Join(dir, config.FileName)
		created := false
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			c := config.Default()
			if initSanityProject != "" {
				c.Sanity.ProjectID = initSanityProject
				c.Content.Source = config.SourceSanity
			}
			if err := config.Save(cfgFile, c); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			created = true
		}

		s, err := db.Open(filepath.Join(dir, db.DefaultFile))
		if err != nil {
			return err
		}
		path := s.Path()
		s.Close()

		ensureGitignore(root)

		if !quietFlag {
			if created {
				fmt.Printf("Wrote %s\n", cfgFile)
			}
			fmt.Printf("Initialized folio at %s\n", path)
		}
		return nil
	},
}

// ensureGitignore adds .folio/ to .gitignore if not already present.
func ensureGitignore(root string) {
	gitignorePath := filepath.Join(root, ".gitignore")
	entry := db.DefaultDir + "/"

	if f, err := os.Open(gitignorePath); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == entry || line == db.DefaultDir {
				f.Close()
				return
			}
		}
		f.Close()
	}

	existing, _ := os.ReadFile(gitignorePath)
	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return // not fatal
	}
	defer f.Close()

	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		f.WriteString("\n")
	}
	fmt.Fprintf(f, "\n# Folio config, content mirror and contact inbox\n%s\n", entry)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: auto-discover .folio/folio.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: auto-discover .folio/folio.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging in console format")

	initCmd.Flags().StringVar(&initSanityProject, "sanity-project", "", "Sanity project ID; selects the sanity content source")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		display.ErrorMsg("%v", err)
		os.Exit(1)
	}
}
