package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Tameralinada/ai-code-reviewer/internal/output"
	"github.com/Tameralinada/ai-code-reviewer/internal/store"
)

// Package-level shared dependencies, initialized in cobra.OnInitialize.
var (
	ui        *output.UI
	dataStore store.Store

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "acr",
	Short: "AI Code Reviewer - analyze code with an LLM and track reviews",
	Long: `acr reviews source code with an LLM backend.
It finds issues with severity and line numbers, scores complexity,
maintainability, and security, stores every review in a local SQLite
database, and offers focused security/quality scans, quick feedback,
and an interactive programming chat.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
}

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initDeps)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/ai-code-reviewer/config.yaml)")
}

func initConfig() {
	// If --config is explicitly set, use that file
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "ai-code-reviewer")
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ACR")
	viper.AutomaticEnv()

	// Defaults via viper.SetDefault()
	home, _ := os.UserHomeDir()
	defaultConfigDir := filepath.Join(home, ".config", "ai-code-reviewer")

	viper.SetDefault("db_path", filepath.Join(defaultConfigDir, "reviews.db"))
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	viper.SetDefault("rate_limit.calls_per_minute", 50)
	viper.SetDefault("analysis.max_retries", 3)
	viper.SetDefault("analysis.request_timeout", "60s")
	viper.SetDefault("analysis.cache_size", 100)
	viper.SetDefault("standards_file", "")

	// Read config file if it exists (optional)
	_ = viper.ReadInConfig()
}

func initDeps() {
	ui = output.New()
	ui.Verbose = verbose

	// Initialize store lazily, only when commands actually need it.
	// This allows config/version commands to run without a db.
}

// getStore returns the shared store, initializing it on first call.
func getStore() (store.Store, error) {
	if dataStore != nil {
		return dataStore, nil
	}

	dbPath := viper.GetString("db_path")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := s.Migrate(rootCmd.Context()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	dataStore = s
	return dataStore, nil
}
