package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configForce bool

// configDirFunc returns the config directory path, replaceable in tests.
var configDirFunc = defaultConfigDir

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ai-code-reviewer"), nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or manage configuration",
	Long: `Show or manage acr configuration.

Running bare 'acr config' is the same as 'acr config show'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config file with commented defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRun()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration with sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configEditRun()
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

// configTemplate is the template for generating config.yaml with comments.
const configTemplate = `# acr configuration
# See: acr config show (for effective values and sources)

# SQLite database path (default: ~/.config/ai-code-reviewer/reviews.db)
# db_path: {{ .DBPath }}

# Anthropic API settings
anthropic:
  # API key (or set ACR_ANTHROPIC_API_KEY / ANTHROPIC_API_KEY)
  api_key: "{{ .APIKey }}"

  # Model to use for analysis and chat
  model: "{{ .Model }}"

# Rate limiting
rate_limit:
  # Maximum LLM calls per rolling minute (default: 50)
  calls_per_minute: {{ .CallsPerMinute }}

# Analysis settings
analysis:
  # Retry attempts for transient LLM failures (default: 3)
  max_retries: {{ .MaxRetries }}

  # Per-request timeout (default: 60s)
  request_timeout: "{{ .RequestTimeout }}"

  # Result cache entries for security/quality scans (default: 100)
  cache_size: {{ .CacheSize }}

# Optional YAML file with extra security/quality review criteria
# standards_file: {{ .StandardsFile }}
`

type configTemplateData struct {
	DBPath         string
	APIKey         string
	Model          string
	CallsPerMinute int
	MaxRetries     int
	RequestTimeout string
	CacheSize      int
	StandardsFile  string
}

func configFilePath() (string, error) {
	dir, err := configDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configInitRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		if !configForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", cfgPath)
		}
		ui.Warning("Overwriting existing config file")
	}

	// Build template data from current viper values
	data := configTemplateData{
		DBPath:         viper.GetString("db_path"),
		APIKey:         viper.GetString("anthropic.api_key"),
		Model:          viper.GetString("anthropic.model"),
		CallsPerMinute: viper.GetInt("rate_limit.calls_per_minute"),
		MaxRetries:     viper.GetInt("analysis.max_retries"),
		RequestTimeout: viper.GetString("analysis.request_timeout"),
		CacheSize:      viper.GetInt("analysis.cache_size"),
		StandardsFile:  viper.GetString("standards_file"),
	}

	tmpl, err := template.New("config").Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("template execute error: %w", err)
	}

	// Create config directory
	dir := filepath.Dir(cfgPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(cfgPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	ui.Success("Config file created: %s", cfgPath)
	fmt.Fprintln(ui.Out)
	fmt.Fprint(ui.Out, buf.String())
	return nil
}

// configKeyInfo describes a config key for display purposes.
type configKeyInfo struct {
	Key    string
	EnvVar string
}

var configKeys = []configKeyInfo{
	{Key: "db_path", EnvVar: "ACR_DB_PATH"},
	{Key: "anthropic.model", EnvVar: "ACR_ANTHROPIC_MODEL"},
	{Key: "rate_limit.calls_per_minute", EnvVar: "ACR_RATE_LIMIT_CALLS_PER_MINUTE"},
	{Key: "analysis.max_retries", EnvVar: "ACR_ANALYSIS_MAX_RETRIES"},
	{Key: "analysis.request_timeout", EnvVar: "ACR_ANALYSIS_REQUEST_TIMEOUT"},
	{Key: "analysis.cache_size", EnvVar: "ACR_ANALYSIS_CACHE_SIZE"},
	{Key: "standards_file", EnvVar: "ACR_STANDARDS_FILE"},
}

func configShowRun() error {
	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	// Check if config file exists
	if _, err := os.Stat(cfgPath); err == nil {
		ui.Info("Config file: %s", cfgPath)
	} else {
		ui.Info("Config file: (none)")
	}
	fmt.Fprintln(ui.Out)

	// Read config file values to determine file source
	fileValues := readConfigFileValues(cfgPath)

	for _, k := range configKeys {
		val := viper.Get(k.Key)
		source := detectSource(k.Key, k.EnvVar, fileValues)
		fmt.Fprintf(ui.Out, "  %-28s %v  %s\n", k.Key, val, source)
	}

	// The API key is shown only as present/absent
	if viper.GetString("anthropic.api_key") != "" || os.Getenv("ANTHROPIC_API_KEY") != "" {
		fmt.Fprintf(ui.Out, "  %-28s %s\n", "anthropic.api_key", "(set)")
	} else {
		fmt.Fprintf(ui.Out, "  %-28s %s\n", "anthropic.api_key", "(not set)")
	}

	return nil
}

// readConfigFileValues reads the raw YAML file and returns a flat map of keys present in it.
func readConfigFileValues(path string) map[string]bool {
	result := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		return result
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return result
	}

	// Flatten nested keys with dot notation
	flattenKeys("", parsed, result)
	return result
}

// flattenKeys recursively flattens a nested map to dot-notation keys.
func flattenKeys(prefix string, m map[string]any, result map[string]bool) {
	for key, val := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenKeys(fullKey, nested, result)
		} else {
			result[fullKey] = true
		}
	}
}

// detectSource determines where a config value is coming from.
func detectSource(key, envVar string, fileValues map[string]bool) string {
	if _, ok := os.LookupEnv(envVar); ok {
		return fmt.Sprintf("(env: %s)", envVar)
	}
	if fileValues[key] {
		return "(file)"
	}
	return "(default)"
}

func configEditRun() error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set, set it to your preferred editor (e.g. export EDITOR=vim)")
	}

	cfgPath, err := configFilePath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s (run 'acr config init' first)", cfgPath)
	}

	editCmd := exec.Command(editor, cfgPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr
	return editCmd.Run()
}
