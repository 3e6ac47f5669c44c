package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/Tameralinada/ai-code-reviewer/internal/analyzer"
	"github.com/Tameralinada/ai-code-reviewer/internal/llm"
	"github.com/Tameralinada/ai-code-reviewer/internal/standards"
)

// newLLMClient creates an LLM client from config/env, or returns nil if no API key is configured.
func newLLMClient() *llm.Client {
	apiKey := viper.GetString("anthropic.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil
	}
	return llm.NewClient(apiKey, viper.GetString("anthropic.model"))
}

// getEngine builds the analysis engine from config. It errors when no API
// key is available since every analysis needs the LLM backend.
func getEngine() (*analyzer.Engine, error) {
	client := newLLMClient()
	if client == nil {
		return nil, fmt.Errorf("no Anthropic API key configured (set ACR_ANTHROPIC_API_KEY or anthropic.api_key in config)")
	}

	profile, err := standards.Load(viper.GetString("standards_file"))
	if err != nil {
		return nil, err
	}

	cfg := analyzer.Config{
		CallsPerMinute:   viper.GetInt("rate_limit.calls_per_minute"),
		MaxRetries:       viper.GetInt("analysis.max_retries"),
		RequestTimeout:   viper.GetDuration("analysis.request_timeout"),
		CacheSize:        viper.GetInt("analysis.cache_size"),
		SecurityCriteria: profile.Security,
		QualityCriteria:  profile.Quality,
	}
	return analyzer.NewEngine(client, cfg), nil
}
