package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/smsledger/internal/common"
	"github.com/Veraticus/smsledger/internal/llm"
)

// DefaultLLMTimeout bounds one classification call when llm.timeout is unset.
const DefaultLLMTimeout = 10 * time.Second

// LLMSettings is the resolved classifier configuration.
type LLMSettings struct {
	Client  llm.Config
	Timeout time.Duration
}

// Enabled reports whether an API key is available.
func (s LLMSettings) Enabled() bool {
	return s.Client.APIKey != ""
}

// providerKeyEnv names the conventional API key variable of each provider.
var providerKeyEnv = map[string]string{
	llm.ProviderGroq:      "GROQ_API_KEY",
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

// LoadLLMConfig loads classifier configuration from Viper and environment variables.
// It follows this precedence:
// 1. Viper configuration (from config file or SMSLEDGER_ env vars)
// 2. The provider's own API key variable (GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY)
// 3. Default values
//
// A missing API key is not an error; the categorizer then runs without a model.
func LoadLLMConfig() (*LLMSettings, error) {
	provider := strings.ToLower(strings.TrimSpace(viper.GetString("llm.provider")))
	if provider == "" {
		provider = llm.ProviderGroq
	}

	envKey, ok := providerKeyEnv[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported llm.provider %q", common.ErrInvalidConfig, provider)
	}

	apiKey := viper.GetString("llm.api_key")
	if apiKey == "" {
		apiKey = os.Getenv(envKey)
	}

	timeout := viper.GetDuration("llm.timeout")
	if timeout <= 0 {
		timeout = DefaultLLMTimeout
	}

	rateLimit := viper.GetInt("llm.rate_limit")
	if rateLimit < 0 {
		return nil, fmt.Errorf("%w: llm.rate_limit must not be negative", common.ErrInvalidConfig)
	}

	return &LLMSettings{
		Client: llm.Config{
			Provider:    provider,
			APIKey:      apiKey,
			Model:       viper.GetString("llm.model"),
			BaseURL:     viper.GetString("llm.base_url"),
			MaxRetries:  viper.GetInt("llm.max_retries"),
			RetryDelay:  viper.GetDuration("llm.retry_delay"),
			RateLimit:   rateLimit,
			Temperature: viper.GetFloat64("llm.temperature"),
			MaxTokens:   viper.GetInt("llm.max_tokens"),
		},
		Timeout: timeout,
	}, nil
}
