package llm

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smsledger/internal/common"
)

// NewClient creates a rate-limited, retrying client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	var (
		client Client
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderGroq, "":
		client, err = newOpenAICompatibleClient(cfg, groqDefaults)
	case ProviderOpenAI:
		client, err = newOpenAICompatibleClient(cfg, openAIDefaults)
	case ProviderAnthropic:
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return newLimitedClient(client, cfg), nil
}
