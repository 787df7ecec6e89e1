package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/llm/openai"
	llmrelay "resume-builder/internal/llm/relay"
	"resume-builder/internal/shared/config"
)

type suggesterFlags struct {
	relayURL string
	nonce    string
	token    string
}

func (f *suggesterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.relayURL, "relay-url", "", "Relay endpoint; when empty the provider configured in the environment is called directly")
	cmd.Flags().StringVar(&f.nonce, "nonce", "", "Relay nonce issued by GET /api/v1/host")
	cmd.Flags().StringVar(&f.token, "token", "", "Bearer token for the relay")
}

// suggester picks the relay client when a relay URL is given, otherwise the
// upstream provider from the environment. The returned func releases it.
func (f *suggesterFlags) suggester(ctx context.Context) (llm.Suggester, func(), error) {
	noop := func() {}
	if strings.TrimSpace(f.relayURL) != "" {
		c := llmrelay.NewClient(f.relayURL, f.nonce)
		c.Token = f.token
		return c, noop, nil
	}

	cfg := config.Load()
	key := cfg.UpstreamAPIKey()
	if strings.TrimSpace(key) == "" {
		return nil, noop, fmt.Errorf("no --relay-url and no API key for provider %q: %w", cfg.LLMProvider, llm.ErrNotConfigured)
	}
	switch cfg.LLMProvider {
	case "openai":
		c, err := openai.NewClient(key, cfg.LLMModel)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	default:
		c, err := gemini.NewClient(ctx, key, cfg.LLMModel)
		if err != nil {
			return nil, noop, err
		}
		return c, func() { _ = c.Close() }, nil
	}
}
