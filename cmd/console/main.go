package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/jadenj13/rubric-console/internals/analysis"
	"github.com/jadenj13/rubric-console/internals/config"
	"github.com/jadenj13/rubric-console/internals/llm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "console",
		Short:        "Admin console for rubric-driven text analysis",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newRubricsCmd())
	return root
}

// loadConfig reads .env and the process environment and builds the logger the
// rest of the command uses.
func loadConfig() (config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	cfg.LogWarnings(log)
	return cfg, log, nil
}

func newAgent(cfg config.Config, log *slog.Logger) (*analysis.Agent, error) {
	if !cfg.AnalysisEnabled() {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}
	client := llm.NewClient(cfg.AnthropicKey,
		llm.WithModel(anthropic.Model(cfg.AnthropicModel)),
		llm.WithMaxTokens(cfg.AnthropicMaxTokens),
	)

	var opts []analysis.AgentOption
	if cfg.SlackEnabled() {
		opts = append(opts, analysis.WithNotifier(analysis.NewSlackNotifier(cfg.SlackToken, cfg.SlackChannel)))
	}
	log.Debug("analysis enabled", "model", client.Model(), "slack", cfg.SlackEnabled())
	return analysis.NewAgent(client, log, opts...), nil
}
