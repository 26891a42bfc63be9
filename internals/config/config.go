package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jadenj13/rubric-console/internals/env"
)

var ErrNoProviders = errors.New("no identity provider configured: set GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET or GITLAB_CLIENT_ID/GITLAB_CLIENT_SECRET")

type OAuthApp struct {
	ClientID     string
	ClientSecret string
}

func (a OAuthApp) Configured() bool { return a.ClientID != "" && a.ClientSecret != "" }

// Config is a snapshot of the process environment taken at startup.
type Config struct {
	Addr    string
	Env     env.Kind
	RawEnv  string // APP_ENV as given, kept for logging unknown values
	BaseURL string // external URL used to build OAuth redirect URLs

	GitHub        OAuthApp
	GitLab        OAuthApp
	GitLabBaseURL string

	Allowlist  []string // logins or emails; empty admits any authenticated user
	SessionTTL time.Duration

	AnthropicKey       string
	AnthropicModel     string
	AnthropicMaxTokens int64

	SlackToken   string
	SlackChannel string
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none are
// given) without overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	raw := getenv(env.Variable)
	cfg := Config{
		Addr:    get("ADDR", ":3000"),
		Env:     env.Parse(raw),
		RawEnv:  raw,
		BaseURL: strings.TrimRight(get("BASE_URL", "http://localhost:3000"), "/"),
		GitHub: OAuthApp{
			ClientID:     get("GITHUB_CLIENT_ID", ""),
			ClientSecret: get("GITHUB_CLIENT_SECRET", ""),
		},
		GitLab: OAuthApp{
			ClientID:     get("GITLAB_CLIENT_ID", ""),
			ClientSecret: get("GITLAB_CLIENT_SECRET", ""),
		},
		GitLabBaseURL:  strings.TrimRight(get("GITLAB_BASE_URL", "https://gitlab.com"), "/"),
		Allowlist:      splitList(get("ADMIN_ALLOWLIST", "")),
		AnthropicKey:   get("ANTHROPIC_API_KEY", ""),
		AnthropicModel: get("ANTHROPIC_MODEL", ""),
		SlackToken:     get("SLACK_BOT_TOKEN", ""),
		SlackChannel:   get("SLACK_NOTIFY_CHANNEL", ""),
	}

	ttl, err := time.ParseDuration(get("SESSION_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive, got %s", ttl)
	}
	cfg.SessionTTL = ttl

	if v := get("ANTHROPIC_MAX_TOKENS", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("ANTHROPIC_MAX_TOKENS: invalid value %q", v)
		}
		cfg.AnthropicMaxTokens = n
	}

	return cfg, nil
}

// Validate checks what the HTTP server needs to start.
func (c Config) Validate() error {
	if !c.GitHub.Configured() && !c.GitLab.Configured() {
		return ErrNoProviders
	}
	return nil
}

func (c Config) AnalysisEnabled() bool { return c.AnthropicKey != "" }

func (c Config) SlackEnabled() bool { return c.SlackToken != "" && c.SlackChannel != "" }

// LogLevel is debug in development and info everywhere else.
func (c Config) LogLevel() slog.Level {
	if c.Env.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// LogWarnings reports settings that degrade silently.
func (c Config) LogWarnings(log *slog.Logger) {
	if c.Env == env.Unknown {
		log.Warn("unrecognised deployment environment, treating as unknown", "var", env.Variable, "value", c.RawEnv)
	}
	if !c.AnalysisEnabled() {
		log.Warn("ANTHROPIC_API_KEY not set, analysis disabled")
	}
	if c.SlackToken != "" && c.SlackChannel == "" {
		log.Warn("SLACK_BOT_TOKEN set without SLACK_NOTIFY_CHANNEL, notifications disabled")
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
