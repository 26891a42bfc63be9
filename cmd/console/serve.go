package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jadenj13/rubric-console/internals/auth"
	"github.com/jadenj13/rubric-console/internals/config"
	"github.com/jadenj13/rubric-console/internals/web"
)

const (
	sweepInterval   = 5 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin console HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func buildProviders(cfg config.Config, log *slog.Logger) *auth.Providers {
	var ps []auth.Provider
	if cfg.GitHub.Configured() {
		ps = append(ps, auth.NewGitHubProvider(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret,
			auth.CallbackURL(cfg.BaseURL, auth.ProviderGitHub), auth.WithGitHubLogger(log)))
	}
	if cfg.GitLab.Configured() {
		ps = append(ps, auth.NewGitLabProvider(cfg.GitLab.ClientID, cfg.GitLab.ClientSecret,
			auth.CallbackURL(cfg.BaseURL, auth.ProviderGitLab), cfg.GitLabBaseURL))
	}
	return auth.NewProviders(ps...)
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	store := auth.NewStore(cfg.SessionTTL)
	svc := auth.NewService(store, buildProviders(cfg, log), log,
		auth.WithAllowlist(cfg.Allowlist),
		auth.WithSecureCookies(!cfg.Env.IsDevelopment()),
	)

	var analyzer web.Analyzer
	if cfg.AnalysisEnabled() {
		agent, err := newAgent(cfg, log)
		if err != nil {
			return err
		}
		analyzer = agent
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(svc, analyzer, cfg.Env, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * time.Minute, // analyses wait on the model
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("console listening", "addr", cfg.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweepSessions(ctx, store, sweepInterval, log)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

type sweeper interface {
	Sweep() int
}

func sweepSessions(ctx context.Context, s sweeper, every time.Duration, log *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
