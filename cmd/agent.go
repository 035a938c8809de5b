package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"contractscanner/internal/agent"
	"contractscanner/internal/config"
	"contractscanner/internal/conversation"
	"contractscanner/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sweepInterval is how often idle conversations are looked for.
const sweepInterval = time.Minute

func setupServer(ctx context.Context, cfg *config.Config) (func(ctx context.Context), *agent.Sessions) {
	sc, rec := newScanner(cfg)
	sessions := agent.NewSessions()

	mp, err := rec.NewMeterProvider()
	if err != nil {
		logger.Fatal(ctx, "could not create meter provider", zap.Error(err))
	}

	server := agent.NewServer(agent.Deps{
		Invoker:  agent.NewInvoker(sc),
		Machine:  conversation.New(sc, conversation.Options{}),
		Sessions: sessions,
		Metrics:  rec,

		MeterProvider: mp,
	}, agent.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop meter provider", zap.Error(err))
		}
	}, sessions
}

func agentCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Starts the agent HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireAPIKey(); err != nil {
				return err
			}
			if err := cfg.RequireAgentKey(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info(ctx, "using SolidityScan API key", zap.String("key", config.MaskKey(cfg.SolidityScan.APIKey)))

			stopWebserver, sessions := setupServer(ctx, cfg)
			go agent.SweepSessions(ctx, sessions, cfg.Agent.SessionTTL, sweepInterval)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)

			return nil
		},
	}
}
