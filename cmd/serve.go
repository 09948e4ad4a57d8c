package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markramrattan/navi/caldav"
	"github.com/markramrattan/navi/calendar"
	"github.com/markramrattan/navi/chat"
	"github.com/markramrattan/navi/config"
	"github.com/markramrattan/navi/logging"
	"github.com/markramrattan/navi/provider"
	"github.com/markramrattan/navi/reminders"
	"github.com/markramrattan/navi/server"
	"github.com/markramrattan/navi/storage"
	"github.com/markramrattan/navi/tools"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listenAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the navi chat server",
		Long: `Start the HTTP server exposing the chat API.

Configuration is read from a TOML file (default ~/.config/navi/config.toml),
with NAVI_* environment variables taking precedence. Secrets come from the
environment only:

  ANTHROPIC_API_KEY / OPENAI_API_KEY  model provider credentials
  APPLE_ID, APPLE_APP_PASSWORD        Apple Calendar (CalDAV) credentials

Without Apple credentials the assistant still runs; reminders are kept in
memory for the lifetime of the process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}

			logger := logging.Setup(cfg.LogLevel)

			p, err := provider.NewProvider(provider.Config{
				Type:    provider.MapProviderIDToType(cfg.ProviderType),
				BaseURL: cfg.ProviderBaseURL,
				Model:   cfg.ProviderModel,
				APIKey:  cfg.ProviderAPIKey,
			})
			if err != nil {
				return fmt.Errorf("failed to create provider: %w", err)
			}
			logger.Info("provider ready",
				logging.Provider(cfg.ProviderType),
				slog.String("model", p.GetModel()))

			gateway := calendar.NewGateway(calendar.Config{
				ServerURL:   cfg.CalendarServerURL,
				AccountID:   cfg.AppleID,
				AppPassword: cfg.ApplePassword,
			}, caldav.Connect, logger)
			if !gateway.IsConfigured() {
				logger.Warn("Apple Calendar credentials not set, reminders are session-only")
			}

			store := reminders.NewStore()
			registry := tools.NewRegistry(gateway, store, logger)
			orchestrator := chat.NewOrchestrator(p, registry, logger)

			transcripts, err := storage.NewTranscriptStorage(cfg.DataDir())
			if err != nil {
				return fmt.Errorf("failed to open transcript storage: %w", err)
			}
			defer transcripts.Close()

			srv := server.New(server.Config{
				Addr:         cfg.ListenAddr,
				Orchestrator: orchestrator,
				Transcripts:  transcripts,
				Logger:       logger,
				ModelName:    p.GetModel(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				stop()
				if err := srv.Shutdown(context.Background()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "listen address (overrides config)")

	return cmd
}
