package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/crystalbudget/backend/internal/config"
	"github.com/crystalbudget/backend/internal/models"
	"github.com/crystalbudget/backend/internal/router"
	"github.com/crystalbudget/backend/internal/telegram"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:               "crystalbudget",
	Short:             "Backend for CrystalBudget, distributing income to expense categories",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and the telegram webhook",
	RunE:  serve,
}

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Manage the telegram bot",
}

var setWebhookCmd = &cobra.Command{
	Use:   "set-webhook <url>",
	Short: "Register the webhook URL with telegram",
	Args:  cobra.ExactArgs(1),
	RunE:  setWebhook,
}

func init() {
	telegramCmd.AddCommand(setWebhookCmd)
	rootCmd.AddCommand(serveCmd, telegramCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log.Error().Err(err).Msg("crystalbudget")
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err == nil {
		err = cfg.Validate()
	}

	setupLogging()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	models.DefaultCurrency = cfg.DefaultCurrency
	return nil
}

func setupLogging() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (cfg.LogFormat == "" && gin.IsDebugging()) || cfg.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

func serve(cmd *cobra.Command, _ []string) error {
	err := os.MkdirAll(cfg.DataDir, os.ModePerm)
	if err != nil {
		return fmt.Errorf("could not create data directory: %w", err)
	}

	err = models.Connect(filepath.Join(cfg.DataDir, "crystalbudget.db"))
	if err != nil {
		return err
	}

	r, teardown, err := router.Config(cfg.APIURL)
	defer teardown()
	if err != nil {
		return err
	}

	var tg *router.Telegram
	if cfg.TelegramEnabled() {
		client := telegram.NewClient(cfg.TelegramBotToken)
		tg = &router.Telegram{
			Bot:           telegram.NewBot(models.DB, client, telegram.NewFormatter(cfg.TelegramLocale)),
			WebhookSecret: cfg.TelegramWebhookSecret,
			Login:         &telegram.LoginVerifier{Token: cfg.TelegramBotToken, MaxAge: cfg.TelegramLoginMaxAge},
		}
	} else {
		log.Info().Msg("TELEGRAM_BOT_TOKEN is not set, telegram integration is disabled")
	}
	router.AttachRoutes(r.Group("/"), tg)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("backend startup complete")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	if sqlDB, dbErr := models.DB.DB(); dbErr == nil {
		sqlDB.Close()
	}

	return err
}

func setWebhook(cmd *cobra.Command, args []string) error {
	if !cfg.TelegramEnabled() {
		return errors.New("TELEGRAM_BOT_TOKEN must be set")
	}

	client := telegram.NewClient(cfg.TelegramBotToken)
	if err := client.SetWebhook(cmd.Context(), args[0], cfg.TelegramWebhookSecret); err != nil {
		return err
	}

	log.Info().Str("url", args[0]).Msg("webhook registered")
	return nil
}
