// Command timebill runs the time-tracking Telegram bot: it wires the
// configuration, logger, SQLite store, services, the optional ops HTTP
// server, and the long-polling update loop.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/timebill/timebill-bot/internal/bot"
	"github.com/timebill/timebill-bot/internal/config"
	httpops "github.com/timebill/timebill-bot/internal/http"
	"github.com/timebill/timebill-bot/internal/observability"
	"github.com/timebill/timebill-bot/internal/repo"
	"github.com/timebill/timebill-bot/internal/services"
	"github.com/timebill/timebill-bot/internal/subscription"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	setupLogger(cfg)
	log.Info().Str("version", version).Msg("starting timebill")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth failed")
	}
	log.Info().Str("username", api.Self.UserName).Msg("authorized on telegram")

	gate := &subscription.Gate{
		API:      api,
		Channel:  cfg.Subscription.Channel,
		FailOpen: cfg.Subscription.FailOpen,
	}

	b := bot.New(
		api,
		services.NewLedgerService(db, ledgerRepoShim{}),
		services.NewTrackerService(db, trackerRepoShim{}),
		services.NewReportService(db, reportRepoShim{}),
		gate,
		bot.Options{
			Currency:    cfg.Currency,
			ChannelLink: cfg.ChannelLink(),
			RateRPS:     cfg.RateRPS,
			RateBurst:   cfg.RateBurst,
			Logger:      log.With().Str("component", "bot").Logger(),
		},
	)

	var ops *http.Server
	if cfg.Ops.Enabled {
		gin.SetMode(cfg.Ops.GinMode)
		ops = &http.Server{
			Addr:              ":" + cfg.Ops.Port,
			Handler:           httpops.NewRouter(db),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info().Str("addr", ops.Addr).Msg("ops server listening")
			if err := ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("ops server failed")
			}
		}()
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.PollTimeout.Seconds())
	updates := api.GetUpdatesChan(u)

	b.Run(ctx, updates)
	log.Info().Msg("shutting down")

	api.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if ops != nil {
		if err := ops.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("ops shutdown failed")
		}
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
}

// setupLogger configures the global zerolog logger from config.
func setupLogger(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
