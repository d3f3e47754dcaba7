// Package bot is the Telegram transport adapter: it routes inbound updates
// to the ledger, tracker and report services, drives the multi-step dialog
// flows, and renders replies. All business rules live in the services; this
// package only collects input and formats output.
package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Sender is the slice of the Telegram API the handlers need;
// *tgbotapi.BotAPI satisfies it. Tests substitute a recording fake.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Gate gates access to the /start and /help commands.
type Gate interface {
	Allowed(userID int64) bool
}

// Bot wires the Telegram transport to the application services.
type Bot struct {
	API     Sender
	Ledger  LedgerAPI
	Tracker TrackerAPI
	Reports ReportAPI
	Gate    Gate

	// Currency is the symbol rendered in rates, report totals and export
	// headers.
	Currency string
	// ChannelLink is the join URL shown to unsubscribed users.
	ChannelLink string

	dialogs *dialogStore
	limiter *accountLimiter
	log     zerolog.Logger
	tracer  trace.Tracer
}

// Options bundles the tunables of New.
type Options struct {
	Currency    string
	ChannelLink string
	RateRPS     float64
	RateBurst   int
	Logger      zerolog.Logger
}

// New constructs a Bot around the given transport, services and gate.
func New(api Sender, ledger LedgerAPI, tracker TrackerAPI, reports ReportAPI, gate Gate, opts Options) *Bot {
	if opts.Currency == "" {
		opts.Currency = "$"
	}
	return &Bot{
		API:         api,
		Ledger:      ledger,
		Tracker:     tracker,
		Reports:     reports,
		Gate:        gate,
		Currency:    opts.Currency,
		ChannelLink: opts.ChannelLink,
		dialogs:     newDialogStore(),
		limiter:     newAccountLimiter(opts.RateRPS, opts.RateBurst),
		log:         opts.Logger,
		tracer:      otel.Tracer("timebill/bot"),
	}
}

// Run consumes updates until ctx is cancelled. The caller owns the update
// channel (long polling in production, a plain channel in tests).
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches a single inbound update. Commands are rate-limited
// per account; callback queries and dialog text bypass the limiter so an
// open flow cannot be starved by its own keyboard taps.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	updatesInflight.Inc()
	defer updatesInflight.Dec()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	cmd := msg.Command()

	if !b.limiter.Allow(userID) {
		b.log.Debug().Int64("user_id", userID).Str("command", cmd).Msg("rate limited")
		b.reply(msg.Chat.ID, "⏳ Too many requests, give it a second.")
		return
	}

	ctx, span := b.tracer.Start(ctx, "command "+cmd,
		trace.WithAttributes(attribute.String("bot.command", cmd)))
	defer span.End()

	done := observeCommand(cmd)
	outcome := "ok"
	defer func() { done(outcome) }()

	var err error
	switch cmd {
	case "start", "help":
		err = b.cmdHelp(ctx, msg)
	case "add_client":
		err = b.cmdAddClient(ctx, msg)
	case "add_project":
		err = b.cmdAddProject(ctx, msg)
	case "clients":
		err = b.cmdClients(ctx, msg)
	case "projects":
		err = b.cmdProjects(ctx, msg)
	case "work":
		err = b.cmdWork(ctx, msg)
	case "stop":
		err = b.cmdStop(ctx, msg)
	case "status":
		err = b.cmdStatus(ctx, msg)
	case "today":
		err = b.cmdReport(ctx, msg, 1, "📊 Today's report")
	case "week":
		err = b.cmdReport(ctx, msg, 7, "📊 Weekly report")
	case "month":
		err = b.cmdReport(ctx, msg, 30, "📊 Monthly report")
	case "summary":
		err = b.cmdSummary(ctx, msg)
	case "export":
		err = b.cmdExport(ctx, msg)
	case "cancel":
		err = b.cmdCancel(ctx, msg)
	default:
		outcome = "unknown"
		b.reply(msg.Chat.ID, "Unknown command. See /help for the list.")
		return
	}
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		b.log.Error().Err(err).Int64("user_id", userID).Str("command", cmd).Msg("command failed")
		b.reply(msg.Chat.ID, msgGenericFailure)
	}
}
