package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/export"
	"github.com/timebill/timebill-bot/internal/report"
	"github.com/timebill/timebill-bot/internal/services"
)

// send pushes a reply out and logs delivery failures; a lost reply is not
// worth failing the whole command over.
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.API.Send(c); err != nil {
		b.log.Error().Err(err).Msg("send failed")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	b.send(msg)
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	e := tgbotapi.NewEditMessageText(chatID, messageID, text)
	e.ParseMode = tgbotapi.ModeMarkdown
	b.send(e)
}

func (b *Bot) cmdHelp(_ context.Context, msg *tgbotapi.Message) error {
	if !b.Gate.Allowed(msg.From.ID) {
		b.reply(msg.Chat.ID, b.subscribeText())
		return nil
	}
	b.replyMarkdown(msg.Chat.ID, helpText)
	return nil
}

func (b *Bot) cmdAddClient(_ context.Context, msg *tgbotapi.Message) error {
	b.dialogs.begin(msg.From.ID, flowAddClient, stepClientName)
	b.replyMarkdown(msg.Chat.ID, msgAskClientName)
	return nil
}

func (b *Bot) cmdAddProject(ctx context.Context, msg *tgbotapi.Message) error {
	clients, err := b.Ledger.ListClients(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		b.reply(msg.Chat.ID, msgNoClients)
		return nil
	}
	st := b.dialogs.begin(msg.From.ID, flowAddProject, stepProjectClient)
	m := tgbotapi.NewMessage(msg.Chat.ID, "📁 *Add project*\n\nChoose a client:")
	m.ParseMode = tgbotapi.ModeMarkdown
	m.ReplyMarkup = clientKeyboard(clients, st.token)
	b.send(m)
	return nil
}

func (b *Bot) cmdClients(ctx context.Context, msg *tgbotapi.Message) error {
	clients, err := b.Ledger.ListClients(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if len(clients) == 0 {
		b.reply(msg.Chat.ID, "📋 You have no clients yet.\n\nAdd one with /add_client")
		return nil
	}
	var sb strings.Builder
	sb.WriteString("*📋 Your clients:*\n\n")
	for _, c := range clients {
		fmt.Fprintf(&sb, "• %s _(added %s)_\n", c.Name, c.CreatedAt.Format("02.01.2006"))
	}
	b.replyMarkdown(msg.Chat.ID, sb.String())
	return nil
}

func (b *Bot) cmdProjects(ctx context.Context, msg *tgbotapi.Message) error {
	groups, err := b.Ledger.ProjectsByClient(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		b.reply(msg.Chat.ID, "📁 You have no projects yet.\n\nAdd one with /add_project")
		return nil
	}
	var sb strings.Builder
	sb.WriteString("*📁 Your projects:*\n\n")
	for _, g := range groups {
		fmt.Fprintf(&sb, "🏢 *%s*\n", g.Client)
		for _, p := range g.Projects {
			fmt.Fprintf(&sb, "  • %s (%s)\n", p.Name, b.rateText(p.HourlyRate))
		}
		sb.WriteString("\n")
	}
	b.replyMarkdown(msg.Chat.ID, sb.String())
	return nil
}

func (b *Bot) cmdWork(ctx context.Context, msg *tgbotapi.Message) error {
	active, err := b.Tracker.Active(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if active != nil {
		b.reply(msg.Chat.ID, b.alreadyActiveText(active))
		return nil
	}
	projects, err := b.Ledger.ListProjects(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		b.reply(msg.Chat.ID, msgNoProjects)
		return nil
	}
	st := b.dialogs.begin(msg.From.ID, flowStartWork, stepWorkProject)
	m := tgbotapi.NewMessage(msg.Chat.ID, "⏱ *Start working*\n\nChoose a project:")
	m.ParseMode = tgbotapi.ModeMarkdown
	m.ReplyMarkup = projectKeyboard(projects, st.token)
	b.send(m)
	return nil
}

func (b *Bot) cmdStop(ctx context.Context, msg *tgbotapi.Message) error {
	stopped, err := b.Tracker.Stop(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveTimer) {
			b.reply(msg.Chat.ID, msgNothingToStop)
			return nil
		}
		return err
	}
	b.replyMarkdown(msg.Chat.ID, b.stoppedText(stopped))
	return nil
}

func (b *Bot) cmdStatus(ctx context.Context, msg *tgbotapi.Message) error {
	active, err := b.Tracker.Active(ctx, msg.From.ID)
	if err != nil {
		return err
	}
	if active == nil {
		b.reply(msg.Chat.ID, msgNoActive)
		return nil
	}
	b.replyMarkdown(msg.Chat.ID, b.activeWorkText(active))
	return nil
}

func (b *Bot) cmdReport(ctx context.Context, msg *tgbotapi.Message, windowDays int, title string) error {
	rows, err := b.Reports.Entries(ctx, msg.From.ID, windowDays)
	if err != nil {
		return err
	}
	b.replyMarkdown(msg.Chat.ID, report.FormatHierarchical(rows, title, b.Currency))
	return nil
}

func (b *Bot) cmdSummary(ctx context.Context, msg *tgbotapi.Message) error {
	rows, err := b.Reports.Entries(ctx, msg.From.ID, services.ExportWindowDays)
	if err != nil {
		return err
	}
	b.replyMarkdown(msg.Chat.ID, report.FormatClientSummary(rows, b.Currency))
	return nil
}

func (b *Bot) cmdExport(ctx context.Context, msg *tgbotapi.Message) error {
	b.reply(msg.Chat.ID, "📊 Building the Excel file…")

	rows, err := b.Reports.Entries(ctx, msg.From.ID, services.ExportWindowDays)
	if err != nil {
		return err
	}
	f, err := export.BuildWorkbook(rows, b.Currency)
	if err != nil {
		return err
	}
	if f == nil {
		b.reply(msg.Chat.ID, "⚠️ No data to export.")
		return nil
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  export.Filename(msg.From.ID, time.Now()),
		Bytes: buf.Bytes(),
	})
	doc.Caption = "✅ Report for the last 30 days"
	if _, err := b.API.Send(doc); err != nil {
		return err
	}
	return nil
}

func (b *Bot) cmdCancel(_ context.Context, msg *tgbotapi.Message) error {
	if b.dialogs.end(msg.From.ID) {
		b.reply(msg.Chat.ID, msgCancelled)
	} else {
		b.reply(msg.Chat.ID, msgNothingOpen)
	}
	return nil
}

// handleText feeds a plain text message into the open dialog flow, or points
// at /help when none is open.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	st := b.dialogs.current(userID)
	if st == nil {
		b.reply(msg.Chat.ID, msgUseHelp)
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch st.step {
	case stepClientName:
		b.dialogs.end(userID)
		client, err := b.Ledger.CreateClient(ctx, userID, text)
		switch {
		case errors.Is(err, services.ErrEmptyName):
			b.dialogs.begin(userID, flowAddClient, stepClientName)
			b.reply(msg.Chat.ID, "⚠️ The name cannot be empty. Enter the client name:")
		case errors.Is(err, services.ErrDuplicateClient):
			b.replyMarkdown(msg.Chat.ID, fmt.Sprintf("⚠️ Client '*%s*' already exists!", text))
		case err != nil:
			b.log.Error().Err(err).Int64("user_id", userID).Msg("create client failed")
			b.reply(msg.Chat.ID, msgGenericFailure)
		default:
			b.replyMarkdown(msg.Chat.ID, fmt.Sprintf("✅ Client '*%s*' added!", client.Name))
		}

	case stepProjectName:
		if text == "" {
			b.reply(msg.Chat.ID, msgAskProjectName)
			return
		}
		st.projectName = text
		st.step = stepProjectRate
		b.reply(msg.Chat.ID, msgAskRate)

	case stepProjectRate:
		rate, err := services.ParseRate(text)
		if err != nil {
			// Unlimited retries within the same step.
			b.reply(msg.Chat.ID, msgBadRate)
			return
		}
		b.dialogs.end(userID)
		project, err := b.Ledger.CreateProject(ctx, userID, st.clientID, st.projectName, rate)
		switch {
		case errors.Is(err, services.ErrDuplicateProject):
			b.replyMarkdown(msg.Chat.ID, fmt.Sprintf("⚠️ Project '*%s*' already exists for this client!", st.projectName))
		case err != nil:
			b.log.Error().Err(err).Int64("user_id", userID).Msg("create project failed")
			b.reply(msg.Chat.ID, msgGenericFailure)
		default:
			b.replyMarkdown(msg.Chat.ID, fmt.Sprintf("✅ Project '*%s*' added!\n💰 Rate: %s", project.Name, b.rateText(project.HourlyRate)))
		}

	case stepWorkDescription:
		if text == "" {
			b.reply(msg.Chat.ID, msgAskTaskText)
			return
		}
		b.dialogs.end(userID)
		b.startWork(ctx, msg.Chat.ID, 0, userID, st.projectID, domain.TaskCategory{Type: st.taskType, Description: text})

	default:
		// A text message while a keyboard step is open; leave the flow as is.
		b.reply(msg.Chat.ID, "Please use the buttons above, or /cancel.")
	}
}

// startWork runs Tracker.Start and renders the outcome. When messageID is
// non-zero the keyboard message is edited in place, otherwise a fresh reply
// is sent.
func (b *Bot) startWork(ctx context.Context, chatID int64, messageID int, userID int64, projectID uint, task domain.TaskCategory) {
	started, err := b.Tracker.Start(ctx, userID, projectID, task)
	var text string
	switch {
	case errors.Is(err, services.ErrTimerActive):
		if active, aerr := b.Tracker.Active(ctx, userID); aerr == nil && active != nil {
			text = b.alreadyActiveText(active)
		} else {
			text = msgGenericFailure
		}
	case err != nil:
		b.log.Error().Err(err).Int64("user_id", userID).Msg("start work failed")
		text = msgGenericFailure
	default:
		text = b.startedText(started)
	}
	if messageID != 0 {
		b.edit(chatID, messageID, text)
	} else {
		b.replyMarkdown(chatID, text)
	}
}

// handleCallback routes an inline-keyboard tap. Taps carrying a token that
// does not match the open flow instance (stale keyboard, forged data) are
// acknowledged and dropped.
func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	kind, token, value, ok := parseCallback(q.Data)
	if !ok {
		b.answer(q, "")
		return
	}

	userID := q.From.ID
	st := b.dialogs.current(userID)
	if st == nil || st.token != token {
		b.answer(q, msgStaleMenu)
		return
	}

	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID

	switch {
	case kind == cbClient && st.step == stepProjectClient:
		b.answer(q, "")
		st.clientID = uint(value)
		st.step = stepProjectName
		b.edit(chatID, messageID, msgAskProjectName)

	case kind == cbProj && st.step == stepWorkProject:
		b.answer(q, "")
		st.projectID = uint(value)
		st.step = stepWorkTask
		e := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, "📝 Choose a task type:", taskKeyboard(st.token))
		b.send(e)

	case kind == cbTask && st.step == stepWorkTask:
		b.answer(q, "")
		taskType := domain.TaskByIndex(value)
		if taskType == "" {
			return
		}
		if taskType == domain.TaskOther {
			st.taskType = taskType
			st.step = stepWorkDescription
			b.edit(chatID, messageID, msgAskTaskText)
			return
		}
		b.dialogs.end(userID)
		b.startWork(ctx, chatID, messageID, userID, st.projectID, domain.TaskCategory{Type: taskType})

	default:
		b.answer(q, msgStaleMenu)
	}
}

// answer acknowledges a callback query so the client stops showing the
// spinner; text, when set, appears as a toast.
func (b *Bot) answer(q *tgbotapi.CallbackQuery, text string) {
	if _, err := b.API.Request(tgbotapi.NewCallback(q.ID, text)); err != nil {
		b.log.Debug().Err(err).Msg("callback answer failed")
	}
}
