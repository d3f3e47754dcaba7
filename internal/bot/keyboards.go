package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/timebill/timebill-bot/internal/domain"
	"github.com/timebill/timebill-bot/internal/repo"
)

// Callback data is "<kind>:<flow token>:<value>", one button per row like
// the original menus. The token ties a tap to the flow instance that drew
// the keyboard.
const (
	cbClient = "client"
	cbProj   = "proj"
	cbTask   = "task"
)

func callbackData(kind, token string, value int) string {
	return fmt.Sprintf("%s:%s:%d", kind, token, value)
}

// parseCallback splits callback data into its three fields. ok is false for
// anything that is not ours (or was truncated).
func parseCallback(data string) (kind, token string, value int, ok bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return "", "", 0, false
	}
	v, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", "", 0, false
	}
	return parts[0], parts[1], v, true
}

func clientKeyboard(clients []domain.Client, token string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, callbackData(cbClient, token, int(c.ID))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func projectKeyboard(projects []repo.ProjectInfo, token string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(projects))
	for _, p := range projects {
		label := p.ClientName + " → " + p.ProjectName
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(cbProj, token, int(p.ProjectID))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func taskKeyboard(token string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(domain.TaskTypes))
	for i, t := range domain.TaskTypes {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(t, callbackData(cbTask, token, i)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
