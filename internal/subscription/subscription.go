// Package subscription implements the channel-membership gate in front of
// the /start and /help commands.
//
// The gate is deliberately fail-open by default: when the membership lookup
// itself fails (channel renamed, bot lacks rights, transport error) access
// is allowed rather than locking every user out. That policy is surfaced as
// configuration, not buried behaviour.
package subscription

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// ChatMemberGetter is the slice of the Telegram API the gate needs;
// *tgbotapi.BotAPI satisfies it.
type ChatMemberGetter interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// Gate checks whether an account is subscribed to the configured channel.
type Gate struct {
	// API performs the membership lookup.
	API ChatMemberGetter
	// Channel is the channel username including the leading '@'.
	// Empty disables the gate entirely.
	Channel string
	// FailOpen allows access when the lookup errors.
	FailOpen bool
}

// Allowed reports whether userID may use the gated commands. Member,
// administrator and creator statuses pass; a lookup error falls back to
// FailOpen.
func (g *Gate) Allowed(userID int64) bool {
	if g.Channel == "" {
		return true
	}
	member, err := g.API.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: g.Channel,
			UserID:             userID,
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("channel", g.Channel).Msg("subscription check failed")
		return g.FailOpen
	}
	switch member.Status {
	case "member", "administrator", "creator":
		return true
	}
	return false
}
