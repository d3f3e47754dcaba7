package subscription

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeMemberGetter struct {
	status string
	err    error

	channel string
	userID  int64
	calls   int
}

func (f *fakeMemberGetter) GetChatMember(c tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.calls++
	f.channel = c.SuperGroupUsername
	f.userID = c.UserID
	if f.err != nil {
		return tgbotapi.ChatMember{}, f.err
	}
	return tgbotapi.ChatMember{Status: f.status}, nil
}

func TestAllowed_Statuses(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"member", true},
		{"administrator", true},
		{"creator", true},
		{"left", false},
		{"kicked", false},
		{"restricted", false},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			api := &fakeMemberGetter{status: tc.status}
			g := &Gate{API: api, Channel: "@somechannel"}
			if got := g.Allowed(42); got != tc.want {
				t.Fatalf("Allowed = %v, want %v", got, tc.want)
			}
			if api.channel != "@somechannel" || api.userID != 42 {
				t.Fatalf("lookup args = %q %d", api.channel, api.userID)
			}
		})
	}
}

func TestAllowed_EmptyChannelDisablesGate(t *testing.T) {
	api := &fakeMemberGetter{status: "left"}
	g := &Gate{API: api}

	if !g.Allowed(42) {
		t.Fatal("empty channel must allow everyone")
	}
	if api.calls != 0 {
		t.Fatal("no lookup should happen with the gate disabled")
	}
}

func TestAllowed_LookupErrorFollowsPolicy(t *testing.T) {
	api := &fakeMemberGetter{err: errors.New("chat not found")}

	open := &Gate{API: api, Channel: "@somechannel", FailOpen: true}
	if !open.Allowed(42) {
		t.Fatal("fail-open gate must allow on lookup error")
	}

	closed := &Gate{API: api, Channel: "@somechannel", FailOpen: false}
	if closed.Allowed(42) {
		t.Fatal("fail-closed gate must deny on lookup error")
	}
}
