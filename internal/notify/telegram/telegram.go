// Package telegram delivers notifications through a Telegram bot. The
// recipient address is the numeric chat ID.
package telegram

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lookout/internal/config"
	"lookout/internal/services"
)

// Sender wraps a Telegram bot client.
type Sender struct {
	bot *tgbotapi.BotAPI
}

// New constructs a sender using the default Telegram API endpoint. The token
// is verified with a getMe call at construction time, so a bad token fails at
// startup rather than on the first detection.
func New(token string) (*Sender, error) {
	bot, err := tgbotapi.NewBotAPI(strings.TrimSpace(token))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "notify-telegram", "new", "authorize bot", err)
	}
	return &Sender{bot: bot}, nil
}

// NewWithEndpoint constructs a sender against a custom API endpoint.
// Primarily for tests.
func NewWithEndpoint(token, endpoint string, client *http.Client) (*Sender, error) {
	if client == nil {
		client = http.DefaultClient
	}
	bot, err := tgbotapi.NewBotAPIWithClient(strings.TrimSpace(token), endpoint, client)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "notify-telegram", "new", "authorize bot", err)
	}
	return &Sender{bot: bot}, nil
}

func (s *Sender) Name() string { return "telegram" }

// Send delivers text to the chat named by the recipient address.
func (s *Sender) Send(_ context.Context, rcpt config.Recipient, text string) error {
	addr := strings.TrimSpace(rcpt.Address)
	chatID, err := strconv.ParseInt(addr, 10, 64)
	// ParseInt accepts a leading +, which would let a phone-style address
	// through as a chat ID. Group chat IDs are negative, so - stays legal.
	if err != nil || strings.HasPrefix(addr, "+") {
		return services.Wrap(services.ErrDelivery, "notify-telegram", "send",
			"recipient address must be a numeric chat id, got "+rcpt.Address, err)
	}
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return services.Wrap(services.ErrDelivery, "notify-telegram", "send", "send message", err)
	}
	return nil
}
