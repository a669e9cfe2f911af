package notify

import (
	"context"
	"log/slog"

	"lookout/internal/config"
	"lookout/internal/logging"
	"lookout/internal/notify/messages"
	"lookout/internal/notify/ntfy"
	"lookout/internal/notify/telegram"
	"lookout/internal/services"
)

// Sender delivers one message to one recipient.
type Sender interface {
	Send(ctx context.Context, recipient config.Recipient, text string) error
	Name() string
}

// FromConfig builds the configured delivery backend.
func FromConfig(cfg *config.Config, logger *slog.Logger) (Sender, error) {
	switch cfg.Notify.Backend {
	case "messages":
		return messages.New(cfg.OsascriptBinary(), cfg.Notify.Messages.Service, cfg.SendTimeout(), logger), nil
	case "telegram":
		return telegram.New(cfg.Notify.Telegram.Token)
	case "ntfy":
		return ntfy.New(cfg.Notify.Ntfy.Topic, cfg.NtfyTimeout()), nil
	case "none":
		return Noop(logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "notify", "build", "unknown backend "+cfg.Notify.Backend, nil)
	}
}

type noopSender struct {
	logger *slog.Logger
}

// Noop returns a sender that records deliveries at debug level and otherwise
// does nothing. Used when no backend is configured.
func Noop(logger *slog.Logger) Sender {
	return noopSender{logger: logging.NewComponentLogger(logger, "notify")}
}

func (n noopSender) Name() string { return "none" }

func (n noopSender) Send(_ context.Context, recipient config.Recipient, text string) error {
	n.logger.Debug("dropping notification, no backend configured",
		logging.String(logging.FieldRecipient, recipient.Name),
		logging.String("text", text))
	return nil
}
