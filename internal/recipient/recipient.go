// Package recipient chooses which configured destination receives the next
// notification and normalizes destination addresses.
package recipient

import (
	"math/rand"
	"strings"

	"lookout/internal/config"
	"lookout/internal/services"
)

// Mode selects the rotation strategy across configured recipients.
type Mode string

const (
	// ModeFixed always picks the first configured recipient.
	ModeFixed Mode = "fixed"
	// ModeRandom picks uniformly at random on every notification.
	ModeRandom Mode = "random"
)

// Selector picks a recipient per notification. Random mode consumes entropy
// only from the injected source, so a seeded source reproduces the sequence.
type Selector struct {
	recipients []config.Recipient
	mode       Mode
	rng        *rand.Rand
	fallback   string
}

// NewSelector builds a selector over a non-empty recipient list. The fallback
// message applies to recipients without one of their own. The rng may be nil
// in fixed mode.
func NewSelector(recipients []config.Recipient, mode Mode, rng *rand.Rand, fallback string) (*Selector, error) {
	if len(recipients) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "recipient", "new", "no recipients configured", nil)
	}
	switch mode {
	case ModeFixed:
	case ModeRandom:
		if rng == nil {
			return nil, services.Wrap(services.ErrConfiguration, "recipient", "new", "random selection requires a random source", nil)
		}
	default:
		return nil, services.Wrap(services.ErrConfiguration, "recipient", "new", "selection mode must be fixed or random", nil)
	}
	copied := make([]config.Recipient, len(recipients))
	copy(copied, recipients)
	return &Selector{recipients: copied, mode: mode, rng: rng, fallback: fallback}, nil
}

// Pick returns the recipient for the next notification. The returned
// recipient's Message is resolved: the recipient's own message when set,
// otherwise the selector's fallback, verbatim in both cases.
func (s *Selector) Pick() config.Recipient {
	chosen := s.recipients[0]
	if s.mode == ModeRandom {
		chosen = s.recipients[s.rng.Intn(len(s.recipients))]
	}
	if strings.TrimSpace(chosen.Message) == "" {
		chosen.Message = s.fallback
	}
	return chosen
}

// FormatPhone normalizes a destination address for a messaging service.
// Email addresses and already-prefixed international numbers pass through;
// bare US numbers gain a +1 country prefix.
func FormatPhone(address string) string {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" || strings.Contains(trimmed, "@") || strings.HasPrefix(trimmed, "+") {
		return trimmed
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	switch cleaned := digits.String(); {
	case len(cleaned) == 10:
		return "+1" + cleaned
	case len(cleaned) == 11 && cleaned[0] == '1':
		return "+" + cleaned
	default:
		return trimmed
	}
}
