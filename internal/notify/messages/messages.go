// Package messages delivers notifications through the Apple Messages app by
// driving osascript. Works for both iMessage and SMS relay, depending on the
// configured service.
package messages

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"lookout/internal/config"
	"lookout/internal/logging"
	"lookout/internal/recipient"
	"lookout/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the sender.
type Option func(*Sender)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(s *Sender) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// Sender drives the Messages app via AppleScript. If the service-targeted
// script fails, a second script that opens a fresh chat is tried before the
// delivery is reported failed.
type Sender struct {
	binary  string
	service string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

// New constructs a Messages sender. Service is "iMessage" or "SMS".
func New(binary, service string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Sender {
	s := &Sender{
		binary:  binary,
		service: service,
		timeout: timeout,
		exec:    commandExecutor{},
		logger:  logging.NewComponentLogger(logger, "notify-messages"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sender) Name() string { return "messages" }

// Send delivers text to the recipient's address through the Messages app.
func (s *Sender) Send(ctx context.Context, rcpt config.Recipient, text string) error {
	address := recipient.FormatPhone(rcpt.Address)
	if address == "" {
		return services.Wrap(services.ErrDelivery, "notify-messages", "send", "recipient has no address", nil)
	}

	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	primaryErr := s.run(sendCtx, buddyScript(s.service, address, text))
	if primaryErr == nil {
		return nil
	}
	s.logger.Warn("service-targeted send failed, trying new-chat fallback",
		logging.String(logging.FieldRecipient, rcpt.Name),
		logging.Error(primaryErr))

	if fallbackErr := s.run(sendCtx, newChatScript(s.service, address, text)); fallbackErr != nil {
		return services.Wrap(services.ErrDelivery, "notify-messages", "send", "both send scripts failed", fallbackErr)
	}
	return nil
}

func (s *Sender) run(ctx context.Context, script string) error {
	return s.exec.Run(ctx, s.binary, []string{"-e", script}, nil)
}

// buddyScript targets the first service of the configured type and sends to
// the buddy directly.
func buddyScript(service, address, text string) string {
	return fmt.Sprintf(`tell application "Messages"
	activate
	delay 1
	set targetService to 1st service whose service type = %s
	set targetBuddy to buddy "%s" of targetService
	send "%s" to targetBuddy
end tell`, service, escapeAppleScript(address), escapeAppleScript(text))
}

// newChatScript opens a fresh chat with the buddy first. Some Messages
// versions refuse the direct buddy send for addresses with no chat history.
func newChatScript(service, address, text string) string {
	return fmt.Sprintf(`tell application "Messages"
	activate
	delay 1
	set targetService to 1st service whose service type = %s
	set targetBuddy to buddy "%s" of targetService
	set newChat to make new chat with properties {service:targetService, participants:{targetBuddy}}
	send "%s" to newChat
end tell`, service, escapeAppleScript(address), escapeAppleScript(text))
}

func escapeAppleScript(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `"`, `\"`)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var tail strings.Builder
	var mu sync.Mutex

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			if onStdout != nil {
				onStdout(line)
				continue
			}
			mu.Lock()
			if tail.Len() < 2048 {
				tail.WriteString(line)
				tail.WriteByte('\n')
			}
			mu.Unlock()
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(tail.String())
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, detail)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}
