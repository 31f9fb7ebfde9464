package email

import (
	"context"

	"go.uber.org/zap"
)

// Message is one outbound email. HTML falls back to Text when empty.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers outbound email. Auth flows treat delivery as best-effort:
// failures are logged by the caller and never surfaced to the user.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// logSender logs messages instead of delivering them. Used when SMTP is not
// configured so local development works without a mail server.
type logSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logSender{logger: logger}
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent (smtp not configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
