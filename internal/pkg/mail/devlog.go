package mail

import (
	"context"
	"log/slog"
)

// DevLog is a Mail implementation that writes messages to the application
// log instead of delivering them. It exists for local development only and
// must be enabled explicitly; the app refuses to use it outside the
// development environment.
//
// The log line carries the full body, which for reset emails includes the
// one-time code, so this must never back a deployed environment.
type DevLog struct{}

// NewDevLog constructs a DevLog sender.
func NewDevLog() *DevLog {
	return &DevLog{}
}

// Send logs the message at warn level so it stands out in development output.
func (d *DevLog) Send(ctx context.Context, msg Message) error {
	slog.WarnContext(ctx, "mail: dev mode delivery, no email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.TextBody,
	)
	return nil
}

// Close implements io.Closer for interface compatibility.
func (d *DevLog) Close() error {
	return nil
}
