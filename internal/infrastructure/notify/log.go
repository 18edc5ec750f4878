package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/portalcliente/portal-api/internal/core/ports"
)

// secretDataKeys are never written to logs.
var secretDataKeys = map[string]bool{"reset_token": true}

// LogNotifier writes notifications to the log. It is used when no webhook is
// configured, typically in development.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(_ context.Context, n ports.Notification) error {
	data := zerolog.Dict()
	for k, v := range n.Data {
		if secretDataKeys[k] {
			v = "[redacted]"
		}
		data = data.Str(k, v)
	}
	l.log.Info().
		Str("type", string(n.Type)).
		Str("recipient", n.Recipient).
		Str("subject", n.Subject).
		Dict("data", data).
		Msg("notification")
	return nil
}

// New picks the webhook notifier when url is set and the log notifier
// otherwise.
func New(url string, log zerolog.Logger) ports.Notifier {
	if w := NewWebhookNotifier(url); w != nil {
		return w
	}
	return NewLogNotifier(log)
}
