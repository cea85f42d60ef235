// README: Development email sender; logs dispatch emails instead of sending them.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes emails to the log instead of sending them. It stands in
// for EmailJS in development when no provider keys are configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("email")}
}

func (s *LogSender) Send(_ context.Context, e Email) error {
	fields := []zap.Field{zap.String("to", e.To), zap.String("subject", e.Subject)}
	for k, v := range e.Params {
		fields = append(fields, zap.String(k, v))
	}
	s.log.Info("email not sent: provider not configured", fields...)
	return nil
}
