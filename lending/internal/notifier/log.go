package notifier

import (
	"context"

	"go.uber.org/zap"
)

// Log writes notifications to the service log. It stands in for Telegram
// when no bot is configured.
type Log struct {
	log *zap.Logger
}

func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("notifier")}
}

func (l *Log) Notify(_ context.Context, text string) error {
	l.log.Info("notification", zap.String("text", text))
	return nil
}
