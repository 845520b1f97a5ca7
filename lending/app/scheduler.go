package app

import (
	"context"

	"github.com/Astemirdum/lending-service/lending/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type overdueChecker interface {
	CheckOverdue(ctx context.Context) error
}

// newScheduler registers the overdue sweep. Runs never overlap.
func newScheduler(cfg config.Lending, svc overdueChecker, log *zap.Logger) (*cron.Cron, error) {
	cl := cronLogger{log: log.Named("cron")}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	_, err := c.AddFunc(cfg.OverdueSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.OverdueTimeout)
		defer cancel()
		if err := svc.CheckOverdue(ctx); err != nil {
			log.Error("CheckOverdue", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
