package logger

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var _ cron.Logger = (*CronLogger)(nil)

// CronLogger routes robfig/cron messages into zap. Cron's per-tick chatter
// (wake, run, schedule) goes to debug; a tick dropped by SkipIfStillRunning
// is a warning.
type CronLogger struct {
	log *zap.SugaredLogger
}

func NewCronLogger(log *zap.Logger) *CronLogger {
	return &CronLogger{log: log.Sugar()}
}

func (l *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.log.Warnw("cron tick skipped, previous run still active", keysAndValues...)
		return
	}
	l.log.Debugw("cron "+msg, keysAndValues...)
}

func (l *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron "+msg, append(keysAndValues, "error", err)...)
}
