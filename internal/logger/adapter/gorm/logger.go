// Package gorm routes gorm's query log to zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gophilo/gophilo/internal/logger"
)

// Logger implements gorm's logger.Interface on top of a zerolog logger.
type Logger struct {
	log   zerolog.Logger
	level gormlogger.LogLevel
	cfg   logger.SQL
}

// New returns a gorm logger writing to log. Failed statements are logged at
// error level, slow ones at warn level and, if cfg.Enabled, every statement
// at trace level. Record-not-found errors are not treated as failures.
func New(log zerolog.Logger, cfg logger.SQL) *Logger {
	return &Logger{log: log, level: gormlogger.Info, cfg: cfg}
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level

	return &c
}

// Info implements logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace implements logger.Interface.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var event *zerolog.Event

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		event = l.log.Error().Err(err)
	case l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold && l.level >= gormlogger.Warn:
		event = l.log.Warn().Dur("threshold", l.cfg.SlowThreshold)
	case l.cfg.Enabled && l.level >= gormlogger.Info:
		event = l.log.Trace()
	default:
		return
	}

	sql, rows := fc()

	event.Str("sql", sql).Dur("elapsed", elapsed)

	if rows >= 0 {
		event.Int64("rows", rows)
	}

	event.Msg("sql")
}
