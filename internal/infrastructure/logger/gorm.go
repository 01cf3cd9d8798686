package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// gormSlowThreshold is the elapsed time above which a query is logged as slow.
const gormSlowThreshold = 200 * time.Millisecond

// GormLogger adapts a zap logger to GORM's logger interface. Record-not-found
// errors are not logged: they are an expected query outcome, not a failure.
type GormLogger struct {
	zap   *zap.Logger
	level gormlogger.LogLevel
}

// NewGormLogger creates a GORM logger backed by zap at the given level.
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{
		zap:   zapLogger.Named("gorm"),
		level: level,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.zap.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.zap.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.zap.Sugar().Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface. Errors log at error level, slow
// queries at warn, everything else at debug when the level allows.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		l.zap.Error("SQL Error", append(fields, zap.Error(err))...)
	case elapsed > gormSlowThreshold && l.level >= gormlogger.Warn:
		l.zap.Warn(fmt.Sprintf("SLOW SQL >= %v", gormSlowThreshold), fields...)
	case l.level >= gormlogger.Info:
		l.zap.Debug("SQL Query", fields...)
	}
}

// MapGormLogLevel maps an application log level to the GORM log level.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
