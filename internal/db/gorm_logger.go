package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = time.Second

type gormZapLogger struct {
	logger *zap.Logger
	level  gormlogger.LogLevel
}

func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	return &gormZapLogger{
		logger: logger.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level:  gormlogger.Warn,
	}
}

func (adapter *gormZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *adapter
	clone.level = level
	return &clone
}

func (adapter *gormZapLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if adapter.level >= gormlogger.Info {
		adapter.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (adapter *gormZapLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if adapter.level >= gormlogger.Warn {
		adapter.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (adapter *gormZapLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if adapter.level >= gormlogger.Error {
		adapter.logger.Error(fmt.Sprintf(msg, args...))
	}
}

func (adapter *gormZapLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if adapter.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && adapter.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		adapter.logger.Error("query failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	case elapsed > slowQueryThreshold && adapter.level >= gormlogger.Warn:
		sql, rows := fc()
		adapter.logger.Warn("slow query",
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	case adapter.level >= gormlogger.Info:
		sql, rows := fc()
		adapter.logger.Debug("query",
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", rows),
			zap.String("sql", sql),
		)
	}
}
