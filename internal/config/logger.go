package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerMu sync.RWMutex
	logger   *zap.Logger
)

// Logger returns the process logger, building it from HEALTHVIEW_LOG_FORMAT
// and HEALTHVIEW_DEBUG on first use.
func Logger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger == nil {
		logger = newLogger()
	}
	return logger
}

// SetLogger replaces the process logger, tests use zap.NewNop().
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

func newLogger() *zap.Logger {
	var cfg zap.Config
	if StringValue("HEALTHVIEW_LOG_FORMAT") == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if BoolValue("HEALTHVIEW_DEBUG") {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("healthview")
}

// Public methods
func LogInfo(ctx context.Context, msg string, fields ...zap.Field) {
	writeToLog(ctx, zapcore.InfoLevel, msg, fields)
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	writeToLog(ctx, zapcore.ErrorLevel, msg, fields)
}

func LogDebug(ctx context.Context, msg string, fields ...zap.Field) {
	if GetContextDebug(ctx) {
		writeToLog(ctx, zapcore.DebugLevel, msg, fields)
	}
}

// Private methods
func writeToLog(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {

	all := make([]zap.Field, 0, len(fields)+2)
	all = append(all,
		zap.String("cid", GetContextCorrelationId(ctx)),
		zap.String("since", sinceCreated(ctx)))
	all = append(all, fields...)

	if ce := Logger().Check(level, msg); ce != nil {
		ce.Write(all...)
	}

	// Additionally collect if enabled
	if IsLogCollectionEnabled(ctx) {
		createdTime := time.Unix(GetContextTimeCreated(ctx), 0)
		collect(ctx, CollectedLog{
			Timestamp: time.Now().UTC(),
			Severity:  level.CapitalString(),
			Message:   msg,
			CID:       GetContextCorrelationId(ctx),
			ElapsedMs: time.Since(createdTime).Seconds() * 1000,
		})
	}
}

func sinceCreated(ctx context.Context) string {

	created := GetContextTimeCreated(ctx)
	if created == -1 {
		return "0.0s"
	}
	t := time.Since(time.Unix(created, 0)).Seconds()

	return fmt.Sprintf("%.1fs", t)
}
