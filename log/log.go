package log

import (
	"camect-relay/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = newLogger(config.LOG_INFO)

func newLogger(level config.LogLevel) *zap.SugaredLogger {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zcfg.DisableStacktrace = true
	l, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Named("camect-relay").Sugar()
}

func zapLevel(level config.LogLevel) zapcore.Level {
	switch level {
	case config.LOG_DEBUG:
		return zapcore.DebugLevel
	case config.LOG_WARN:
		return zapcore.WarnLevel
	case config.LOG_ERROR:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// Init replaces the package logger. Call once, after the config is loaded.
func Init(level config.LogLevel) {
	_ = sugar.Sync()
	sugar = newLogger(level)
}

func Sync() {
	_ = sugar.Sync()
}

// With returns a child logger carrying the given key/value pairs.
func With(args ...any) *zap.SugaredLogger {
	return sugar.Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar().With(args...)
}

func Debugf(s string, args ...any) {
	sugar.Debugf(s, args...)
}

func Infoln(s string) {
	sugar.Info(s)
}
func Infof(s string, args ...any) {
	sugar.Infof(s, args...)
}

func Warnf(s string, args ...any) {
	sugar.Warnf(s, args...)
}

func Errorf(s string, args ...any) {
	sugar.Errorf(s, args...)
}

