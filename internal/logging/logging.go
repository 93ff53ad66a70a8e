// Package logging provides named zap loggers for the pir-video binaries.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var cfg = zap.Config{
	Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
	Development: false,
	Encoding:    "console",
	EncoderConfig: zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	},
	OutputPaths:      []string{"stderr"},
	ErrorOutputPaths: []string{"stderr"},
}

var (
	mu           sync.Mutex
	defaultLevel = zapcore.InfoLevel
	levels       = map[string]zap.AtomicLevel{}
)

// SetLevel changes the level of every logger, existing and future.
// Typically called once at startup from the LOG_LEVEL setting.
func SetLevel(level zapcore.Level) {
	mu.Lock()
	defer mu.Unlock()
	defaultLevel = level
	for _, l := range levels {
		l.SetLevel(level)
	}
}

func levelFor(name string) zap.AtomicLevel {
	if l, ok := levels[name]; ok {
		return l
	}
	l := zap.NewAtomicLevelAt(defaultLevel)
	levels[name] = l
	return l
}

// New returns a named sugared logger writing to stderr.
func New(name string) *zap.SugaredLogger {
	mu.Lock()
	c := cfg
	c.Level = levelFor(name)
	mu.Unlock()
	return zap.Must(c.Build(zap.AddStacktrace(zapcore.PanicLevel))).Named(name).Sugar()
}
