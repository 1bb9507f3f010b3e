package main

import (
	"github.com/Conversia-AI/craftable-serialx/errx/errxfiber"
	"github.com/Conversia-AI/craftable-serialx/errx/errxlambda"
	"github.com/Conversia-AI/craftable-serialx/serialx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a stderr logger. format is "console" or "json".
func newLogger(level, format string) (*zap.Logger, error) {
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = atomic
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	return cfg.Build()
}

// installLogger routes every library package to l
func installLogger(l *zap.Logger) {
	serialx.SetLogger(l)
	errxfiber.SetLogger(l)
	errxlambda.SetLogger(l)
}
