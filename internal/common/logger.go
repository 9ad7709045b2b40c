package common

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger = zap.NewNop()

// InitLogger builds the process-wide zap logger. Call once from main.
func InitLogger(level, format string) {
	config := zap.NewProductionConfig()
	if format == "text" {
		config.Encoding = "console"
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	config.Level.SetLevel(lvl)

	Logger, _ = config.Build()
}
