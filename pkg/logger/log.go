package logger

import "go.uber.org/zap"

// NewLogger writes to a log file instead of stdout: the terminal UI owns
// stdout, so log lines must never interleave with rendered frames.
func NewLogger() *zap.Logger {
	fileConfig := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      []string{"./logs/portal.log"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	fileLogger, err := fileConfig.Build()
	if err != nil {
		panic(err)
	}

	return fileLogger
}
