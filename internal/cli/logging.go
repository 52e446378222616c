package cli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a JSON logger writing to a rotated file when logFile is set,
// and a console logger on stderr otherwise. The returned func flushes the logger.
func newLogger(logFile string, debug bool, stderr io.Writer) (*zap.Logger, func(), error) {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	var core zapcore.Core
	if logFile != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
		cfg := zap.NewProductionConfig()
		core = zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), fileWriter, level)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(stderr), level)
	}

	logger := zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, func() { _ = logger.Sync() }, nil
}
