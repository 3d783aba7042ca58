package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the global zap logger. Production uses JSON output, everything else the
// development console encoder. When LOG_FILE is set, entries are also written to a rotated file.
func InitLogger(cfg *Config) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.Level = level
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     30,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(rotator),
				level,
			),
			zapcore.NewCore(
				stdoutEncoder(zapConfig),
				zapcore.AddSync(os.Stdout),
				level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, err
		}
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

// stdoutEncoder matches the encoding zapConfig would build with
func stdoutEncoder(zapConfig zap.Config) zapcore.Encoder {
	if zapConfig.Encoding == "json" {
		return zapcore.NewJSONEncoder(zapConfig.EncoderConfig)
	}
	return zapcore.NewConsoleEncoder(zapConfig.EncoderConfig)
}
