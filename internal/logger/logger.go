package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"eventbridge/internal/config"
)

// levelFiles get exactly one level each; all.log receives everything enabled.
var levelFiles = []struct {
	name  string
	level zapcore.Level
}{
	{"error.log", zapcore.ErrorLevel},
	{"warn.log", zapcore.WarnLevel},
	{"info.log", zapcore.InfoLevel},
	{"debug.log", zapcore.DebugLevel},
}

func New(cfg config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	atom := zap.NewAtomicLevelAt(level)

	consoleEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if cfg.Encoding == "console" {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), atom),
	}

	if cfg.Dir != "" {
		fileCores, err := fileCores(cfg.Dir, atom)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCores...)
	}

	core := zapcore.NewTee(cores...)
	if cfg.Sampling {
		core = zapcore.NewSamplerWithOptions(core, 1e9, 100, 100)
	}

	opts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func fileCores(dir string, enabled zapcore.LevelEnabler) ([]zapcore.Core, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	var cores []zapcore.Core
	for _, lf := range levelFiles {
		ws, err := openFile(filepath.Join(dir, lf.name))
		if err != nil {
			return nil, err
		}
		want := lf.level
		cores = append(cores, zapcore.NewCore(enc, ws, zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l == want && enabled.Enabled(l)
		})))
	}

	all, err := openFile(filepath.Join(dir, "all.log"))
	if err != nil {
		return nil, err
	}
	cores = append(cores, zapcore.NewCore(enc, all, enabled))
	return cores, nil
}

func openFile(path string) (zapcore.WriteSyncer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}
