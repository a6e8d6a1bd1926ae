package log

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu     sync.Mutex
	sugar  *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	output zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
)

// initLogger lazily builds the global logger. Output goes to stderr so that
// stdout stays free for calendar data.
func initLogger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()

	if sugar == nil {
		sugar = build(output)
	}
	return sugar
}

func build(w zapcore.WriteSyncer) *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), w, level)
	return zap.New(core).Sugar()
}

// SetOutput redirects log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = zapcore.Lock(zapcore.AddSync(w))
	sugar = build(output)
}

func SetLevel(l Level) {
	switch l {
	case LevelDebug:
		level.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		level.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		level.SetLevel(zapcore.WarnLevel)
	case LevelError:
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.DebugLevel)
	}
}

// LevelForVerbosity maps a -v count to a minimum level.
func LevelForVerbosity(v int) Level {
	switch {
	case v <= 0:
		return LevelWarn
	case v == 1:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// enabled reports whether messages at l would be written.
func enabled(l Level) bool {
	switch l {
	case LevelDebug:
		return level.Enabled(zapcore.DebugLevel)
	case LevelInfo:
		return level.Enabled(zapcore.InfoLevel)
	case LevelWarn:
		return level.Enabled(zapcore.WarnLevel)
	default:
		return level.Enabled(zapcore.ErrorLevel)
	}
}

func Debug(msg string, kv ...any) {
	initLogger().Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger().Infow(msg, kv...)
}

func Warn(msg string, kv ...any) {
	initLogger().Warnw(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	initLogger().Errorw(msg, extended...)
}

// Sync flushes buffered output; call before exit.
func Sync() {
	_ = initLogger().Sync()
}
