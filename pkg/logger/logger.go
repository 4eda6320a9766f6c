// Package logger provides named, leveled loggers shared by the server and client
// binaries. Output goes to stdout and optionally to a rotated log file.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel controls which messages are emitted
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// globalLevel is shared by every named logger
var globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

// Named loggers for each subsystem
var (
	Server  = newLogger("server")
	Game    = newLogger("game")
	Network = newLogger("network")
	Client  = newLogger("client")
)

// Logger wraps a zap SugaredLogger with printf-style methods
type Logger struct {
	name  string
	mu    sync.Mutex
	sugar *zap.SugaredLogger
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
}

func consoleCore() zapcore.Core {
	encoder := zapcore.NewConsoleEncoder(encoderConfig())
	return zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), globalLevel)
}

func newLogger(name string) *Logger {
	z := zap.New(consoleCore(), zap.AddCaller(), zap.AddCallerSkip(1)).Named(name)
	return &Logger{name: name, sugar: z.Sugar()}
}

// SetGlobalLogLevel changes the level of every named logger
func SetGlobalLogLevel(level LogLevel) {
	switch level {
	case DEBUG:
		globalLevel.SetLevel(zapcore.DebugLevel)
	case INFO:
		globalLevel.SetLevel(zapcore.InfoLevel)
	case WARN:
		globalLevel.SetLevel(zapcore.WarnLevel)
	case ERROR:
		globalLevel.SetLevel(zapcore.ErrorLevel)
	}
}

// ParseLevel maps a level name to a LogLevel, defaulting to INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// SetFile routes this logger's output to a rotated file in addition to stdout.
// Rotation: 10MB per file, 3 backups, 7 days retention.
func (l *Logger) SetFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	fileCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(lj), globalLevel)

	l.mu.Lock()
	defer l.mu.Unlock()
	z := zap.New(zapcore.NewTee(consoleCore(), fileCore), zap.AddCaller(), zap.AddCallerSkip(1)).Named(l.name)
	l.sugar = z.Sugar()
	return nil
}

// InitializeFileLogging points every named logger at a file under dir
func InitializeFileLogging(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	for _, l := range []*Logger{Server, Game, Network, Client} {
		if err := l.SetFile(filepath.Join(dir, l.name+".log")); err != nil {
			return err
		}
	}
	return nil
}

func (l *Logger) logger() *zap.SugaredLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sugar
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger().Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logger().Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logger().Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logger().Errorf(format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logger().Fatalf(format, args...)
}

// Sync flushes buffered log entries; call before process exit
func Sync() {
	for _, l := range []*Logger{Server, Game, Network, Client} {
		_ = l.logger().Sync()
	}
}
