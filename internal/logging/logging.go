// Package logging создаёт файловый zap-логгер: один файл на каждый запуск.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName используется в имени файла и как имя корневого логгера.
const AppName = "atg_sender"

// Options управляет уровнем и дублированием логов в консоль.
type Options struct {
	Dir     string
	Level   string
	Console bool
}

// Logger объединяет zap-логгер и путь к файлу текущего запуска.
type Logger struct {
	*zap.Logger
	Path string
	file *os.File
}

// New создаёт каталог логов и файл вида atg_sender_20060102_150405.log.
func New(opts Options) (*Logger, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога логов: %w", err)
	}
	path := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.log", AppName, time.Now().Format("20060102_150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("открытие файла логов: %w", err)
	}

	level := ParseLevel(opts.Level)
	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(f), level)}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stderr), level))
	}

	return &Logger{
		Logger: zap.New(zapcore.NewTee(cores...)).Named(AppName),
		Path:   path,
		file:   f,
	}, nil
}

// Close сбрасывает буферы и закрывает файл.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Critical пишет событие, после которого работа меню продолжается лишь с потерей действия.
// У zap нет отдельного уровня, поэтому используется Error с пометкой severity.
func Critical(log *zap.Logger, msg string, fields ...zap.Field) {
	log.Error(msg, append(fields, zap.String("severity", "critical"))...)
}

// ParseLevel переводит строку из конфигурации в уровень zap, по умолчанию info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// encoderConfig повторяет формат "время - имя - УРОВЕНЬ - сообщение".
func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " - "
	cfg.CallerKey = zapcore.OmitKey
	return cfg
}
