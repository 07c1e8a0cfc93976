// Package utils предоставляет файловый логгер, graceful shutdown и поиск config.yaml.
//
// Логгер пишет JSON строки (zap) в .log файл с timestamp в имени.
// До вызова InitLogger все вызовы Info/Debug/... ничего не делают.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMutex sync.RWMutex
	logFile  *os.File
	sugar    = zap.NewNop().Sugar()
)

// InitLogger создаёт/открывает .log файл в dir (пустой dir - текущая директория).
//
// Имя файла: plenty-YYYY-MM-DD-HH-MM.log (например, plenty-2026-10-19-15-30.log).
// debug включает уровень DEBUG.
func InitLogger(dir string, debug bool) (string, error) {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile != nil {
		return logFile.Name(), nil
	}

	filename := fmt.Sprintf("plenty-%s.log", time.Now().Format("2006-01-02-15-04"))
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create log dir: %w", err)
		}
		filename = filepath.Join(dir, filename)
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	logFile = f
	sugar = newSugar(zapcore.AddSync(f), level)
	sugar.Infow("Logger initialized", "file", filename)

	return filename, nil
}

func newSugar(ws zapcore.WriteSyncer, level zapcore.Level) *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05"),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), ws, level)
	// Skip 2: log() и публичная обёртка (Info, Debug...).
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	log(zapcore.InfoLevel, msg, keyvals...)
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	log(zapcore.ErrorLevel, msg, keyvals...)
}

// Debug - отладочное сообщение.
func Debug(msg string, keyvals ...any) {
	log(zapcore.DebugLevel, msg, keyvals...)
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	log(zapcore.WarnLevel, msg, keyvals...)
}

// log - внутренняя функция записи в лог.
//
// keyvals - пары ключ/значение: "endpoint", url, "status", 200.
func log(level zapcore.Level, msg string, keyvals ...any) {
	logMutex.RLock()
	defer logMutex.RUnlock()

	sugar.Logw(level, msg, keyvals...)
}

// Close сбрасывает буферы и закрывает лог-файл.
//
// Вызывается через defer в main().
func Close() {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logFile == nil {
		return
	}

	_ = sugar.Sync()
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
	}
	logFile = nil
	sugar = zap.NewNop().Sugar()
}
