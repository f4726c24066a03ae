package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controla o nível e o arquivo de log opcional.
type Options struct {
	Level string // debug, info, warn, error
	File  string // vazio = somente stdout
}

// Init inicializa o logger global.
func Init(opts Options) {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		// Arquivo com rotação, além do stdout
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // dias
			Compress:   true,
		})
	}

	// Cria um logger JSON estruturado
	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	})
	slog.SetDefault(slog.New(handler))
}

// ParseLevel converte o texto da configuração; valores desconhecidos viram info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug registra uma mensagem de depuração.
func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

// Info registra uma mensagem de informação.
func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

// Warn registra um aviso.
func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

// Error registra uma mensagem de erro.
func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}
