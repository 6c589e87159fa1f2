package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/fundledger/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	debugColor = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#B39DDB"}
	infoColor  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor  = lipgloss.AdaptiveColor{Light: "#D98E04", Dark: "#FFB454"}
	errorColor = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
)

func levelStyle(label string, c lipgloss.AdaptiveColor) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		Padding(0, 1).
		Foreground(c)
}

func ledgerStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBU", debugColor)
	styles.Levels[log.InfoLevel] = levelStyle("INFO", infoColor)
	styles.Levels[log.WarnLevel] = levelStyle("WARN", warnColor)
	styles.Levels[log.ErrorLevel] = levelStyle("ERRO", errorColor)

	bold := lipgloss.NewStyle().Bold(true)
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	styles.Values["error"] = bold
	for _, key := range []string{"service", "component", "fundID", "voucherID", "projectID", "studioID"} {
		styles.Keys[key] = lipgloss.NewStyle().Foreground(debugColor)
		styles.Values[key] = bold
	}
	return styles
}

// SetupLogger builds the process logger and installs it as the slog default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(ledgerStyles())

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
