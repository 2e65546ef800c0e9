// Command app runs the sample HTTP application that cloudship deploys.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cloudship/cloudship/internal/constants"
	"github.com/cloudship/cloudship/internal/logger"
	"github.com/cloudship/cloudship/internal/server"
)

func main() {
	settings := server.LoadSettings()

	env := constants.CLI
	if settings.IsProduction() {
		env = constants.Production
	}
	logger.Initialize(env, parseLogLevel(settings.LogLevel))

	slog.Info("starting server",
		"addr", settings.Addr(),
		"environment", settings.Environment,
		"version", settings.APIVersion,
	)

	if err := http.ListenAndServe(settings.Addr(), server.NewRouter(settings)); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
