// Package main is the AcademiaFlow command-line client.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/anayy09/AcademiaFlow/internal/apiclient"
	"github.com/anayy09/AcademiaFlow/internal/app"
	"github.com/anayy09/AcademiaFlow/internal/config"
)

const usage = `usage: academiaflow <command> [flags]

commands:
  register     create an account and sign in
  login        sign in with email and password
  logout       end the local session
  whoami       print the local session
  profile      show | update
  courses      list | get | add | update | delete
  assignments  list | get | add | update | status | delete

Configuration is read from the environment (API_BASE_URL, SESSION_BACKEND, ...).
`

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	if err := config.LoadDotEnv(config.DefaultDotEnvFile); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", sanitizeError(err, os.Getenv("REDIS_URL"), os.Getenv("DATABASE_URL")))
		return 1
	}

	logger := initLogger(cfg, stderr)

	a, err := app.New(ctx, cfg, logger, app.Options{})
	if err != nil {
		logger.Error("failed to start",
			slog.String("error", sanitizeError(err, cfg.RedisURL, cfg.DatabaseURL)),
			slog.String("backend", cfg.SessionBackend),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		fmt.Fprintf(stderr, "error: %s\n", sanitizeError(err, cfg.RedisURL, cfg.DatabaseURL))
		return 1
	}
	defer a.Close()

	cmd := &command{app: a, out: stdout}
	err = cmd.dispatch(ctx, args[0], args[1:])

	snap := a.Metrics.Snapshot()
	logger.Debug("api usage",
		slog.Uint64("requests", snap.RequestDurationCount),
		slog.Duration("total_duration", snap.RequestDurationTotal),
		slog.Uint64("sessions_invalidated", snap.SessionsInvalidated),
	)

	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "error: %s\n\n%s", err, usage)
		return 2
	case apiclient.IsUnauthorized(err):
		fmt.Fprintln(stderr, "error: not signed in or session expired; run 'academiaflow login'")
		return 1
	default:
		fmt.Fprintf(stderr, "error: %s\n", err)
		return 1
	}
}

// initLogger initializes the slog logger based on configuration. The CLI
// writes its results to stdout, so logs go to w.
func initLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
