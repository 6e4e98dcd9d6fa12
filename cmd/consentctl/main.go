// Command consentctl manages a cookie consent decision from the terminal
// and serves the consent API over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/consent/middlewares"
	"github.com/dmitrymomot/consent/pkg/logger"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	fs := pflag.NewFlagSet("consentctl", pflag.ContinueOnError)
	registerFlags(fs)
	fs.Bool("functional", false, "save: enable functional cookies")
	fs.Bool("analytics", false, "save: enable analytics cookies")
	fs.Bool("marketing", false, "save: enable marketing cookies")
	fs.SetInterspersed(true)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := Load(".", fs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logger.NewWithSentry(cfg.Sentry,
		logger.WithOutput(os.Stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithComponent("consentctl"),
		logger.WithExtractors(middlewares.RequestIDExtractor()),
	)
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, log: log, flags: fs, out: os.Stdout}
	if err := a.run(ctx, fs.Args()); err != nil {
		log.Error("command failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "consentctl:", err)
		return 1
	}
	return 0
}
