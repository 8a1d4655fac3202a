// Command companywatch is a client for the company tracking API. It runs a
// single command against the remote API, or serves the local console with
// `companywatch serve`.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/config"
	"github.com/notastartupanymore/companywatch/pkg/logger"
)

const usage = `usage: companywatch <command> [flags]

commands:
  serve            run the local console on $CONSOLE_HOST:$PORT
  register         create an account
  verify           confirm an email address with the mailed token
  login            authenticate and store the access token
  logout           forget the stored token
  whoami           show the current session and profile
  news             list news (-interesting, -filtered)
  companies        list tracked companies
  filters          list available and active filters
  subscriptions    list subscriptions
  subscribe        subscribe to a company or topic
  unsubscribe      drop a subscription
  toggle-filter    switch a news filter on or off
  chart            print a chart series
  report           request a report
  contact          send a message to the operators
  delete-account   delete the logged-in account
`

// errLoginRequired ends a command whose session is gone. The navigator has
// already printed the login hint, so nothing else is shown.
var errLoginRequired = errors.New("login required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := exitCode(run(ctx, os.Args[1:], os.Stdout, os.Stderr), os.Stderr)
	stop()
	os.Exit(code)
}

// exitCode prints err, unless it is errLoginRequired, and returns the
// process exit status.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errLoginRequired):
		return 1
	}
	fmt.Fprintln(stderr, "error:", err)
	return 1
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: stderr})

	a, err := newApp(ctx, cfg, log, args[0] == "serve", stderr)
	if err != nil {
		return err
	}
	defer a.close()

	// An expired token has already printed the login hint.
	if _, err := a.session.Start(ctx); err != nil && !errors.Is(err, domain.ErrAuthExpired) {
		log.Warn().Err(err).Msg("could not confirm stored session")
	}
	err = cmd(ctx, a, args[1:], stdout)
	if errors.Is(err, domain.ErrAuthExpired) || errors.Is(err, domain.ErrNotAuthenticated) {
		return errLoginRequired
	}
	return err
}
