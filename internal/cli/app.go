package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/assistant"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/remote"
	"github.com/Makepad-fr/tada/internal/tasks"
	"github.com/Makepad-fr/tada/internal/ui"
)

// app is the per-invocation wiring shared by all commands.
type app struct {
	flags *rootFlags

	cfg    config.Config
	log    *log.Logger
	closer io.Closer
	client *remote.Client
	now    func() time.Time

	tasks   *tasks.Controller
	session *assistant.Session
}

// setup loads config, logging and the remote client. It makes no network calls.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flags.apiURL != "" {
		cfg.Service.BaseURL = a.flags.apiURL
	}
	if a.flags.theme != "" {
		cfg.UI.Theme = a.flags.theme
	}
	a.cfg = cfg
	a.now = time.Now
	ui.SetTheme(cfg.UI.Theme)

	// diagnostics go to stderr for one-shot commands; the board
	// owns the terminal so it logs to the file or nowhere
	var fallback io.Writer = cmd.ErrOrStderr()
	if cmd.Name() == "ls" {
		fallback = nil
	}
	logger, closer, err := logging.New(cfg.Logging, fallback)
	if err != nil {
		return usagef("%v", err)
	}
	a.log, a.closer = logger, closer

	opts := []remote.Option{
		remote.WithTimeout(cfg.Service.Timeout.Duration),
		remote.WithLogger(logger),
	}
	ti, err := auth.GetToken()
	if err != nil {
		logger.Warn("ignoring unreadable credentials", "err", err)
	} else if ti != nil {
		if ti.Expired(a.now()) {
			logger.Warn("token expired; run `tada auth login`", "source", ti.Source)
		}
		opts = append(opts, remote.WithToken(ti.Token))
	}

	client, err := remote.NewClient(cfg.Service.BaseURL, opts...)
	if err != nil {
		return usagef("%v", err)
	}
	a.client = client
	a.tasks = tasks.NewController(client, tasks.NewStore(), logger)
	a.session = assistant.NewSession(client, logger)
	return nil
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// runtimeErr reports a remote failure as "<op>: <cause>".
func runtimeErr(op string, err error) error {
	if errors.Is(err, errUsage) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
