// Package cli implements the tada command-line interface using Cobra.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/ui"
)

// errUsage marks errors that exit with code 2.
var errUsage = errors.New("usage")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// rootFlags apply to every subcommand.
type rootFlags struct {
	apiURL string
	theme  string
}

func newRootCmd(version string) (*cobra.Command, *app) {
	flags := &rootFlags{}
	a := &app{flags: flags}

	root := &cobra.Command{
		Use:   "tada",
		Short: "tada - tasks with a planning assistant",
		Long: `tada keeps your task list on a remote service and lets you ask its
planning assistant questions or for a weekly plan.

Run "tada ls" for the interactive board.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return a.setup(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "remote service base URL (overrides config and TADA_API_URL)")
	pf.StringVar(&flags.theme, "theme", "", "color theme: classic, neon or mono")

	root.AddCommand(
		newLsCmd(a),
		newTasksCmd(a),
		newAddCmd(a),
		newDoneCmd(a),
		newCleanCmd(a),
		newAskCmd(a),
		newPlanCmd(a),
		newHistoryCmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
	)
	return root, a
}

// Execute runs the CLI with args and returns the process exit code
// (0 ok, 1 runtime failure, 2 usage or validation error).
func Execute(version string, args []string, stdout, stderr io.Writer) int {
	root, a := newRootCmd(version)
	defer a.close()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	ui.SetOutput(stdout, stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errReported) {
		ui.Fail(err.Error())
	}
	if isUsage(err) {
		return 2
	}
	return 1
}

func isUsage(err error) bool {
	if errors.Is(err, errUsage) {
		return true
	}
	// cobra reports these as plain errors
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires at least") ||
		strings.HasPrefix(msg, "required flag")
}

// exactArgs is cobra.ExactArgs with a usage-classified error.
func exactArgs(n int, use string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("tada %s", use)
		}
		return nil
	}
}

func minArgs(n int, use string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("tada %s", use)
		}
		return nil
	}
}
