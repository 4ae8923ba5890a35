package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/assistant"
	"github.com/Makepad-fr/tada/internal/ui"
)

// errReported is returned after a command already printed its own failure.
var errReported = errors.New("reported")

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the planning assistant a question",
		Args:  minArgs(1, "ask <question...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, err := a.session.Ask(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, assistant.ErrEmptyQuestion) {
				return usagef("ask: %v", err)
			}
			if err != nil {
				ui.Fail(assistant.QueryFailedText)
				ui.Muted(err.Error())
				return errReported
			}
			ui.Panel([]string{ui.Current().Accent.Render("AI Response:"), answer})
			return nil
		},
	}
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Ask the assistant for a weekly plan",
		Args:  exactArgs(0, "plan"),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.session.SuggestSchedule(cmd.Context())
			if err != nil {
				ui.Fail(assistant.PlanFailedText)
				ui.Muted(err.Error())
				return errReported
			}
			ui.Panel([]string{ui.Current().Accent.Render("Your Weekly Plan:"), plan})
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var (
		output string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past questions and answers",
		Args:  exactArgs(0, "history [-o table|json|yaml] [--limit N]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			if limit < 0 {
				return usagef("history: --limit must not be negative")
			}
			if err := a.session.History.Refresh(cmd.Context()); err != nil {
				return runtimeErr("history", err)
			}
			entries := a.session.History.Entries()
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			if output != formatTable {
				return encode(cmd.OutOrStdout(), output, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet. Try `tada ask`.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tQUESTION\tRESPONSE")
			for _, e := range entries {
				ts := "-"
				if !e.Timestamp.IsZero() {
					ts = e.Timestamp.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", ts, clip(e.Question, 40), clip(e.Response, 60))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the last N exchanges (0: all)")
	return cmd
}

// clip flattens s to one line of at most n runes.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
