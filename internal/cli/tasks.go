package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "Open the interactive task board",
		Args:  exactArgs(0, "ls"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(tui.Deps{
				Tasks:   a.tasks,
				Session: a.session,
				Now:     a.now,
				Log:     a.log,
			})
		},
	}
}

func newTasksCmd(a *app) *cobra.Command {
	var (
		group  bool
		output string
	)
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"list"},
		Short:   "Print the task list with overdue and urgent alerts",
		Args:    exactArgs(0, "tasks [--group] [-o table|json|yaml]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			if err := a.tasks.Refresh(cmd.Context()); err != nil {
				return runtimeErr("list", err)
			}
			snap := a.tasks.Store().Snapshot()
			if output != formatTable {
				return encode(cmd.OutOrStdout(), output, snap)
			}
			if !cmd.Flags().Changed("group") {
				group = a.cfg.UI.Group
			}
			ui.Panel(a.taskPanel(snap, group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().StringVarP(&output, "output", "o", formatTable, "output format: table, json or yaml")
	return cmd
}

func (a *app) taskPanel(snap []model.Task, group bool) []string {
	th := ui.Current()
	now := a.now()
	d, p := ui.Stats(snap)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Tasks"),
		th.Success.Render(th.SymOK), d,
		th.Pending.Render("•"), p,
		th.Accent.Render("Total"), len(snap),
	)

	lines := []string{header, th.Muted.Render(ui.CompletionBar(snap, 28)), ""}
	if alerts := ui.Alerts(a.tasks.Overview(now).Urgency); len(alerts) > 0 {
		lines = append(lines, alerts...)
		lines = append(lines, "")
	}
	if group {
		var pend, done []model.Task
		for _, t := range snap {
			if t.Completed {
				done = append(done, t)
			} else {
				pend = append(pend, t)
			}
		}
		lines = append(lines, th.Accent.Render("Pending"))
		lines = append(lines, taskLines(pend, now)...)
		lines = append(lines, "", th.Accent.Render("Done"))
		lines = append(lines, taskLines(done, now)...)
	} else {
		lines = append(lines, taskLines(snap, now)...)
	}
	lines = append(lines, "", th.Muted.Render(`Tip: add with tada add "Buy milk" --deadline 2025-01-31`))
	return lines
}

func taskLines(ts []model.Task, now time.Time) []string {
	th := ui.Current()
	if len(ts) == 0 {
		return []string{th.Muted.Render("(none)")}
	}
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, th.Muted.Render(fmt.Sprintf("%-8s", shortID(t.ID)))+" "+ui.TaskLine(t, now))
	}
	return out
}

// shortID keeps listings narrow; done accepts any unique prefix.
func shortID(id model.TaskID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func newAddCmd(a *app) *cobra.Command {
	var (
		priority int
		deadline string
	)
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a task",
		Args:  minArgs(1, `add <title...> --deadline YYYY-MM-DD [--priority 1-5]`),
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := model.ParseDate(deadline)
			if err != nil {
				return usagef("add: deadline: %v", err)
			}
			draft := model.Draft{
				Title:    strings.Join(args, " "),
				Priority: priority,
				Deadline: dl,
			}
			t, err := a.tasks.Add(cmd.Context(), draft)
			if err != nil {
				if errors.Is(err, model.ErrInvalidDraft) {
					return usagef("add: %v", err)
				}
				return err
			}
			ui.OK(fmt.Sprintf("added %q (%s)", t.Title, t.ID))
			return nil
		},
	}
	cmd.Flags().IntVarP(&priority, "priority", "p", model.MaxPriority, "priority, 1 (highest) to 5")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline date, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("deadline")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  exactArgs(1, "done <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tasks.Refresh(cmd.Context()); err != nil {
				return runtimeErr("done", err)
			}
			id, err := resolveID(a.tasks.Store().Snapshot(), args[0])
			if err != nil {
				return err
			}
			name := string(id)
			if t, ok := a.tasks.Store().Get(id); ok && t.Title != "" {
				name = t.Title
			}
			if err := a.tasks.Complete(cmd.Context(), id); err != nil {
				return runtimeErr("done", err)
			}
			ui.OK("completed " + name)
			return nil
		},
	}
}

// resolveID matches arg against the listed ids, exactly or by unique prefix.
func resolveID(ts []model.Task, arg string) (model.TaskID, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", usagef("done: empty id")
	}
	var matches []model.TaskID
	for _, t := range ts {
		if string(t.ID) == arg {
			return t.ID, nil
		}
		if strings.HasPrefix(string(t.ID), arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", usagef("done: no task with id %q (run `tada tasks`)", arg)
	}
	return "", usagef("done: id prefix %q is ambiguous (%d tasks)", arg, len(matches))
}

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove all completed tasks",
		Args:  exactArgs(0, "clean"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.tasks.Refresh(cmd.Context()); err != nil {
				return runtimeErr("clean", err)
			}
			done, _ := ui.Stats(a.tasks.Store().Snapshot())
			if err := a.tasks.RemoveCompleted(cmd.Context()); err != nil {
				return runtimeErr("clean", err)
			}
			ui.OK(fmt.Sprintf("removed %d completed", done))
			return nil
		},
	}
}
