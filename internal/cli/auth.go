package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the remote service",
		Args:  exactArgs(0, "auth <login|logout|status|whoami>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd(a), newAuthWhoamiCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a token (from --token or stdin)",
		Args:  exactArgs(0, "auth login [--token T]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Paste your token: ")
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					token = sc.Text()
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read token: %w", err)
				}
			}
			if err := auth.SetToken(token, nil); err != nil {
				if errors.Is(err, auth.ErrEmptyToken) {
					return usagef("auth login: %v", err)
				}
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK("logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token to save instead of reading stdin")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the saved token",
		Args:  exactArgs(0, "auth logout"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, _ := auth.GetToken()
			if ti != nil && ti.Source == auth.SourceEnv {
				ui.OK("token is provided by TADA_TOKEN env var (nothing to delete)")
				return nil
			}
			if err := auth.DeleteToken(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK("logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  exactArgs(0, "auth status"),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(out, "Run: tada auth login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", ti.Source)
			switch {
			case ti.ExpiresAt == nil:
				fmt.Fprintln(out, "expires: (unknown)")
			case ti.Expired(a.now()):
				fmt.Fprintf(out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), ui.Current().Error.Render("(expired)"))
			default:
				fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
			}
			fmt.Fprintf(out, "service: %s\n", a.client.BaseURL())
			fmt.Fprintln(out, "env override: TADA_TOKEN")
			return nil
		},
	}
}

// whoami decodes a JWT locally without verifying it; opaque tokens print basic info.
func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims of the current token",
		Args:  exactArgs(0, "auth whoami"),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				return usagef("not logged in. Run: tada auth login")
			}
			claims, err := auth.Claims(ti.Token)
			if err != nil {
				fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(out, "source:", ti.Source)
				return nil
			}
			keys := make([]string, 0, len(claims))
			for k := range claims {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			lines := make([]string, 0, len(keys)+1)
			lines = append(lines, ui.Current().Accent.Render("JWT claims"))
			for _, k := range keys {
				lines = append(lines, fmt.Sprintf("%-6s %v", k+":", claimString(claims[k])))
			}
			ui.Panel(lines)
			return nil
		},
	}
}

func claimString(v any) string {
	switch x := v.(type) {
	case float64:
		// numeric dates come back as float64
		if x > 1e9 && x < 1e11 {
			return time.Unix(int64(x), 0).UTC().Format(time.RFC3339)
		}
		return fmt.Sprint(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}
