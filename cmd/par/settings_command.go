package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"par/internal/artist"
	"par/internal/settings"
)

type settingsJSON struct {
	TokenSet    bool   `json:"token_set"`
	SearchDepth int    `json:"search_depth"`
	Timezone    string `json:"timezone"`
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change review settings",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show committed settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(_ context.Context, a *app) error {
				committed := a.session.Settings().Committed()
				if jsonOutput {
					return writeJSON(cmd, settingsJSON{
						TokenSet:    committed.HasCredential(),
						SearchDepth: committed.SearchDepth,
						Timezone:    committed.TimezoneName,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Refresh token:  %s\n", maskToken(committed.CredentialToken))
				fmt.Fprintf(out, "Search depth:   %d\n", committed.SearchDepth)
				fmt.Fprintf(out, "Timezone:       %s\n", committed.TimezoneName)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var token, depth, timezone string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change review settings",
		Long: "Change review settings. Each field is validated on its own; a rejected\n" +
			"value keeps the previous one. An empty depth or timezone restores the\n" +
			"default (" + strconv.Itoa(artist.DefaultSearchDepth) + ", " + artist.DefaultTimezone + "). " +
			"A new token rebuilds the queue.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("token") && !flags.Changed("depth") && !flags.Changed("timezone") {
				return fmt.Errorf("nothing to change; pass --token, --depth, or --timezone")
			}
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				reconciler := a.session.Settings()
				draft := settings.DraftOf(reconciler.Committed())
				if flags.Changed("token") {
					draft.Credential = token
				}
				if flags.Changed("depth") {
					draft.SearchDepth = depth
				}
				if flags.Changed("timezone") {
					draft.Timezone = timezone
				}
				reconciler.StageEdit(draft)

				res, err := a.session.ApplySettings(runCtx, draft)
				out := cmd.OutOrStdout()
				if flags.Changed("token") {
					fmt.Fprintln(out, fieldOutcome("Refresh token", res, settings.FieldCredential, draft.Credential, maskToken(res.Committed.CredentialToken)))
				}
				if flags.Changed("depth") {
					fmt.Fprintln(out, fieldOutcome("Search depth", res, settings.FieldSearchDepth, draft.SearchDepth, res.Draft.SearchDepth))
				}
				if flags.Changed("timezone") {
					fmt.Fprintln(out, fieldOutcome("Timezone", res, settings.FieldTimezone, draft.Timezone, res.Draft.Timezone))
				}
				if err != nil {
					return explain(err)
				}
				if res.RequiresFullReset {
					fmt.Fprintf(out, "Queue rebuilt with %d artists.\n", a.session.View().Total)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Refresh token")
	cmd.Flags().StringVar(&depth, "depth", "", "Bookmarks to search for the most recent bookmarked illustration")
	cmd.Flags().StringVar(&timezone, "timezone", "", "Timezone for upload dates")
	return cmd
}

func fieldOutcome(label string, res settings.Result, field, requested, kept string) string {
	switch {
	case slices.Contains(res.Changed, field):
		return fmt.Sprintf("%s: updated (%s)", label, kept)
	case field != settings.FieldCredential && strings.TrimSpace(requested) == "":
		return fmt.Sprintf("%s: unchanged (%s)", label, kept)
	case field == settings.FieldCredential && strings.TrimSpace(requested) == res.Committed.CredentialToken:
		return fmt.Sprintf("%s: unchanged", label)
	case field != settings.FieldCredential && strings.TrimSpace(requested) == kept:
		return fmt.Sprintf("%s: unchanged (%s)", label, kept)
	default:
		return fmt.Sprintf("%s: rejected, kept %s", label, kept)
	}
}

func maskToken(token string) string {
	switch n := len(token); {
	case n == 0:
		return "(not set)"
	case n <= 8:
		return strings.Repeat("*", n)
	default:
		return token[:4] + strings.Repeat("*", n-8) + token[n-4:]
	}
}
