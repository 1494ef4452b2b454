package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the first artist not yet reviewed",
		Long: "Show the artist right after the last reviewed one and mark it reviewed.\n" +
			"The queue is built from the provider on first use.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(_ context.Context, a *app) error {
				return printView(cmd, a, jsonOutput)
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newReloadCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Refetch the first unreviewed artist, bypassing the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(runCtx context.Context, a *app) error {
				if err := a.session.ReloadCurrent(runCtx); err != nil {
					return explain(err)
				}
				return printView(cmd, a, jsonOutput)
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func printView(cmd *cobra.Command, a *app, jsonOutput bool) error {
	view := a.session.View()
	if jsonOutput {
		return writeJSON(cmd, viewToJSON(view))
	}
	fmt.Fprint(cmd.OutOrStdout(), renderView(view))
	return nil
}
