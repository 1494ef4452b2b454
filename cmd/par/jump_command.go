package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newJumpCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "jump <position>",
		Short: "Jump to a queue position, rewriting reviewed flags",
		Long: "Jump to the 1-based queue position. Every artist before it is marked\n" +
			"reviewed and every artist after it is marked not reviewed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			return ctx.withSession(cmd, func(runCtx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, a.session.JumpNotice(target))
				in := bufio.NewReader(cmd.InOrStdin())
				if !assumeYes && !confirm(in, out, "Continue?") {
					fmt.Fprintln(out, "Jump cancelled.")
					return nil
				}
				a.session.SetJumpTarget(target)
				if err := a.session.JumpToTarget(runCtx); err != nil {
					return explain(err)
				}
				return printView(cmd, a, jsonOutput)
			})
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Rebuild the queue from the provider and clear the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				if !a.session.Settings().CredentialValid(runCtx) {
					return errCredentialRequired
				}
				out := cmd.OutOrStdout()
				in := bufio.NewReader(cmd.InOrStdin())
				if !assumeYes && !confirm(in, out, "Discard review progress and cached artists?") {
					fmt.Fprintln(out, "Reset cancelled.")
					return nil
				}
				if err := a.session.FullReset(runCtx); err != nil {
					return explain(err)
				}
				fmt.Fprintf(out, "Queue rebuilt with %d artists.\n", a.session.View().Total)
				fmt.Fprint(out, renderView(a.session.View()))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation")
	return cmd
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
