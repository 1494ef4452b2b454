package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"par/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var artistID uint32

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent log lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var match logs.Matcher
			if artistID != 0 {
				match = logs.ForArtist(artistID)
			}

			out := cmd.OutOrStdout()
			recent, offset, err := logs.Last(cfg.LogPath(), lines, match)
			if err != nil {
				return err
			}
			for _, line := range recent {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			err = logs.Follow(commandCtx(cmd), cfg.LogPath(), offset, 250*time.Millisecond, match, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().Uint32Var(&artistID, "artist", 0, "Only lines about this artist id")
	return cmd
}
