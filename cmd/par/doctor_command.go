package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"par/internal/preflight"
	"par/internal/remote"
	"par/internal/store"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the provider, and the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			var st *store.Store
			if opened, err := store.Open(cfg); err == nil {
				st = opened
				defer st.Close()
			}
			var provider remote.Provider
			if p, err := remote.New(cfg, logger); err == nil {
				provider = p
			}

			out := cmd.OutOrStdout()
			results := preflight.RunAll(commandCtx(cmd), cfg, st, provider)
			for _, r := range results {
				fmt.Fprintln(out, checkLine(out, r))
			}
			if !preflight.AllPassed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
