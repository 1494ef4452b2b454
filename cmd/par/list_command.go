package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"par/internal/queue"
)

type listEntryJSON struct {
	Position int    `json:"position"`
	ArtistID uint32 `json:"artist_id"`
	Reviewed bool   `json:"reviewed"`
	Name     string `json:"name,omitempty"`
	Cached   bool   `json:"cached"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the review queue",
		Long:  "List the review queue without fetching or marking anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, func(runCtx context.Context, a *app) error {
				q, err := queue.Load(runCtx, a.store, a.logger)
				if errors.Is(err, queue.ErrAbsent) {
					fmt.Fprintln(cmd.OutOrStdout(), "No queue yet; run `par show` to build it.")
					return nil
				}
				if err != nil {
					return explain(err)
				}

				watermark := queue.LocateWatermark(q)
				entries := make([]listEntryJSON, 0, q.Len())
				for i, e := range q.Entries() {
					if pending && e.Reviewed {
						continue
					}
					item := listEntryJSON{Position: i + 1, ArtistID: e.ArtistID, Reviewed: e.Reviewed}
					if rec, ok := a.cache.Lookup(runCtx, e.ArtistID); ok {
						item.Name = rec.Summary.DisplayName
						item.Cached = true
					}
					entries = append(entries, item)
				}
				if jsonOutput {
					return writeJSON(cmd, entries)
				}

				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					marker := ""
					if e.Position-1 == watermark {
						marker = ">"
					}
					rows = append(rows, []string{
						marker,
						strconv.Itoa(e.Position),
						strconv.FormatUint(uint64(e.ArtistID), 10),
						e.Name,
						yesNo(e.Reviewed),
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(
					[]string{"", "#", "Artist", "Name", "Reviewed"},
					rows, 1, 2,
				))
				reviewed, remaining := q.Counts()
				fmt.Fprintf(out, "%d reviewed, %d remaining\n", reviewed, remaining)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&pending, "pending", false, "Only list artists not yet reviewed")
	return cmd
}
