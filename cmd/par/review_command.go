package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"par/internal/services"
)

const reviewHelp = `Commands:
  n, next            show the next artist
  p, prev            show the previous artist
  j, jump <N>        jump to position N
  r, reload          refetch the artist on display
  b, bookmark <1-4>  toggle the bookmark on an illustration
  f, follow          toggle following the artist
  s, status          show the artist on display again
  h, help            show this help
  q, quit            leave`

func newReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Step through the queue interactively",
		Long:  "Step through the queue one command per line. Every artist shown is marked reviewed.\n\n" + reviewHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(runCtx context.Context, a *app) error {
				sh := &reviewShell{
					app:         a,
					in:          bufio.NewReader(cmd.InOrStdin()),
					out:         cmd.OutOrStdout(),
					errOut:      cmd.ErrOrStderr(),
					interactive: isTerminal(cmd.InOrStdin()),
				}
				return sh.run(runCtx)
			})
		},
	}
}

type reviewShell struct {
	app         *app
	in          *bufio.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
	seq         int
}

func (sh *reviewShell) run(ctx context.Context) error {
	fmt.Fprint(sh.out, renderView(sh.app.session.View()))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if sh.interactive {
			fmt.Fprint(sh.out, "par> ")
		}
		line, err := sh.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		sh.seq++
		cmdCtx := services.WithRequestID(ctx, fmt.Sprintf("review-%d", sh.seq))
		quit, cmdErr := sh.dispatch(cmdCtx, strings.Fields(line))
		if cmdErr != nil {
			if errors.Is(cmdErr, context.Canceled) || services.Fatal(cmdErr) {
				return explain(cmdErr)
			}
			fmt.Fprintf(sh.errOut, "error: %v\n", explain(cmdErr))
		}
		if quit {
			return nil
		}
	}
}

func (sh *reviewShell) dispatch(ctx context.Context, fields []string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	session := sh.app.session
	before := session.View().Index

	switch strings.ToLower(fields[0]) {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(sh.out, reviewHelp)
		return false, nil
	case "s", "status":
	case "n", "next":
		if err := session.Advance(ctx, 1); err != nil {
			return false, err
		}
		if session.View().Index == before {
			fmt.Fprintln(sh.out, "Already at the last artist.")
			return false, nil
		}
	case "p", "prev", "previous":
		if err := session.Advance(ctx, -1); err != nil {
			return false, err
		}
		if session.View().Index == before {
			fmt.Fprintln(sh.out, "Already at the first artist.")
			return false, nil
		}
	case "j", "jump":
		target, err := intArg(fields)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(sh.out, session.JumpNotice(target))
		if !confirm(sh.in, sh.out, "Continue?") {
			session.SetJumpTarget(0)
			return false, nil
		}
		session.SetJumpTarget(target)
		if err := session.JumpToTarget(ctx); err != nil {
			return false, err
		}
	case "r", "reload":
		if err := session.ReloadCurrent(ctx); err != nil {
			return false, err
		}
	case "b", "bookmark":
		slot, err := intArg(fields)
		if err != nil {
			return false, err
		}
		if err := session.ToggleBookmark(ctx, slot-1); err != nil {
			return false, err
		}
	case "f", "follow":
		if err := session.ToggleFollow(ctx); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unknown command %q (type help)", fields[0])
	}
	fmt.Fprint(sh.out, renderView(session.View()))
	return false, nil
}

func intArg(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("%s needs a number", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid number %q", fields[0], fields[1])
	}
	return n, nil
}

