package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/rpggio/chunking/internal/app"
	"github.com/rpggio/chunking/internal/domain/timer"
	"github.com/rpggio/chunking/internal/render"
	"github.com/spf13/cobra"
)

func newTimerCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "timer <minutes> <seconds>",
		Short: "Run the focus timer in the foreground",
		Long:  "Count down, printing MM:SS every second, and ring once at zero. Ctrl-C pauses and exits.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid minutes %q", args[0])
			}
			seconds, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid seconds %q", args[1])
			}

			// The bell rings from the timer goroutine.
			out := &syncWriter{w: cmd.OutOrStdout()}
			sound := app.NewSound(c.cfg)
			if c.cfg.Sound.Command == "" {
				sound = timer.BellSound{W: out}
			}

			done := make(chan struct{})
			var once sync.Once
			tm := timer.New(
				timer.WithSound(sound),
				timer.WithLogger(c.logger),
				timer.WithExpireHook(func() { once.Do(func() { close(done) }) }),
			)
			defer tm.Close()

			if !tm.SetTime(minutes, seconds) {
				return fmt.Errorf("timer needs a positive duration")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tm.Start(ctx)
			err = watchTimer(ctx, tm, done, func(s timer.Snapshot) {
				fmt.Fprintf(out, "\r%s", render.Timer(s))
			})
			fmt.Fprintln(out)
			return err
		},
	}
}

// watchTimer redraws the display until the run expires or ctx ends. On
// cancellation the timer is paused and the remaining time is printed.
func watchTimer(ctx context.Context, tm *timer.Timer, done <-chan struct{}, draw func(timer.Snapshot)) error {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var last timer.Snapshot
	redraw := func() {
		if s := tm.Snapshot(); s != last {
			last = s
			draw(s)
		}
	}
	redraw()

	for {
		select {
		case <-done:
			redraw()
			return nil
		case <-ctx.Done():
			tm.Pause()
			redraw()
			return nil
		case <-ticker.C:
			redraw()
		}
	}
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
