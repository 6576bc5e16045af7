package timer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ErrAudioUnavailable indicates the completion sound cannot play. It never
// affects timer state.
var ErrAudioUnavailable = errors.New("audio unavailable")

// Sound is the completion signal.
type Sound interface {
	// Unlock prepares playback. It is called on the user-initiated Start.
	Unlock(ctx context.Context) error
	// Play rings once.
	Play(ctx context.Context) error
}

// BellSound writes the terminal bell to W.
type BellSound struct {
	W io.Writer
}

// Unlock implements Sound.
func (b BellSound) Unlock(context.Context) error {
	if b.W == nil {
		return fmt.Errorf("%w: no output", ErrAudioUnavailable)
	}
	return nil
}

// Play implements Sound.
func (b BellSound) Play(context.Context) error {
	if b.W == nil {
		return fmt.Errorf("%w: no output", ErrAudioUnavailable)
	}
	if _, err := io.WriteString(b.W, "\a"); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioUnavailable, err)
	}
	return nil
}

const playTimeout = 15 * time.Second

// CommandSound plays File through an external player such as "paplay" or
// "afplay". Command may carry arguments; File is appended last.
type CommandSound struct {
	Command string
	File    string

	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// NewCommandSound creates a CommandSound using the host PATH.
func NewCommandSound(command, file string) *CommandSound {
	return &CommandSound{
		Command:  command,
		File:     file,
		lookPath: exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Unlock checks that the player is installed.
func (c *CommandSound) Unlock(context.Context) error {
	name, _, err := c.argv()
	if err != nil {
		return err
	}
	if _, err := c.lookPath(name); err != nil {
		return fmt.Errorf("%w: %w", ErrAudioUnavailable, err)
	}
	return nil
}

// Play runs the player and waits for it to finish.
func (c *CommandSound) Play(ctx context.Context) error {
	name, args, err := c.argv()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, playTimeout)
	defer cancel()
	if err := c.run(ctx, name, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrAudioUnavailable, name, err)
	}
	return nil
}

func (c *CommandSound) argv() (string, []string, error) {
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("%w: no player command", ErrAudioUnavailable)
	}
	args := fields[1:]
	if c.File != "" {
		args = append(args, c.File)
	}
	return fields[0], args, nil
}
