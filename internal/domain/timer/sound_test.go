package timer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBellSound(t *testing.T) {
	var buf bytes.Buffer
	bell := BellSound{W: &buf}

	require.NoError(t, bell.Unlock(context.Background()))
	require.NoError(t, bell.Play(context.Background()))
	require.Equal(t, "\a", buf.String())

	require.ErrorIs(t, BellSound{}.Play(context.Background()), ErrAudioUnavailable)
}

func TestCommandSound(t *testing.T) {
	var gotName string
	var gotArgs []string

	snd := NewCommandSound("paplay --volume 65536", "/tmp/alarm.wav")
	snd.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	snd.run = func(_ context.Context, name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	require.NoError(t, snd.Unlock(context.Background()))
	require.NoError(t, snd.Play(context.Background()))
	require.Equal(t, "paplay", gotName)
	require.Equal(t, []string{"--volume", "65536", "/tmp/alarm.wav"}, gotArgs)
}

func TestCommandSound_Unavailable(t *testing.T) {
	snd := NewCommandSound("", "")
	require.ErrorIs(t, snd.Unlock(context.Background()), ErrAudioUnavailable)

	snd = NewCommandSound("nosuchplayer", "x.wav")
	snd.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	require.ErrorIs(t, snd.Unlock(context.Background()), ErrAudioUnavailable)

	snd.run = func(context.Context, string, ...string) error { return errors.New("exit status 1") }
	require.ErrorIs(t, snd.Play(context.Background()), ErrAudioUnavailable)
}
