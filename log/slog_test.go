package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "info", want: slog.LevelInfo},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "trace", want: LevelTrace},
		{input: "warn+2", want: slog.LevelWarn + 2},
		{input: "error-1", want: slog.LevelError - 1},
		{input: "fatal", want: LevelFatal},
		{input: "verbose", wantErr: true},
		{input: "info+x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeferValue(t *testing.T) {
	var (
		buf   bytes.Buffer
		calls int
		level = new(slog.LevelVar)
		log   = slog.New(Console(&buf, level))
		hash  = DeferValue(func() slog.Value {
			calls++
			return slog.StringValue("cafe")
		})
	)

	log.Debug("skipped", slog.Any("hash", hash))
	assert.Zero(t, calls, "evaluated below enabled level")
	assert.Zero(t, buf.Len())

	level.Set(slog.LevelDebug)
	log.Debug("emitted", slog.Any("hash", hash))
	log.Debug("emitted", slog.Any("hash", hash))
	assert.Equal(t, 1, calls)
	assert.Contains(t, buf.String(), "hash=cafe")
}

func TestSetLevel(t *testing.T) {
	defer verbose.Set(verbose.Level())

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, Verbose())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	require.NoError(t, SetLevel(""))
	assert.Equal(t, slog.LevelDebug, Verbose())

	assert.Error(t, SetLevel("loud"))
}
