package slog

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler(t *testing.T) {
	t.Run("dev_mode", func(t *testing.T) {
		buf := &bytes.Buffer{}
		want := &DevModeHandler{w: buf, mu: &sync.Mutex{}, opts: &DevModeHandlerOptions{Level: slog.LevelDebug}}
		assert.Equal(t, want, NewHandler(true, slog.LevelError, buf))
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		want := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn, AddSource: true})
		assert.Equal(t, want, NewHandler(false, slog.LevelWarn, buf))
	})
}

func TestDevModeHandler(t *testing.T) {
	t.Run("New_nil_options", func(t *testing.T) {
		buf := &bytes.Buffer{}
		assert.Equal(t, &DevModeHandler{w: buf, mu: &sync.Mutex{}, opts: &DevModeHandlerOptions{}}, NewDevModeHandler(buf, nil))
	})

	t.Run("Enabled", func(t *testing.T) {
		cases := []struct {
			opts  *DevModeHandlerOptions
			level slog.Level
			want  bool
		}{
			{opts: &DevModeHandlerOptions{}, level: slog.LevelDebug, want: false},
			{opts: &DevModeHandlerOptions{}, level: slog.LevelInfo, want: true},
			{opts: &DevModeHandlerOptions{Level: slog.LevelDebug}, level: slog.LevelDebug, want: true},
			{opts: &DevModeHandlerOptions{Level: slog.LevelError}, level: slog.LevelWarn, want: false},
			{opts: &DevModeHandlerOptions{Level: slog.LevelError}, level: slog.LevelError, want: true},
		}

		for _, c := range cases {
			t.Run(fmt.Sprintf("%s_%s", c.opts.Level, c.level), func(t *testing.T) {
				h := NewDevModeHandler(&bytes.Buffer{}, c.opts)
				assert.Equal(t, c.want, h.Enabled(context.Background(), c.level))
			})
		}
	})

	t.Run("Handle", func(t *testing.T) {
		buf := &bytes.Buffer{}
		var h slog.Handler = NewDevModeHandler(buf, nil)
		h = h.WithAttrs([]slog.Attr{slog.String("available", "text/html")})
		h = h.WithGroup("request")

		r := slog.NewRecord(time.Date(2024, time.March, 2, 15, 4, 5, 0, time.UTC), slog.LevelWarn, "not acceptable", 0)
		r.AddAttrs(
			slog.String("accept", "fairy/dust"),
			slog.Group("details", slog.Int("count", 1)),
			slog.String("trace", "line1\nline2"),
		)
		require.NoError(t, h.Handle(context.Background(), r))

		want := "\n[" + YellowBold + "WARN" + Reset + "] 2024/03/02 15:04:05\n" +
			Yellow + "not acceptable" + Reset + "\n" +
			WhiteBold + "request:\n" + Reset +
			Indent + WhiteBold + "available: " + Reset + "text/html\n" +
			Indent + WhiteBold + "accept: " + Reset + "fairy/dust\n" +
			Indent + WhiteBold + "details: " + Reset + "\n" +
			Indent + Indent + WhiteBold + "count: " + Reset + "1\n" +
			Indent + WhiteBold + "trace: " + Reset + "\n" + Indent + "line1\nline2\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("WithAttrs_does_not_alter_parent", func(t *testing.T) {
		h := NewDevModeHandler(&bytes.Buffer{}, nil)
		child := h.WithAttrs([]slog.Attr{slog.String("a", "b")}).(*DevModeHandler)
		assert.Empty(t, h.attrs)
		assert.Len(t, child.attrs, 1)
		assert.Same(t, h.mu, child.mu)

		assert.Same(t, h, h.WithGroup(""))
	})
}
