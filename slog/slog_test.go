package slog

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goyave.dev/negotiator/util/errors"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	records := []map[string]any{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		record := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &record))
		records = append(records, record)
	}
	return records
}

func TestLogger(t *testing.T) {
	t.Run("Error_std", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(slog.NewJSONHandler(buf, nil))
		l.Error(stderrors.New("std error"), "key", "value")

		records := decodeRecords(t, buf)
		require.Len(t, records, 1)
		assert.Equal(t, "std error", records[0]["msg"])
		assert.Equal(t, "ERROR", records[0]["level"])
		assert.Equal(t, "value", records[0]["key"])
		assert.NotContains(t, records[0], "trace")
	})

	t.Run("Error_with_trace", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(slog.NewJSONHandler(buf, nil))
		l.Error(errors.New([]any{"reason1", stderrors.New("reason2")}))

		records := decodeRecords(t, buf)
		require.Len(t, records, 2)
		assert.Equal(t, "reason1", records[0]["msg"])
		assert.Equal(t, "reason1", records[0]["reason"])
		assert.Contains(t, records[0]["trace"], "slog.TestLogger")
		assert.Equal(t, "reason2", records[1]["msg"])
		assert.Contains(t, records[1], "trace")
	})

	t.Run("Error_joined", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(slog.NewJSONHandler(buf, nil))
		l.Error(stderrors.Join(stderrors.New("a"), stderrors.New("b")))

		records := decodeRecords(t, buf)
		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0]["msg"])
		assert.Equal(t, "b", records[1]["msg"])
	})

	t.Run("Error_disabled", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.Level(12)}))
		l.Error(stderrors.New("hidden"))
		assert.Empty(t, buf.String())
	})

	t.Run("With", func(t *testing.T) {
		buf := &bytes.Buffer{}
		l := New(slog.NewJSONHandler(buf, nil)).With("component", "negotiator")
		l.Info("message")

		records := decodeRecords(t, buf)
		require.Len(t, records, 1)
		assert.Equal(t, "negotiator", records[0]["component"])
	})
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "debug", want: slog.LevelDebug},
		{name: "info", want: slog.LevelInfo},
		{name: "WARN", want: slog.LevelWarn},
		{name: "error", want: slog.LevelError},
		{name: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			level, err := ParseLevel(c.name)
			if c.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, c.want, level)
		})
	}
}
