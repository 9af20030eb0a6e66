package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	cfgPath := writeConfig(t, `{"negotiation": {"available": ["text/html", "application/json"]}, "log": {"level": "debug"}}`)

	cases := []struct {
		desc       string
		args       []string
		wantStdout string
		wantCode   int
	}{
		{desc: "accept_header", args: []string{"-config", cfgPath, "-accept", "fairy/dust, text/html;q=0.5, application/json;q=0.8"}, wantStdout: "application/json\n", wantCode: exitOK},
		{desc: "args_order", args: []string{"-config", cfgPath, "fairy/dust", "application/json", "text/html"}, wantStdout: "application/json\n", wantCode: exitOK},
		{desc: "empty_accept", args: []string{"-config", cfgPath}, wantStdout: "*/*\n", wantCode: exitOK},
		{desc: "not_acceptable", args: []string{"-config", cfgPath, "fairy/dust"}, wantCode: exitNotAcceptable},
		{desc: "zero_quality_rejected", args: []string{"-config", cfgPath, "-accept", "text/html;q=0"}, wantCode: exitNotAcceptable},
		{desc: "malformed_arg", args: []string{"-config", cfgPath, "no-slash-here"}, wantCode: exitError},
		{desc: "malformed_accept_entry_ignored", args: []string{"-config", cfgPath, "-accept", "no-slash-here, text/*"}, wantStdout: "text/*\n", wantCode: exitOK},
		{desc: "available_override", args: []string{"-config", cfgPath, "-available", "image/png, image/webp", "image/*"}, wantStdout: "image/*\n", wantCode: exitOK},
		{desc: "invalid_available_override", args: []string{"-config", cfgPath, "-available", "png", "image/*"}, wantCode: exitError},
		{desc: "scalar_available_config", args: []string{"-config", writeConfig(t, `{"negotiation": {"available": "text/html"}}`), "text/html"}, wantCode: exitError},
		{desc: "missing_config", args: []string{"-config", filepath.Join(t.TempDir(), "missing.json")}, wantCode: exitError},
		{desc: "unknown_flag", args: []string{"-unknown"}, wantCode: exitError},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			stdout := &bytes.Buffer{}
			stderr := &bytes.Buffer{}
			code := run(c.args, stdout, stderr)
			assert.Equal(t, c.wantCode, code, stderr.String())
			assert.Equal(t, c.wantStdout, stdout.String())
		})
	}
}

func TestRunZeroQualityKept(t *testing.T) {
	cfgPath := writeConfig(t, `{"negotiation": {"rejectZeroQuality": false}}`)
	stdout := &bytes.Buffer{}
	code := run([]string{"-config", cfgPath, "-accept", "text/html;q=0"}, stdout, &bytes.Buffer{})
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "text/html\n", stdout.String())
}

func TestRunNotAcceptableLogged(t *testing.T) {
	cfgPath := writeConfig(t, `{}`)
	stderr := &bytes.Buffer{}
	code := run([]string{"-config", cfgPath, "fairy/dust"}, &bytes.Buffer{}, stderr)
	assert.Equal(t, exitNotAcceptable, code)
	assert.Contains(t, stderr.String(), `"msg":"not acceptable"`)
	assert.Contains(t, stderr.String(), `"requested":["fairy/dust"]`)
	assert.Contains(t, stderr.String(), `"available":["text/html","application/json"]`)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"image/png", "image/webp"}, splitList(" image/png, ,image/webp,"))
	assert.Empty(t, splitList(""))
}
