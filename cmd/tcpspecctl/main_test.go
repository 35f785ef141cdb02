package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/testutil/testlog"
)

func TestParseFlags(t *testing.T) {
	opts := parseFlags([]string{"-mode", "call", "-fn", "tcp:beginExtRemoteHost", "localhost", "8080"})
	require.Equal(t, "call", opts.mode)
	require.Equal(t, "tcp:beginExtRemoteHost", opts.fn)
	require.Equal(t, []string{"localhost", "8080"}, opts.args)
	require.Equal(t, "canonical", opts.shape)
}

func TestTemplateThenEncode(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "records.toml")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{mode: "template", shape: "legacy", output: path}, &out))
	require.Contains(t, out.String(), path)

	out.Reset()
	require.NoError(t, run(context.Background(), options{mode: "encode", config: path, metrics: true}, &out))

	text := out.String()
	require.Contains(t, text, "remote-address\t01000000000000017f000001901f\n")
	require.Contains(t, text, "remote-host\t")
	require.Contains(t, text, "tcpspec_codec_operations_total")
}

func TestDecode(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	err := run(context.Background(), options{
		mode:  "decode",
		shape: "legacy",
		hex:   "01000000000000037f000001901f",
	}, &out)
	require.ErrorIs(t, err, protocol.ErrTruncatedRecord)

	out.Reset()
	require.NoError(t, run(context.Background(), options{
		mode:  "decode",
		shape: "legacy",
		hex:   "01000000000000017f000001901fff",
	}, &out))
	require.Equal(t, "0.0.0.0:0 -> 127.0.0.1:8080\n", out.String())
}

func TestCall(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{
		mode: "call",
		fn:   "tcp:beginExtRemoteHost",
		args: []string{"localhost", "8080"},
	}, &out))
	require.Equal(t, "0100000000000003096c6f63616c686f7374901f\n", out.String())

	err := run(context.Background(), options{mode: "call"}, &out)
	require.Error(t, err)
}

func TestList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{mode: "list"}, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Contains(t, lines, "tcp:beginEx")
	require.Len(t, lines, 5)
}

func TestUnknownMode(t *testing.T) {
	require.Error(t, run(context.Background(), options{mode: "serve"}, &bytes.Buffer{}))
}
