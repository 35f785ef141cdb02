package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
	"github.com/danmuck/tcpspec/internal/protocol/scratch"
	"github.com/danmuck/tcpspec/internal/testutil/testlog"
)

func configs(n int) []beginex.Config {
	out := make([]beginex.Config, n)
	for i := range out {
		id := int32(i)
		host := fmt.Sprintf("host-%d.example", i)
		out[i] = beginex.Config{
			Shape:        beginex.ShapeCanonical,
			TypeID:       &id,
			LocalAddress: "10.0.0.1",
			LocalPort:    i,
			RemoteHost:   &host,
			RemotePort:   443,
		}
	}
	return out
}

func TestEncodeAllMatchesSerial(t *testing.T) {
	testlog.Start(t)
	in := configs(200)

	got, err := EncodeAll(context.Background(), in, 8)
	require.NoError(t, err)
	require.Len(t, got, len(in))

	s := scratch.New(0)
	for i, c := range in {
		want, err := c.Encode(s)
		require.NoError(t, err)
		require.Equal(t, want, got[i], "record %d", i)
	}
}

func TestEncodeAllDefaultWorkers(t *testing.T) {
	testlog.Start(t)
	got, err := EncodeAll(context.Background(), configs(3), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	r, err := beginex.Wrap(got[2], beginex.ShapeCanonical).Record()
	require.NoError(t, err)
	require.Equal(t, int32(2), r.TypeID)
}

func TestEncodeAllEmpty(t *testing.T) {
	got, err := EncodeAll(context.Background(), nil, 4)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestEncodeAllReportsIndex(t *testing.T) {
	testlog.Start(t)
	in := configs(10)
	in[7].RemotePort = 70000

	_, err := EncodeAll(context.Background(), in, 3)
	require.ErrorIs(t, err, protocol.ErrPortOutOfRange)
	require.Contains(t, err.Error(), "record 7:")
}

func TestEncodeAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EncodeAll(ctx, configs(50), 2)
	require.ErrorIs(t, err, context.Canceled)
}
