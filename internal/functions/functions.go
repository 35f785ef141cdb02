// Package functions exposes the begin-extension codec as plain Go calls and
// as named functions under the "tcp" prefix, callable with string arguments
// from scripts and the command line.
package functions

import (
	"github.com/danmuck/tcpspec/internal/protocol/address"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
	"github.com/danmuck/tcpspec/internal/protocol/scratch"
)

var pool = scratch.NewPool(scratch.DefaultSize)

// EncodeAddress encodes a single address: a host name when isHost is set,
// otherwise an IP literal.
func EncodeAddress(text string, isHost bool) ([]byte, error) {
	v, err := address.Parse(text, isHost)
	if err != nil {
		return nil, err
	}
	return v.MarshalBinary()
}

// BuildBeginExtension encodes c using a pooled scratch buffer.
func BuildBeginExtension(c beginex.Config) ([]byte, error) {
	s := pool.Get()
	defer pool.Put(s)
	return c.Encode(s)
}

// ReadBeginExtension wraps b without copying it. The shape is not recorded in
// the bytes, so the caller must pass the one the producer used.
func ReadBeginExtension(b []byte, shape beginex.Shape) beginex.View {
	return beginex.Wrap(b, shape)
}

// BeginExtRemoteAddress encodes a legacy record from 0.0.0.0:0 to ip:port.
func BeginExtRemoteAddress(ip string, port int) ([]byte, error) {
	return BuildBeginExtension(beginex.Config{
		Shape:         beginex.ShapeLegacy,
		RemoteAddress: ip,
		RemotePort:    port,
	})
}

// BeginExtRemoteHost encodes a legacy record from 0.0.0.0:0 to host:port.
func BeginExtRemoteHost(host string, port int) ([]byte, error) {
	return BuildBeginExtension(beginex.Config{
		Shape:      beginex.ShapeLegacy,
		RemoteHost: &host,
		RemotePort: port,
	})
}

// BeginEx returns a canonical Builder with its own scratch buffer.
func BeginEx() *beginex.Builder {
	return beginex.NewBuilder(scratch.New(scratch.DefaultSize), beginex.ShapeCanonical)
}
