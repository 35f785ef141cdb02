package beginex

import (
	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/protocol/scratch"
)

// Config describes one record in caller terms. Exactly one of RemoteAddress
// and RemoteHost is set; a non-nil RemoteHost selects the host form even when
// it points at an empty name. A nil TypeID encodes as 0 in canonical records
// and must stay nil for legacy ones.
type Config struct {
	Shape         Shape
	TypeID        *int32
	LocalAddress  string
	LocalPort     int
	RemoteAddress string
	RemoteHost    *string
	RemotePort    int
}

// Validate checks the remote selection without encoding anything.
func (c Config) Validate() error {
	const fn = "Config.Validate"
	if c.RemoteAddress != "" && c.RemoteHost != nil {
		return protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			"both remote address and remote host set")
	}
	if c.RemoteAddress == "" && c.RemoteHost == nil {
		return protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			"one of remote address or remote host is required")
	}
	return nil
}

// Encode builds the record in s and returns an owned copy.
func (c Config) Encode(s *scratch.Buffer) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := NewBuilder(s, c.Shape)
	if c.TypeID != nil {
		b.TypeID(*c.TypeID)
	}
	b.LocalAddress(c.LocalAddress).LocalPort(c.LocalPort)
	if c.RemoteHost != nil {
		b.RemoteHost(*c.RemoteHost)
	} else {
		b.RemoteAddress(c.RemoteAddress)
	}
	return b.RemotePort(c.RemotePort).Build()
}
