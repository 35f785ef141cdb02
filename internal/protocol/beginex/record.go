package beginex

import (
	"fmt"
	"net"
	"strconv"

	"github.com/danmuck/tcpspec/internal/protocol/address"
)

// Record is a decoded begin extension with its addresses copied out.
type Record struct {
	Shape      Shape
	TypeID     int32
	Local      address.Value
	LocalPort  uint16
	Remote     address.Value
	RemotePort uint16
}

func (r Record) String() string {
	local := net.JoinHostPort(r.Local.String(), strconv.Itoa(int(r.LocalPort)))
	remote := net.JoinHostPort(r.Remote.String(), strconv.Itoa(int(r.RemotePort)))
	if r.Shape == ShapeLegacy {
		return fmt.Sprintf("%s -> %s", local, remote)
	}
	return fmt.Sprintf("type=%d %s -> %s", r.TypeID, local, remote)
}

// Config returns the configuration that encodes back to r.
func (r Record) Config() Config {
	c := Config{
		Shape:      r.Shape,
		LocalPort:  int(r.LocalPort),
		RemotePort: int(r.RemotePort),
	}
	if r.Shape == ShapeCanonical {
		id := r.TypeID
		c.TypeID = &id
	}
	c.LocalAddress = r.Local.String()
	if r.Remote.Kind() == address.KindHost {
		host, _ := r.Remote.HostString()
		c.RemoteHost = &host
	} else {
		c.RemoteAddress = r.Remote.String()
	}
	return c
}
