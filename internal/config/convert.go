package config

import (
	"fmt"

	"golang.org/x/net/idna"

	"github.com/danmuck/tcpspec/internal/protocol/beginex"
)

// BeginExConfigs converts every record to a codec configuration. With IDNA
// set, remote hosts are converted to their ASCII form first.
func (f File) BeginExConfigs() ([]beginex.Config, error) {
	out := make([]beginex.Config, 0, len(f.Records))
	for _, r := range f.Records {
		host := r.RemoteHost
		if f.IDNA && host != nil && *host != "" {
			ascii, err := idna.Lookup.ToASCII(*host)
			if err != nil {
				return nil, fmt.Errorf("record %q: idna: %w", r.Name, err)
			}
			host = &ascii
		}
		out = append(out, beginex.Config{
			Shape:         f.Shape,
			TypeID:        r.TypeID,
			LocalAddress:  r.LocalAddress,
			LocalPort:     r.LocalPort,
			RemoteAddress: r.RemoteAddress,
			RemoteHost:    host,
			RemotePort:    r.RemotePort,
		})
	}
	return out, nil
}

// Names returns record names in file order.
func (f File) Names() []string {
	names := make([]string, len(f.Records))
	for i, r := range f.Records {
		names[i] = r.Name
	}
	return names
}
