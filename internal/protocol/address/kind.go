package address

import "fmt"

// Kind is the one-byte discriminant that precedes every encoded address.
type Kind uint8

const (
	KindIPv4 Kind = 1
	KindIPv6 Kind = 2
	KindHost Kind = 3
)

// Wire field lengths.
const (
	KindLen    = 1
	IPv4Len    = 4
	IPv6Len    = 16
	HostLenLen = 1
	MaxHostLen = 255

	// MaxSize is the largest encoded address: a host name of MaxHostLen bytes.
	MaxSize = KindLen + HostLenLen + MaxHostLen
)

func (k Kind) Valid() bool {
	return k == KindIPv4 || k == KindIPv6 || k == KindHost
}

func (k Kind) String() string {
	switch k {
	case KindIPv4:
		return "ipv4"
	case KindIPv6:
		return "ipv6"
	case KindHost:
		return "host"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}
