package address

import (
	"fmt"
	"net/netip"
	"unicode/utf8"

	"github.com/danmuck/tcpspec/internal/protocol"
)

// Value is an endpoint address: an IPv4 address, an IPv6 address or an
// unresolved host name. A Value is immutable; the zero Value is invalid.
type Value struct {
	kind Kind
	ip   [IPv6Len]byte
	host string
}

// IPv4 returns an IPv4 value holding the given network-order octets.
func IPv4(octets [IPv4Len]byte) Value {
	v := Value{kind: KindIPv4}
	copy(v.ip[:], octets[:])
	return v
}

// IPv6 returns an IPv6 value holding the given network-order octets.
func IPv6(octets [IPv6Len]byte) Value {
	return Value{kind: KindIPv6, ip: octets}
}

// Unspecified returns the all-zero IPv4 address.
func Unspecified() Value {
	return IPv4([IPv4Len]byte{})
}

// Host returns a host-name value. Names must be valid UTF-8 and no longer
// than MaxHostLen bytes.
func Host(name string) (Value, error) {
	if !utf8.ValidString(name) {
		return Value{}, protocol.MakeError("address.Host", protocol.ErrInvalidAddressFormat,
			fmt.Sprintf("host name %q is not valid UTF-8", name))
	}
	if len(name) > MaxHostLen {
		return Value{}, protocol.MakeError("address.Host", protocol.ErrPayloadTooLarge,
			fmt.Sprintf("host name is %d bytes, limit is %d", len(name), MaxHostLen))
	}
	return Value{kind: KindHost, host: name}, nil
}

// FromAddr converts an already-resolved address. IPv4 addresses become IPv4
// values, everything else (including IPv4-mapped IPv6) becomes IPv6.
func FromAddr(addr netip.Addr) (Value, error) {
	switch {
	case !addr.IsValid():
		return Value{}, protocol.MakeError("address.FromAddr", protocol.ErrInvalidAddressFormat,
			"invalid address")
	case addr.Zone() != "":
		return Value{}, protocol.MakeError("address.FromAddr", protocol.ErrInvalidAddressFormat,
			fmt.Sprintf("zoned address %s cannot be encoded", addr))
	case addr.Is4():
		return IPv4(addr.As4()), nil
	default:
		return IPv6(addr.As16()), nil
	}
}

// ParseIP parses an IPv4 or IPv6 literal. Symbolic names are not resolved.
func ParseIP(literal string) (Value, error) {
	addr, err := netip.ParseAddr(literal)
	if err != nil {
		return Value{}, protocol.Error{
			Func:        "address.ParseIP",
			Err:         protocol.ErrInvalidAddressFormat,
			Description: fmt.Sprintf("%q is not an IPv4 or IPv6 literal", literal),
		}
	}
	return FromAddr(addr)
}

// Parse selects the caller's code path: a host name when isHost is set,
// otherwise an IP literal. An empty literal means the unspecified address.
func Parse(text string, isHost bool) (Value, error) {
	if isHost {
		return Host(text)
	}
	if text == "" {
		return Unspecified(), nil
	}
	return ParseIP(text)
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind.Valid()
}

// Size is the number of bytes Put writes: the kind byte plus the payload.
func (v Value) Size() int {
	switch v.kind {
	case KindIPv4:
		return KindLen + IPv4Len
	case KindIPv6:
		return KindLen + IPv6Len
	case KindHost:
		return KindLen + HostLenLen + len(v.host)
	default:
		return 0
	}
}

func (v Value) IPv4Bytes() ([IPv4Len]byte, error) {
	if v.kind != KindIPv4 {
		return [IPv4Len]byte{}, wrongVariant("Value.IPv4Bytes", KindIPv4, v.kind)
	}
	return [IPv4Len]byte(v.ip[:IPv4Len]), nil
}

func (v Value) IPv6Bytes() ([IPv6Len]byte, error) {
	if v.kind != KindIPv6 {
		return [IPv6Len]byte{}, wrongVariant("Value.IPv6Bytes", KindIPv6, v.kind)
	}
	return v.ip, nil
}

func (v Value) HostString() (string, error) {
	if v.kind != KindHost {
		return "", wrongVariant("Value.HostString", KindHost, v.kind)
	}
	return v.host, nil
}

// Addr returns the IP form of an IPv4 or IPv6 value.
func (v Value) Addr() (netip.Addr, bool) {
	switch v.kind {
	case KindIPv4:
		return netip.AddrFrom4([IPv4Len]byte(v.ip[:IPv4Len])), true
	case KindIPv6:
		return netip.AddrFrom16(v.ip), true
	default:
		return netip.Addr{}, false
	}
}

// String renders the address the way it would be typed: an IP literal or the
// host name.
func (v Value) String() string {
	if addr, ok := v.Addr(); ok {
		return addr.String()
	}
	if v.kind == KindHost {
		return v.host
	}
	return "invalid"
}

// Put writes the kind byte and payload to the start of dst and returns the
// number of bytes written.
func (v Value) Put(dst []byte) (int, error) {
	const fn = "Value.Put"
	size := v.Size()
	if size == 0 {
		return 0, protocol.MakeError(fn, protocol.ErrMalformedAddress,
			fmt.Sprintf("cannot encode %s address", v.kind))
	}
	if len(dst) < size {
		return 0, protocol.MakeError(fn, protocol.ErrBufferOverflow,
			fmt.Sprintf("%s address needs %d bytes, %d available", v.kind, size, len(dst)))
	}
	dst[0] = byte(v.kind)
	switch v.kind {
	case KindIPv4:
		copy(dst[KindLen:size], v.ip[:IPv4Len])
	case KindIPv6:
		copy(dst[KindLen:size], v.ip[:])
	case KindHost:
		dst[KindLen] = uint8(len(v.host))
		copy(dst[KindLen+HostLenLen:size], v.host)
	}
	return size, nil
}

// MarshalBinary returns the encoded address in a new slice.
func (v Value) MarshalBinary() ([]byte, error) {
	buf := make([]byte, v.Size())
	if _, err := v.Put(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func wrongVariant(fn string, want, got Kind) error {
	return protocol.MakeError(fn, protocol.ErrWrongVariantAccess,
		fmt.Sprintf("%s accessor used on %s address", want, got))
}
