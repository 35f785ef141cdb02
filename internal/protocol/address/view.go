package address

import (
	"fmt"

	"github.com/danmuck/tcpspec/internal/protocol"
)

// View is a read-only window over one encoded address. Accessors return
// sub-slices of the wrapped bytes and never copy them; callers must not
// modify what they get back.
type View struct {
	buf []byte
}

// Peek reports the kind at the start of b and how many bytes the encoded
// value occupies. It reads at most two bytes. When b is too short to know the
// full size, the returned size is the number of bytes needed to learn it, so
// callers can compare it against what they hold.
func Peek(b []byte) (Kind, int, error) {
	if len(b) < KindLen {
		return 0, KindLen, nil
	}
	k := Kind(b[0])
	switch k {
	case KindIPv4:
		return k, KindLen + IPv4Len, nil
	case KindIPv6:
		return k, KindLen + IPv6Len, nil
	case KindHost:
		if len(b) < KindLen+HostLenLen {
			return k, KindLen + HostLenLen, nil
		}
		return k, KindLen + HostLenLen + int(b[KindLen]), nil
	default:
		return k, 0, protocol.MakeError("address.Peek", protocol.ErrMalformedAddress,
			fmt.Sprintf("unknown address kind %d", uint8(k)))
	}
}

// Wrap binds a View to the encoded address at the start of b. Bytes after the
// address are ignored.
func Wrap(b []byte) (View, error) {
	_, size, err := Peek(b)
	if err != nil {
		return View{}, err
	}
	if size > len(b) {
		return View{}, protocol.MakeError("address.Wrap", protocol.ErrMalformedAddress,
			fmt.Sprintf("encoded address needs %d bytes, %d available", size, len(b)))
	}
	return View{buf: b[:size:size]}, nil
}

// Decode reads the address at the start of b and returns it along with the
// number of bytes it occupied.
func Decode(b []byte) (Value, int, error) {
	v, err := Wrap(b)
	if err != nil {
		return Value{}, 0, err
	}
	return v.Value(), v.SizeOf(), nil
}

func (v View) Kind() Kind {
	if len(v.buf) == 0 {
		return 0
	}
	return Kind(v.buf[0])
}

// SizeOf is the number of bytes the address occupies, kind byte included.
func (v View) SizeOf() int {
	return len(v.buf)
}

// Bytes returns the encoded address.
func (v View) Bytes() []byte {
	return v.buf
}

func (v View) IPv4Bytes() ([]byte, error) {
	if k := v.Kind(); k != KindIPv4 {
		return nil, wrongVariant("View.IPv4Bytes", KindIPv4, k)
	}
	return v.buf[KindLen:], nil
}

func (v View) IPv6Bytes() ([]byte, error) {
	if k := v.Kind(); k != KindIPv6 {
		return nil, wrongVariant("View.IPv6Bytes", KindIPv6, k)
	}
	return v.buf[KindLen:], nil
}

func (v View) HostString() (string, error) {
	if k := v.Kind(); k != KindHost {
		return "", wrongVariant("View.HostString", KindHost, k)
	}
	return string(v.buf[KindLen+HostLenLen:]), nil
}

// Value copies the address out of the wrapped bytes.
func (v View) Value() Value {
	switch v.Kind() {
	case KindIPv4:
		return IPv4([IPv4Len]byte(v.buf[KindLen:]))
	case KindIPv6:
		return IPv6([IPv6Len]byte(v.buf[KindLen:]))
	case KindHost:
		return Value{kind: KindHost, host: string(v.buf[KindLen+HostLenLen:])}
	default:
		return Value{}
	}
}

func (v View) String() string {
	return v.Value().String()
}
