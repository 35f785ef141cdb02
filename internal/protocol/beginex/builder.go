package beginex

import (
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"

	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/protocol/address"
	"github.com/danmuck/tcpspec/internal/protocol/scratch"
)

// Builder writes one record into a scratch buffer, field by field, in wire
// order. Setters chain; the first failure sticks and is returned by Build and
// Err, and every later setter becomes a no-op.
//
// A Builder writes through its scratch buffer destructively and must not be
// used from more than one goroutine.
type Builder struct {
	shape Shape
	buf   []byte
	pos   int
	last  field
	built bool
	err   error
}

// NewBuilder binds a Builder to s. The shape is fixed for the Builder's life.
func NewBuilder(s *scratch.Buffer, shape Shape) *Builder {
	return &Builder{shape: shape, buf: s.Bytes()}
}

// Reset rewinds the Builder so the same scratch buffer can hold a new record.
func (b *Builder) Reset() {
	b.pos = 0
	b.last = fieldNone
	b.built = false
	b.err = nil
}

func (b *Builder) Err() error {
	return b.err
}

// Len is the number of bytes written so far.
func (b *Builder) Len() int {
	return b.pos
}

// TypeID writes the leading typeId. Canonical records only; it must be the
// first call. Records that skip it get a typeId of 0.
func (b *Builder) TypeID(id int32) *Builder {
	const fn = "Builder.TypeID"
	if !b.usable(fn) {
		return b
	}
	if b.shape == ShapeLegacy {
		b.err = protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			"legacy records carry no typeId")
		return b
	}
	if !b.begin(fn, fieldTypeID) {
		return b
	}
	if b.putUint32(fn, uint32(id)) {
		b.last = fieldTypeID
	}
	return b
}

// LocalAddress writes an IP literal; the empty string writes 0.0.0.0.
func (b *Builder) LocalAddress(literal string) *Builder {
	v, err := address.Parse(literal, false)
	return b.address("Builder.LocalAddress", fieldLocalAddress, v, err)
}

func (b *Builder) LocalAddr(addr netip.Addr) *Builder {
	v, err := address.FromAddr(addr)
	return b.address("Builder.LocalAddr", fieldLocalAddress, v, err)
}

func (b *Builder) LocalValue(v address.Value) *Builder {
	return b.address("Builder.LocalValue", fieldLocalAddress, v, nil)
}

func (b *Builder) LocalPort(port int) *Builder {
	return b.port("Builder.LocalPort", fieldLocalPort, port)
}

// RemoteAddress writes an IP literal; the empty string writes 0.0.0.0.
func (b *Builder) RemoteAddress(literal string) *Builder {
	v, err := address.Parse(literal, false)
	return b.address("Builder.RemoteAddress", fieldRemoteAddress, v, err)
}

func (b *Builder) RemoteAddr(addr netip.Addr) *Builder {
	v, err := address.FromAddr(addr)
	return b.address("Builder.RemoteAddr", fieldRemoteAddress, v, err)
}

// RemoteHost writes an unresolved host name.
func (b *Builder) RemoteHost(host string) *Builder {
	v, err := address.Host(host)
	return b.address("Builder.RemoteHost", fieldRemoteAddress, v, err)
}

func (b *Builder) RemoteValue(v address.Value) *Builder {
	return b.address("Builder.RemoteValue", fieldRemoteAddress, v, nil)
}

func (b *Builder) RemotePort(port int) *Builder {
	return b.port("Builder.RemotePort", fieldRemotePort, port)
}

// Build returns a copy of exactly the bytes written. The scratch buffer is
// free for reuse once Build returns.
func (b *Builder) Build() ([]byte, error) {
	const fn = "Builder.Build"
	if !b.usable(fn) {
		return nil, b.err
	}
	if b.built {
		return nil, protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			"record already built, call Reset first")
	}
	if b.last != fieldRemotePort {
		return nil, protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			fmt.Sprintf("record incomplete, last field written: %s", b.lastName()))
	}
	out := make([]byte, b.pos)
	copy(out, b.buf[:b.pos])
	b.built = true
	return out, nil
}

func (b *Builder) usable(fn string) bool {
	if b.err != nil {
		return false
	}
	if !b.shape.Valid() {
		b.err = fmt.Errorf("%s: %w: %s", fn, ErrUnknownShape, b.shape)
		return false
	}
	return true
}

// begin checks that f is the next field in wire order. A canonical record
// whose typeId was skipped gets a zero typeId here.
func (b *Builder) begin(fn string, f field) bool {
	if b.built {
		b.err = protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			fmt.Sprintf("cannot write %s, record already built", f))
		return false
	}
	if f == fieldLocalAddress && b.last == fieldNone {
		if b.shape == ShapeCanonical && !b.putUint32(fn, 0) {
			return false
		}
		b.last = fieldTypeID
	}
	if b.last != f-1 {
		b.err = protocol.MakeError(fn, protocol.ErrIncompleteOrOutOfOrderRecord,
			fmt.Sprintf("cannot write %s after %s", f, b.lastName()))
		return false
	}
	return true
}

func (b *Builder) address(fn string, f field, v address.Value, err error) *Builder {
	if !b.usable(fn) || !b.begin(fn, f) {
		return b
	}
	if err != nil {
		b.err = err
		return b
	}
	n, err := v.Put(b.buf[b.pos:])
	if err != nil {
		b.err = err
		return b
	}
	b.pos += n
	b.last = f
	return b
}

func (b *Builder) port(fn string, f field, port int) *Builder {
	if !b.usable(fn) || !b.begin(fn, f) {
		return b
	}
	if port < 0 || port > math.MaxUint16 {
		b.err = protocol.MakeError(fn, protocol.ErrPortOutOfRange,
			fmt.Sprintf("port %d outside 0-%d", port, math.MaxUint16))
		return b
	}
	if !b.reserve(fn, PortLen) {
		return b
	}
	binary.LittleEndian.PutUint16(b.buf[b.pos:], uint16(port))
	b.pos += PortLen
	b.last = f
	return b
}

func (b *Builder) putUint32(fn string, v uint32) bool {
	if !b.reserve(fn, TypeIDLen) {
		return false
	}
	binary.LittleEndian.PutUint32(b.buf[b.pos:], v)
	b.pos += TypeIDLen
	return true
}

func (b *Builder) reserve(fn string, n int) bool {
	if len(b.buf)-b.pos < n {
		b.err = protocol.MakeError(fn, protocol.ErrBufferOverflow,
			fmt.Sprintf("need %d bytes at offset %d, scratch holds %d", n, b.pos, len(b.buf)))
		return false
	}
	return true
}

// lastName hides the implicit typeId of legacy records from error text.
func (b *Builder) lastName() string {
	if b.shape == ShapeLegacy && b.last == fieldTypeID {
		return fieldNone.String()
	}
	return b.last.String()
}
