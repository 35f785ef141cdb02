package beginex

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/protocol/address"
)

// View reads a record in place. Each accessor walks the fields in wire order
// up to the one it needs; nothing is cached and nothing is copied.
type View struct {
	shape Shape
	buf   []byte
}

// Wrap binds a View to b. Bytes past the end of the record are ignored.
func Wrap(b []byte, shape Shape) View {
	return View{shape: shape, buf: b}
}

func (v View) Shape() Shape {
	return v.shape
}

// TypeID returns the leading typeId. Legacy records report 0.
func (v View) TypeID() (int32, error) {
	const fn = "View.TypeID"
	if err := v.check(fn); err != nil {
		return 0, err
	}
	if v.shape == ShapeLegacy {
		return 0, nil
	}
	if len(v.buf) < TypeIDLen {
		return 0, truncated(fn, "typeId", TypeIDLen, len(v.buf))
	}
	return int32(binary.LittleEndian.Uint32(v.buf)), nil
}

func (v View) LocalAddress() (address.View, error) {
	a, _, err := v.addressAt("View.LocalAddress", v.shape.typeIDLen(), "localAddress")
	return a, err
}

func (v View) LocalPort() (uint16, error) {
	const fn = "View.LocalPort"
	off, err := v.offset(fn, fieldLocalPort)
	if err != nil {
		return 0, err
	}
	return v.portAt(fn, off, "localPort")
}

func (v View) RemoteAddress() (address.View, error) {
	const fn = "View.RemoteAddress"
	off, err := v.offset(fn, fieldRemoteAddress)
	if err != nil {
		return address.View{}, err
	}
	a, _, err := v.addressAt(fn, off, "remoteAddress")
	return a, err
}

func (v View) RemotePort() (uint16, error) {
	const fn = "View.RemotePort"
	off, err := v.offset(fn, fieldRemotePort)
	if err != nil {
		return 0, err
	}
	return v.portAt(fn, off, "remotePort")
}

// SizeOf is the length of the record, which may be shorter than the wrapped
// span.
func (v View) SizeOf() (int, error) {
	const fn = "View.SizeOf"
	off, err := v.offset(fn, fieldRemotePort)
	if err != nil {
		return 0, err
	}
	if len(v.buf)-off < PortLen {
		return 0, truncated(fn, "remotePort", off+PortLen, len(v.buf))
	}
	return off + PortLen, nil
}

// Bytes returns the record without any trailing bytes.
func (v View) Bytes() ([]byte, error) {
	n, err := v.SizeOf()
	if err != nil {
		return nil, err
	}
	return v.buf[:n:n], nil
}

// Record copies every field out of the wrapped bytes.
func (v View) Record() (Record, error) {
	r := Record{Shape: v.shape}
	var err error
	if r.TypeID, err = v.TypeID(); err != nil {
		return Record{}, err
	}
	local, err := v.LocalAddress()
	if err != nil {
		return Record{}, err
	}
	if r.LocalPort, err = v.LocalPort(); err != nil {
		return Record{}, err
	}
	remote, err := v.RemoteAddress()
	if err != nil {
		return Record{}, err
	}
	if r.RemotePort, err = v.RemotePort(); err != nil {
		return Record{}, err
	}
	r.Local = local.Value()
	r.Remote = remote.Value()
	return r, nil
}

func (v View) check(fn string) error {
	if !v.shape.Valid() {
		return fmt.Errorf("%s: %w: %s", fn, ErrUnknownShape, v.shape)
	}
	return nil
}

// offset walks from the start of the record to the first byte of f.
func (v View) offset(fn string, f field) (int, error) {
	if err := v.check(fn); err != nil {
		return 0, err
	}
	off := v.shape.typeIDLen()
	if len(v.buf) < off {
		return 0, truncated(fn, "typeId", off, len(v.buf))
	}
	for cur := fieldLocalAddress; cur < f; cur++ {
		switch cur {
		case fieldLocalAddress, fieldRemoteAddress:
			_, end, err := v.addressAt(fn, off, cur.String())
			if err != nil {
				return 0, err
			}
			off = end
		case fieldLocalPort:
			if len(v.buf)-off < PortLen {
				return 0, truncated(fn, cur.String(), off+PortLen, len(v.buf))
			}
			off += PortLen
		}
	}
	return off, nil
}

func (v View) addressAt(fn string, off int, name string) (address.View, int, error) {
	if err := v.check(fn); err != nil {
		return address.View{}, 0, err
	}
	if off > len(v.buf) {
		return address.View{}, 0, truncated(fn, name, off, len(v.buf))
	}
	_, size, err := address.Peek(v.buf[off:])
	if err != nil {
		return address.View{}, 0, err
	}
	if off+size > len(v.buf) {
		return address.View{}, 0, truncated(fn, name, off+size, len(v.buf))
	}
	a, err := address.Wrap(v.buf[off:])
	if err != nil {
		return address.View{}, 0, err
	}
	return a, off + a.SizeOf(), nil
}

func (v View) portAt(fn string, off int, name string) (uint16, error) {
	if len(v.buf)-off < PortLen {
		return 0, truncated(fn, name, off+PortLen, len(v.buf))
	}
	return binary.LittleEndian.Uint16(v.buf[off:]), nil
}

func truncated(fn, name string, need, have int) error {
	return protocol.MakeError(fn, protocol.ErrTruncatedRecord,
		fmt.Sprintf("%s needs %d bytes, record holds %d", name, need, have))
}
