package beginex

import (
	"errors"
	"fmt"
	"strings"
)

const (
	TypeIDLen = 4
	PortLen   = 2
)

var ErrUnknownShape = errors.New("beginex: unknown record shape")

// Shape selects the record layout. Producers and consumers agree on it out of
// band; the bytes alone cannot tell the two apart.
type Shape uint8

const (
	// ShapeCanonical leads with a 4-byte little-endian typeId.
	ShapeCanonical Shape = iota + 1
	// ShapeLegacy starts directly at the local address kind byte.
	ShapeLegacy
)

func (s Shape) Valid() bool {
	return s == ShapeCanonical || s == ShapeLegacy
}

func (s Shape) String() string {
	switch s {
	case ShapeCanonical:
		return "canonical"
	case ShapeLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// ParseShape accepts "canonical" or "legacy".
func ParseShape(raw string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "canonical":
		return ShapeCanonical, nil
	case "legacy":
		return ShapeLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShape, raw)
	}
}

// typeIDLen is the size of the leading typeId region for the shape.
func (s Shape) typeIDLen() int {
	if s == ShapeCanonical {
		return TypeIDLen
	}
	return 0
}

// field enumerates record fields in wire order.
type field uint8

const (
	fieldNone field = iota
	fieldTypeID
	fieldLocalAddress
	fieldLocalPort
	fieldRemoteAddress
	fieldRemotePort
)

func (f field) String() string {
	switch f {
	case fieldNone:
		return "nothing"
	case fieldTypeID:
		return "typeId"
	case fieldLocalAddress:
		return "localAddress"
	case fieldLocalPort:
		return "localPort"
	case fieldRemoteAddress:
		return "remoteAddress"
	case fieldRemotePort:
		return "remotePort"
	default:
		return fmt.Sprintf("field(%d)", uint8(f))
	}
}
