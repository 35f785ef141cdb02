package protocol

// ErrorKind identifies a kind of codec error. It supports errors.Is and
// errors.As, so callers can check an error against a kind directly.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidAddressFormat is returned when an address literal does not
	// parse as IPv4 or IPv6, or a host name is not valid UTF-8.
	ErrInvalidAddressFormat = ErrorKind("ErrInvalidAddressFormat")

	// ErrPayloadTooLarge is returned when a host name is longer than 255
	// bytes once UTF-8 encoded.
	ErrPayloadTooLarge = ErrorKind("ErrPayloadTooLarge")

	// ErrBufferOverflow is returned when the destination buffer has no room
	// for the next field.
	ErrBufferOverflow = ErrorKind("ErrBufferOverflow")

	// ErrWrongVariantAccess is returned when a payload accessor does not
	// match the address kind.
	ErrWrongVariantAccess = ErrorKind("ErrWrongVariantAccess")

	// ErrMalformedAddress is returned when an encoded address has an unknown
	// kind or a payload that runs past the available bytes.
	ErrMalformedAddress = ErrorKind("ErrMalformedAddress")

	// ErrTruncatedRecord is returned when a field offset lies beyond the
	// wrapped record.
	ErrTruncatedRecord = ErrorKind("ErrTruncatedRecord")

	// ErrIncompleteOrOutOfOrderRecord is returned when builder fields are
	// written twice, out of order, or not at all before Build.
	ErrIncompleteOrOutOfOrderRecord = ErrorKind("ErrIncompleteOrOutOfOrderRecord")

	// ErrPortOutOfRange is returned for ports outside 0-65535.
	ErrPortOutOfRange = ErrorKind("ErrPortOutOfRange")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error describes a codec failure. Err holds the ErrorKind and Func names the
// operation that detected it.
type Error struct {
	Func        string
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Func == "" {
		return e.Description
	}
	return e.Func + ": " + e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// MakeError creates an Error given a set of arguments.
func MakeError(fn string, kind ErrorKind, desc string) Error {
	return Error{Func: fn, Err: kind, Description: desc}
}
