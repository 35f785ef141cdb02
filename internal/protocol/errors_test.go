package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindMatching(t *testing.T) {
	err := MakeError("View.LocalPort", ErrTruncatedRecord, "localPort needs 9 bytes, record holds 7")

	if !errors.Is(err, ErrTruncatedRecord) {
		t.Fatalf("expected ErrTruncatedRecord, got %v", err)
	}
	if errors.Is(err, ErrMalformedAddress) {
		t.Fatalf("unexpected match on ErrMalformedAddress")
	}

	wrapped := fmt.Errorf("record 3: %w", err)
	var perr Error
	if !errors.As(wrapped, &perr) {
		t.Fatalf("errors.As failed through wrap")
	}
	if perr.Func != "View.LocalPort" {
		t.Fatalf("unexpected func %q", perr.Func)
	}
	if !errors.Is(wrapped, ErrTruncatedRecord) {
		t.Fatalf("kind lost through wrap")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  Error
		want string
	}{
		{
			name: "with func",
			err:  MakeError("Builder.LocalPort", ErrPortOutOfRange, "port 70000 outside 0-65535"),
			want: "Builder.LocalPort: port 70000 outside 0-65535",
		},
		{
			name: "without func",
			err:  Error{Err: ErrBufferOverflow, Description: "scratch full"},
			want: "scratch full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorKindString(t *testing.T) {
	if got := ErrIncompleteOrOutOfOrderRecord.Error(); got != "ErrIncompleteOrOutOfOrderRecord" {
		t.Fatalf("unexpected kind string %q", got)
	}
}
