package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
	"github.com/danmuck/tcpspec/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	before := testutil.ToFloat64(codecOps.WithLabelValues("encode", "legacy", ResultOK))
	RecordEncode(beginex.ShapeLegacy, 14, nil)
	RecordDecode(beginex.ShapeCanonical, 0, protocol.MakeError("View.LocalPort", protocol.ErrTruncatedRecord, "short"))
	RecordCall("tcp:beginEx", nil)
	RecordBatch(3 * time.Millisecond)

	after := testutil.ToFloat64(codecOps.WithLabelValues("encode", "legacy", ResultOK))
	if after != before+1 {
		t.Fatalf("encode counter moved from %v to %v", before, after)
	}
}

func TestResultLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: nil, want: "ok"},
		{err: protocol.MakeError("Builder.LocalPort", protocol.ErrPortOutOfRange, "x"), want: "ErrPortOutOfRange"},
		{err: fmt.Errorf("record 2: %w", protocol.MakeError("f", protocol.ErrBufferOverflow, "x")), want: "ErrBufferOverflow"},
		{err: fmt.Errorf("View.TypeID: %w", beginex.ErrUnknownShape), want: "ErrUnknownShape"},
		{err: fmt.Errorf("boom"), want: "error"},
	}
	for _, tt := range tests {
		if got := ResultLabel(tt.err); got != tt.want {
			t.Fatalf("ResultLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestWriteText(t *testing.T) {
	testlog.Start(t)
	RecordEncode(beginex.ShapeCanonical, 18, nil)

	var buf bytes.Buffer
	if err := WriteText(&buf); err != nil {
		t.Fatalf("write text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE tcpspec_codec_operations_total counter",
		`tcpspec_codec_operations_total{op="encode",result="ok",shape="canonical"}`,
		"tcpspec_codec_record_bytes_bucket",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics text missing %q:\n%s", want, out)
		}
	}
}
