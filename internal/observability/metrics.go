package observability

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/danmuck/tcpspec/internal/protocol"
	"github.com/danmuck/tcpspec/internal/protocol/beginex"
)

const ResultOK = "ok"

var (
	registerOnce sync.Once

	// Registry holds the codec metrics, separate from the default registerer.
	Registry = prometheus.NewRegistry()

	codecOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tcpspec",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Begin-extension encode and decode operations by outcome.",
		},
		[]string{"op", "shape", "result"},
	)
	recordBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tcpspec",
			Subsystem: "codec",
			Name:      "record_bytes",
			Help:      "Size of successfully processed records.",
			Buckets:   prometheus.LinearBuckets(16, 64, 9),
		},
		[]string{"op", "shape"},
	)
	functionCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tcpspec",
			Subsystem: "functions",
			Name:      "calls_total",
			Help:      "Named tcp function invocations by outcome.",
		},
		[]string{"function", "result"},
	)
	batchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tcpspec",
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Wall time of batch encodes.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		Registry.MustRegister(codecOps, recordBytes, functionCalls, batchDuration)
	})
}

// ResultLabel maps an error to its codec kind, "ok" for nil.
func ResultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	var perr protocol.Error
	if errors.As(err, &perr) {
		var kind protocol.ErrorKind
		if errors.As(perr.Err, &kind) {
			return string(kind)
		}
	}
	if errors.Is(err, beginex.ErrUnknownShape) {
		return "ErrUnknownShape"
	}
	return "error"
}

func RecordEncode(shape beginex.Shape, size int, err error) {
	recordCodec("encode", shape, size, err)
}

func RecordDecode(shape beginex.Shape, size int, err error) {
	recordCodec("decode", shape, size, err)
}

func recordCodec(op string, shape beginex.Shape, size int, err error) {
	RegisterMetrics()
	codecOps.WithLabelValues(op, shape.String(), ResultLabel(err)).Inc()
	if err == nil {
		recordBytes.WithLabelValues(op, shape.String()).Observe(float64(size))
	}
}

func RecordCall(function string, err error) {
	RegisterMetrics()
	functionCalls.WithLabelValues(function, ResultLabel(err)).Inc()
}

func RecordBatch(duration time.Duration) {
	RegisterMetrics()
	batchDuration.Observe(duration.Seconds())
}

// WriteText writes every registered metric in the prometheus text format.
func WriteText(w io.Writer) error {
	RegisterMetrics()
	families, err := Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
