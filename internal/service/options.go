package service

import (
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("textapi/internal/service")

// Recorder receives service-level measurements.
type Recorder interface {
	ObserveAnalysis(operation string, err error, elapsed time.Duration)
	ObserveUpload(size int64, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAnalysis(string, error, time.Duration) {}
func (nopRecorder) ObserveUpload(int64, error)                   {}

type options struct {
	recorder Recorder
	newID    func() string
	now      func() time.Time
}

// Option customizes a service.
type Option func(*options)

// WithRecorder sends measurements to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithIDGenerator overrides the record ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock overrides the creation timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.now = fn }
}

func newOptions(opts []Option) options {
	o := options{
		recorder: nopRecorder{},
		newID:    newULID,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newULID returns a lexically sortable ID. ulid.Make draws from a process-wide
// monotonic entropy source, so IDs created in the same millisecond still differ.
func newULID() string {
	return ulid.Make().String()
}
