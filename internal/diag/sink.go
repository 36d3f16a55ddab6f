package diag

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gookit/color"
)

// Sink receives diagnostics in the order they are reported.
type Sink interface {
	Report(d Diagnostic)
}

// Reporter is the handle conversion code uses to emit warnings.
// It is not safe for concurrent use; each conversion owns one.
type Reporter struct {
	sink     Sink
	warnings int
}

// NewReporter creates a Reporter writing to sink. A nil sink discards everything.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Warnf reports a warning and continues.
func (r *Reporter) Warnf(kind Kind, format string, args ...any) {
	if r == nil {
		return
	}
	r.warnings++
	if r.sink != nil {
		r.sink.Report(Diagnostic{Severity: Warning, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}
}

// Fail forwards a fatal error to the sink and returns it unchanged.
func (r *Reporter) Fail(err error) error {
	if r == nil || r.sink == nil || err == nil {
		return err
	}
	d := Diagnostic{Severity: Fatal, Kind: InvalidValue, Message: err.Error()}
	var e *Error
	if errors.As(err, &e) {
		d.Kind = e.Kind
	}
	r.sink.Report(d)
	return err
}

// Warnings returns how many warnings were reported so far.
func (r *Reporter) Warnings() int {
	if r == nil {
		return 0
	}
	return r.warnings
}

// Collector keeps every diagnostic in memory.
type Collector struct {
	mu    sync.Mutex
	Items []Diagnostic
}

func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.Items = append(c.Items, d)
	c.mu.Unlock()
}

// Count returns how many collected diagnostics have the given kind.
func (c *Collector) Count(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.Items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// ConsoleSink prints coloured diagnostics: warnings in green, fatal errors in red.
type ConsoleSink struct {
	W      io.Writer
	Prefix string // document name, useful in batch runs

	mu sync.Mutex
}

func (s *ConsoleSink) Report(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := d.Message
	if s.Prefix != "" {
		msg = s.Prefix + ": " + msg
	}
	if d.Severity == Fatal {
		color.Fprintln(s.W, color.Red.Sprint("[-] "+msg))
		return
	}
	color.Fprintln(s.W, color.Green.Sprint("[!] "+msg))
}

// LogSink forwards diagnostics to a structured logger.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Report(d Diagnostic) {
	if d.Severity == Fatal {
		s.Logger.Error(d.Message, "kind", d.Kind.String())
		return
	}
	s.Logger.Warn(d.Message, "kind", d.Kind.String())
}
