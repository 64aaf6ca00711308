// Package tracing dumps the value changes of signals during a run, giving a
// plain-text waveform of each test.
package tracing

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/microcotb/timing"
)

// Change is one value change of a signal.
type Change struct {
	Test     string
	Time     timing.TimeValue
	Signal   string
	OldValue uint64
	NewValue uint64
}

// A TraceWriter stores changes.
type TraceWriter interface {
	Write(c Change)
	Flush()
}

// CSVTraceWriter stores changes in a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	changes    []Change
	bufferSize int
}

// NewCSVTraceWriter creates a CSVTraceWriter that writes to path.csv. An
// empty path picks a unique name.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the name of the CSV file, once Init has run.
func (t *CSVTraceWriter) Path() string {
	return t.path + ".csv"
}

// Init creates the CSV file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "microcotb_trace_" + xid.New().String()
	}

	filename := t.Path()
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Test, TimeNS, Signal, Old, New\n")

	atexit.Register(func() {
		if err := t.Close(); err != nil {
			panic(err)
		}
	})
}

// Write buffers a change.
func (t *CSVTraceWriter) Write(c Change) {
	t.changes = append(t.changes, c)
	if len(t.changes) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered changes to the file.
func (t *CSVTraceWriter) Flush() {
	for _, c := range t.changes {
		fmt.Fprintf(t.file, "%s, %s, %s, %d, %d\n",
			c.Test,
			strconv.FormatFloat(c.Time.In(timing.NS), 'f', -1, 64),
			c.Signal,
			c.OldValue,
			c.NewValue,
		)
	}

	t.changes = nil
}

// Close flushes and closes the file. Closing twice does nothing.
func (t *CSVTraceWriter) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()
	err := t.file.Close()
	t.file = nil

	return err
}
