// Package export renders measurement records for consumption outside the
// device session, currently as CSV lines of
// timestamp,systolic,diastolic,pulse.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/moffa90/go-eliteplus/protocol"
)

// TimeLayout is the fixed timestamp layout used in CSV output
// (year, day, month, then time of day).
const TimeLayout = "2006-02-01 15:04:05"

// FormatTime renders a record timestamp, or an empty string when the
// record carries none.
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimeLayout)
}

// WriteCSV writes one CSV line per measurement to w.
func WriteCSV(w io.Writer, records []*protocol.Measurement) error {
	cw := csv.NewWriter(w)
	for _, m := range records {
		row := []string{
			FormatTime(m.Time),
			strconv.Itoa(m.Systolic),
			strconv.Itoa(m.Diastolic),
			strconv.Itoa(m.Pulse),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Writer streams measurements to CSV one record at a time, for use with
// the lazy iterator.
type Writer struct {
	cw *csv.Writer
}

// NewWriter returns a Writer targeting w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

// Write appends one CSV line for m.
func (w *Writer) Write(m *protocol.Measurement) error {
	return w.cw.Write([]string{
		FormatTime(m.Time),
		strconv.Itoa(m.Systolic),
		strconv.Itoa(m.Diastolic),
		strconv.Itoa(m.Pulse),
	})
}

// Flush writes buffered lines to the underlying writer and reports any
// write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}
