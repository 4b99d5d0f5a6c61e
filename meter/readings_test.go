package meter

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// clockPayload builds a GCL00 payload for the given local time.
func clockPayload(t time.Time) []byte {
	return []byte{
		0x00,
		byte(t.Year() - 2000), byte(t.Month()), byte(t.Day()),
		byte(t.Hour()), byte(t.Minute()), byte(t.Second()),
	}
}

// countPayload builds a CNT00 payload.
func countPayload(n byte) []byte {
	return []byte{0x00, 0x00, n}
}

// recordPayload builds a stored-record payload.
func recordPayload(t time.Time, sys, dia, pulse byte) []byte {
	return []byte{
		0x00,
		byte(t.Year() - 2000), byte(t.Month()), byte(t.Day()),
		byte(t.Hour()), byte(t.Minute()), byte(t.Second()),
		0x00, 0x00,
		sys, dia, pulse,
	}
}

// badDateRecordPayload builds a record with day zero.
func badDateRecordPayload(sys, dia, pulse byte) []byte {
	return []byte{0x00, 24, 3, 0, 10, 30, 0, 0x00, 0x00, sys, dia, pulse}
}

func TestClock(t *testing.T) {
	want := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)
	tr := &mockTransport{reads: respond(clockPayload(want))}
	s := New(tr)

	got, err := s.Clock()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("clock = %v, want %v", got, want)
	}
	if wire := []byte{5, 'G', 'C', 'L', '0', '0'}; !bytes.Equal(tr.writes[0], wire) {
		t.Errorf("wire command = % X, want % X", tr.writes[0], wire)
	}
}

func TestClockEmptyResponse(t *testing.T) {
	tr := &mockTransport{reads: []readResult{noResponse()}}
	s := New(tr)

	_, err := s.Clock()
	var emptyErr *EmptyResponseError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error = %v, want EmptyResponseError", err)
	}
	if emptyErr.Command != "GCL00" {
		t.Errorf("command = %q, want GCL00", emptyErr.Command)
	}
}

func TestCountIdempotent(t *testing.T) {
	reads := append(respond(countPayload(7)), respond(countPayload(7))...)
	tr := &mockTransport{reads: reads}
	s := New(tr)

	for i := 0; i < 2; i++ {
		n, err := s.Count()
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if n != 7 {
			t.Errorf("call %d: count = %d, want 7", i, n)
		}
	}
}

func TestCountEmptyResponse(t *testing.T) {
	tr := &mockTransport{reads: []readResult{noResponse()}}
	s := New(tr)

	_, err := s.Count()
	var emptyErr *EmptyResponseError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error = %v, want EmptyResponseError", err)
	}
}

func TestClearToleratesSilence(t *testing.T) {
	tr := &mockTransport{reads: []readResult{noResponse()}}
	s := New(tr)

	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wire := []byte{5, 'M', 'C', 'L', '0', '0'}; !bytes.Equal(tr.writes[0], wire) {
		t.Errorf("wire command = % X, want % X", tr.writes[0], wire)
	}
}

func TestClearPropagatesTransportError(t *testing.T) {
	tr := &mockTransport{reads: []readResult{{err: errTimeout}}}
	s := New(tr)

	if err := s.Clear(); !errors.Is(err, errTimeout) {
		t.Errorf("error = %v, want errTimeout in chain", err)
	}
}

func TestMeasurementsFetchesInOrder(t *testing.T) {
	base := time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local)

	reads := respond(countPayload(3))
	for i := 0; i < 3; i++ {
		reads = append(reads, respond(recordPayload(base.Add(time.Duration(i)*time.Hour), 120+byte(i), 80, 60))...)
	}
	tr := &mockTransport{reads: reads}
	s := New(tr)

	it, err := s.Measurements(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []int
	for it.Next() {
		got = append(got, it.Measurement().Systolic)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("yielded %d records, want 3", len(got))
	}
	for i, sys := range got {
		if sys != 120+i {
			t.Errorf("record %d systolic = %d, want %d", i, sys, 120+i)
		}
	}

	// One CNT00 plus three MES fetches with indices 0,1,2 in order.
	if len(tr.writes) != 4 {
		t.Fatalf("writes = %d, want 4", len(tr.writes))
	}
	for i := 0; i < 3; i++ {
		want := []byte{7, 'M', 'E', 'S', 0, 0, byte(i), byte(i)}
		if !bytes.Equal(tr.writes[i+1], want) {
			t.Errorf("fetch %d = % X, want % X", i, tr.writes[i+1], want)
		}
	}
}

func TestMeasurementsLazy(t *testing.T) {
	reads := respond(countPayload(2))
	reads = append(reads, respond(recordPayload(time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local), 120, 80, 60))...)
	tr := &mockTransport{reads: reads}
	s := New(tr)

	it, err := s.Measurements(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No record fetch happens before Next.
	if len(tr.writes) != 1 {
		t.Fatalf("writes before Next = %d, want 1 (count only)", len(tr.writes))
	}
	if it.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", it.Remaining())
	}

	if !it.Next() {
		t.Fatalf("Next() = false, err = %v", it.Err())
	}
	if len(tr.writes) != 2 {
		t.Errorf("writes after one Next = %d, want 2", len(tr.writes))
	}
	if it.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", it.Remaining())
	}
}

func TestMeasurementsOffsetCorrection(t *testing.T) {
	deviceClock := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)
	hostNow := deviceClock.Add(5*time.Minute + 30*time.Second)
	recordTime := time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local)

	reads := respond(clockPayload(deviceClock))
	reads = append(reads, respond(countPayload(1))...)
	reads = append(reads, respond(recordPayload(recordTime, 120, 80, 60))...)

	tr := &mockTransport{reads: reads}
	s := New(tr, WithClockSource(func() time.Time { return hostNow }))

	it, err := s.Measurements(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !it.Next() {
		t.Fatalf("Next() = false, err = %v", it.Err())
	}

	m := it.Measurement()
	if m.Time == nil {
		t.Fatal("expected a timestamp")
	}
	want := recordTime.Add(5*time.Minute + 30*time.Second)
	if !m.Time.Equal(want) {
		t.Errorf("corrected time = %v, want %v", m.Time, want)
	}
}

func TestMeasurementsInvalidDateSkipsCorrection(t *testing.T) {
	deviceClock := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)

	reads := respond(clockPayload(deviceClock))
	reads = append(reads, respond(countPayload(1))...)
	reads = append(reads, respond(badDateRecordPayload(130, 85, 72))...)

	tr := &mockTransport{reads: reads}
	s := New(tr, WithClockSource(func() time.Time { return deviceClock.Add(time.Hour) }))

	it, err := s.Measurements(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !it.Next() {
		t.Fatalf("Next() = false, err = %v", it.Err())
	}

	m := it.Measurement()
	if m.Time != nil {
		t.Errorf("time = %v, want nil for invalid device date", m.Time)
	}
	if m.Systolic != 130 || m.Diastolic != 85 || m.Pulse != 72 {
		t.Errorf("vitals = %d/%d/%d, want 130/85/72", m.Systolic, m.Diastolic, m.Pulse)
	}
}

func TestMeasurementsAbortOnMidIterationFailure(t *testing.T) {
	base := time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local)

	reads := respond(countPayload(3))
	reads = append(reads, respond(recordPayload(base, 120, 80, 60))...)
	reads = append(reads, readResult{err: errTimeout})

	tr := &mockTransport{reads: reads}
	s := New(tr)

	it, err := s.Measurements(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	yielded := 0
	for it.Next() {
		yielded++
	}
	if yielded != 1 {
		t.Errorf("yielded %d records before failure, want 1", yielded)
	}
	if !errors.Is(it.Err(), errTimeout) {
		t.Errorf("Err() = %v, want errTimeout in chain", it.Err())
	}

	// The failure aborts the rest of the sequence.
	if it.Next() {
		t.Error("Next() = true after a failed fetch")
	}
	if len(tr.writes) != 3 {
		t.Errorf("writes = %d, want 3 (count + 2 fetch attempts)", len(tr.writes))
	}
}

func TestMeasurementsClockErrorWhenCorrecting(t *testing.T) {
	tr := &mockTransport{reads: []readResult{noResponse()}}
	s := New(tr)

	_, err := s.Measurements(true)
	var emptyErr *EmptyResponseError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error = %v, want EmptyResponseError from clock", err)
	}
}

func TestReadAll(t *testing.T) {
	base := time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local)
	reads := respond(countPayload(2))
	reads = append(reads, respond(recordPayload(base, 118, 79, 58))...)
	reads = append(reads, respond(recordPayload(base.Add(time.Hour), 122, 81, 62))...)

	tr := &mockTransport{reads: reads}
	s := New(tr)

	records, err := s.ReadAll(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Systolic != 118 || records[1].Systolic != 122 {
		t.Errorf("systolic values = %d,%d, want 118,122", records[0].Systolic, records[1].Systolic)
	}
}
