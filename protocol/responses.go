package protocol

import (
	"fmt"
	"time"
)

// ParseClockResponse parses a GCL00 response payload into the device
// wall-clock time.
//
// Payload format (MinClockSize bytes minimum):
//
//	[?][YEAR][MONTH][DAY][HOUR][MINUTE][SECOND]...
//
// YEAR is an offset from YearBase. An out-of-range calendar field is an
// error here: a device that cannot report a sane clock cannot anchor
// timestamp correction.
func ParseClockResponse(data []byte) (time.Time, error) {
	if len(data) < MinClockSize {
		return time.Time{}, fmt.Errorf("invalid data length for clock response: got %d bytes, expected at least %d", len(data), MinClockSize)
	}

	f := data[clockFieldsOffset : clockFieldsOffset+6]
	t, err := makeTimestamp(f[0], f[1], f[2], f[3], f[4], f[5])
	if err != nil {
		return time.Time{}, fmt.Errorf("device clock: %w", err)
	}
	return t, nil
}

// ParseCountResponse parses a CNT00 response payload into the number of
// stored measurements (0-255).
func ParseCountResponse(data []byte) (int, error) {
	if len(data) < MinCountSize {
		return 0, fmt.Errorf("invalid data length for count response: got %d bytes, expected at least %d", len(data), MinCountSize)
	}
	return int(data[countOffset]), nil
}

// ParseMeasurementRecord parses a stored-record response payload.
//
// Payload format (MinRecordSize bytes minimum):
//
//	[?][YEAR][MONTH][DAY][HOUR][MINUTE][SECOND][?][?][SYS][DIA][PULSE]
//
// An invalid calendar date is tolerated: the returned Measurement carries a
// nil Time and the numeric fields are still filled in.
func ParseMeasurementRecord(data []byte) (*Measurement, error) {
	if len(data) < MinRecordSize {
		return nil, fmt.Errorf("invalid data length for measurement record: got %d bytes, expected at least %d", len(data), MinRecordSize)
	}

	m := &Measurement{
		Systolic:  int(data[recordVitalsOffset]),
		Diastolic: int(data[recordVitalsOffset+1]),
		Pulse:     int(data[recordVitalsOffset+2]),
	}

	d := data[recordDateOffset : recordDateOffset+5]
	if t, err := makeTimestamp(data[recordYearOffset], d[0], d[1], d[2], d[3], d[4]); err == nil {
		m.Time = &t
	}

	return m, nil
}

// makeTimestamp builds a host-local timestamp from device date fields,
// rejecting values time.Date would silently normalize (day 0, month 13).
func makeTimestamp(year, month, day, hour, minute, second byte) (time.Time, error) {
	t := time.Date(YearBase+int(year), time.Month(month), int(day),
		int(hour), int(minute), int(second), 0, time.Local)

	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	if y != YearBase+int(year) || mo != time.Month(month) || d != int(day) ||
		h != int(hour) || mi != int(minute) || s != int(second) {
		return time.Time{}, fmt.Errorf("invalid calendar date %02d-%02d-%02d %02d:%02d:%02d",
			month, day, year, hour, minute, second)
	}
	return t, nil
}
