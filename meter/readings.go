package meter

import (
	"errors"
	"time"

	"github.com/moffa90/go-eliteplus/protocol"
)

// Clock retrieves the current date and time from the device clock. A
// device that answers with garbage calendar fields is a hard error: the
// clock anchors timestamp correction and has no tolerant fallback.
func (s *Session) Clock() (time.Time, error) {
	payload, err := s.Command(protocol.BuildGetClockCmd())
	if err != nil {
		if errors.Is(err, protocol.ErrNoResponse) {
			return time.Time{}, &EmptyResponseError{Command: protocol.CmdGetClock}
		}
		return time.Time{}, err
	}
	return protocol.ParseClockResponse(payload)
}

// Count retrieves the number of measurements stored on the device memory.
func (s *Session) Count() (int, error) {
	payload, err := s.Command(protocol.BuildGetCountCmd())
	if err != nil {
		if errors.Is(err, protocol.ErrNoResponse) {
			return 0, &EmptyResponseError{Command: protocol.CmdGetCount}
		}
		return 0, err
	}
	return protocol.ParseCountResponse(payload)
}

// Clear erases all measurements stored on the device memory. The device's
// reply, if any, carries no documented meaning and is not validated.
func (s *Session) Clear() error {
	_, err := s.Command(protocol.BuildClearMemoryCmd())
	if err != nil && !errors.Is(err, protocol.ErrNoResponse) {
		return err
	}
	return nil
}

// Measurements prepares a lazy walk over the records stored on the device.
// When correctTime is true the host-minus-device clock delta is computed
// once, up front, and added to every record timestamp that has one.
//
// Each Next call performs exactly one device round trip; nothing is
// prefetched. The iterator is single-pass and bounded by the count read
// here; re-reading requires a fresh call (device memory is unchanged by
// reads, so that is safe, just redundant).
//
// Example:
//
//	it, err := s.Measurements(true)
//	// handle err
//	for it.Next() {
//	    m := it.Measurement()
//	    // ...
//	}
//	// handle it.Err()
func (s *Session) Measurements(correctTime bool) (*MeasurementIterator, error) {
	var offset time.Duration
	if correctTime {
		deviceClock, err := s.Clock()
		if err != nil {
			return nil, err
		}
		offset = s.config.Now().Sub(deviceClock)
		s.logDebug("clock offset computed", "offset", offset.String())
	}

	total, err := s.Count()
	if err != nil {
		return nil, err
	}
	s.logDebug("stored measurements", "count", total)

	return &MeasurementIterator{
		session: s,
		total:   total,
		correct: correctTime,
		offset:  offset,
	}, nil
}

// ReadAll drains a Measurements iterator into a slice. Convenience for
// callers that do not care about bounded memory.
func (s *Session) ReadAll(correctTime bool) ([]*protocol.Measurement, error) {
	it, err := s.Measurements(correctTime)
	if err != nil {
		return nil, err
	}

	records := make([]*protocol.Measurement, 0, it.Remaining())
	for it.Next() {
		records = append(records, it.Measurement())
	}
	return records, it.Err()
}

// MeasurementIterator walks the device's stored records in index order,
// fetching one record per Next call.
type MeasurementIterator struct {
	session *Session
	total   int
	index   int
	correct bool
	offset  time.Duration
	current *protocol.Measurement
	err     error
}

// Next fetches the next record. It returns false when the records are
// exhausted or a fetch has failed; the first failure aborts the rest of
// the sequence rather than skipping past it.
func (it *MeasurementIterator) Next() bool {
	if it.err != nil || it.index >= it.total {
		return false
	}

	payload, err := it.session.Command(protocol.BuildGetRecordCmd(byte(it.index)))
	if err != nil {
		if errors.Is(err, protocol.ErrNoResponse) {
			err = &EmptyResponseError{Command: "MES"}
		}
		it.err = err
		return false
	}

	m, err := protocol.ParseMeasurementRecord(payload)
	if err != nil {
		it.err = err
		return false
	}

	if it.correct && m.Time != nil {
		corrected := m.Time.Add(it.offset)
		m.Time = &corrected
	}

	it.index++
	it.current = m
	return true
}

// Measurement returns the record fetched by the last successful Next.
func (it *MeasurementIterator) Measurement() *protocol.Measurement {
	return it.current
}

// Remaining returns how many records have not been fetched yet.
func (it *MeasurementIterator) Remaining() int {
	return it.total - it.index
}

// Err returns the error that stopped iteration, if any.
func (it *MeasurementIterator) Err() error {
	return it.err
}
