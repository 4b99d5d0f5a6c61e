// Package meter provides a high-level session API for the Omron MIT Elite
// Plus blood-pressure meter.
//
// # Overview
//
// A Session drives the full device lifecycle over an injected Transport:
//   - Waking the device with a bounded retry sequence
//   - Synchronous command/response exchanges
//   - Reading the device clock and the stored-record count
//   - Lazily iterating stored measurements with optional clock correction
//   - Clearing device memory
//   - Powering the device off
//
// # Basic Usage
//
//	dev, err := usbio.Open(protocol.DefaultVendorID, protocol.DefaultProductID, 500*time.Millisecond)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	s := meter.New(dev)
//	defer s.Close()
//
//	if !s.Wakeup() {
//	    log.Fatal("device not responding; press its connect button and retry")
//	}
//
//	it, err := s.Measurements(true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for it.Next() {
//	    m := it.Measurement()
//	    fmt.Println(m.Systolic, m.Diastolic, m.Pulse)
//	}
//	if err := it.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// Close must run on every exit path; deferring it right after New
// guarantees the shutdown write is attempted even when iteration fails
// halfway.
//
// # Wake Semantics
//
// Wakeup is deliberately soft: the meter often needs a physical button
// press before it answers, and the protocol cannot distinguish "will never
// respond" from "not pressed yet". Wakeup returns a bool, swallows
// per-attempt transport errors, and caps itself at WakeAttempts cycles.
// Open wraps the same sequence for callers that want a hard error
// (ErrNotResponding) instead.
//
// # Configuration Options
//
//	s := meter.New(dev,
//	    meter.WithTimeout(4*time.Second),
//	    meter.WithWakeAttempts(10),
//	    meter.WithLogger(myLogger),
//	    meter.WithChecksumDiagnostics(true),
//	)
//
// # Error Handling
//
// Transport failures propagate wrapped. A device with nothing to return is
// protocol.ErrNoResponse at the Command level; Clock, Count and record
// fetches convert that into EmptyResponseError, since for them silence is
// a failure. Records with an invalid calendar date are not errors at all:
// they come back with a nil Time and valid numeric fields.
//
// # Hardware Independence
//
// The package does not touch USB. Anything implementing Transport works:
// the gousb-backed usbio.Device, a serial bridge, or a scripted mock for
// tests.
package meter
