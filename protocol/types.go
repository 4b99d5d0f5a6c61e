package protocol

import "time"

// Measurement is one blood-pressure reading stored on the device.
// Returned by stored-record fetches.
type Measurement struct {
	// Time is when the device recorded the reading. Nil when the device
	// reported an invalid calendar date for this record; the numeric
	// fields remain valid regardless.
	Time *time.Time

	// Systolic is the systolic pressure in mmHg
	Systolic int

	// Diastolic is the diastolic pressure in mmHg
	Diastolic int

	// Pulse is the pulse rate in beats per minute
	Pulse int
}
