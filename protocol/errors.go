package protocol

import "errors"

// ErrNoResponse reports that the device produced nothing usable: an empty
// read, a chunk with an out-of-range length byte, or a reassembled buffer
// without the "OK" marker.
//
// This is a valid protocol outcome rather than a transport failure; the
// device legitimately has moments with nothing to return. Callers that
// require data should translate it into a harder error at their level.
// Check with errors.Is.
var ErrNoResponse = errors.New("no response from device")
