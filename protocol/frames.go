package protocol

import (
	"bytes"
	"fmt"
)

// ParseChunk validates one transport packet and extracts its payload
// fragment.
//
// Packet structure:
//
//	[LEN][FRAGMENT(LEN)][PADDING...]
//
// LEN must be in [1, MaxFragmentLen]. A fragment shorter than
// MaxFragmentLen terminates the response; final reports that.
//
// An empty chunk or an out-of-range length byte means the device had
// nothing coherent to say; both return ErrNoResponse.
func ParseChunk(chunk []byte) (fragment []byte, final bool, err error) {
	if len(chunk) == 0 {
		return nil, false, fmt.Errorf("%w: empty chunk", ErrNoResponse)
	}

	n := int(chunk[0])
	if n < 1 || n > MaxFragmentLen {
		return nil, false, fmt.Errorf("%w: chunk length byte %d outside [1,%d]", ErrNoResponse, n, MaxFragmentLen)
	}
	if len(chunk) < 1+n {
		return nil, false, fmt.Errorf("%w: chunk truncated: %d payload bytes declared, %d present", ErrNoResponse, n, len(chunk)-1)
	}

	return chunk[1 : 1+n], n < MaxFragmentLen, nil
}

// ExtractPayload validates a fully reassembled response buffer and strips
// its framing.
//
// Buffer structure:
//
//	['O']['K'][PAYLOAD...][TRAILER]
//
// Returns the payload with the marker and the single trailing byte removed.
// A buffer that does not begin with the marker returns ErrNoResponse.
func ExtractPayload(data []byte) ([]byte, error) {
	if len(data) < MarkerSize || !bytes.HasPrefix(data, okMarker) {
		return nil, fmt.Errorf("%w: missing OK marker", ErrNoResponse)
	}

	payload := data[MarkerSize:]
	if len(payload) >= TrailerSize {
		payload = payload[:len(payload)-TrailerSize]
	}
	return payload, nil
}
