// Package protocol implements the vendor wire protocol of the Omron
// MIT Elite Plus (HEM-7301-ITKE7) USB blood-pressure meter.
//
// # Protocol Overview
//
// The device exchanges 8-byte packets over a pair of bulk endpoints. Every
// packet is length-prefixed:
//
//	Command:  [LEN][BODY...]
//	Response: [LEN][FRAGMENT...] repeated, reassembled into ['O']['K'][PAYLOAD...][TRAILER]
//
// A response spans one or more packets. A packet carrying exactly
// MaxFragmentLen payload bytes continues the response; a shorter one
// terminates it. The reassembled buffer must begin with the "OK" marker;
// the payload handed to parsers excludes the marker and one trailing byte.
//
// # Command Builders
//
// Use the Build* functions to create command bodies and EncodeCommand for
// the wire encoding:
//
//	body := protocol.BuildGetClockCmd()
//	packet, err := protocol.EncodeCommand(body)
//
// # Response Handling
//
// ParseChunk and ExtractPayload handle reassembly; the Parse* functions
// decode command-specific payloads:
//
//	clock, err := protocol.ParseClockResponse(payload)
//	count, err := protocol.ParseCountResponse(payload)
//	record, err := protocol.ParseMeasurementRecord(payload)
//
// # No Response
//
// An empty read, a malformed chunk length, or a missing "OK" marker all
// mean the device had nothing to return. These surface as ErrNoResponse,
// which callers check with errors.Is; it is deliberately distinct from a
// transport failure such as a timeout.
//
// # Integrity Check
//
// The firmware carries an XOR reduction over the payload that should come
// to zero but does not do so reliably on real hardware. VerifyChecksum
// exposes it for diagnostics; it must not gate acceptance of a response.
package protocol
