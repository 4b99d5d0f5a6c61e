package protocol

import "fmt"

// EncodeCommand wire-encodes a command body as a single length byte followed
// by the raw bytes. Multiple parts are concatenated before encoding.
//
// Wire structure:
//
//	[LEN][BODY...]
//
// Returns the encoded packet, or an error if the combined body does not fit
// the single-byte length prefix.
func EncodeCommand(parts ...[]byte) ([]byte, error) {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total > MaxCommandLen {
		return nil, fmt.Errorf("command too long: %d bytes, maximum is %d", total, MaxCommandLen)
	}

	packet := make([]byte, 0, 1+total)
	packet = append(packet, byte(total))
	for _, p := range parts {
		packet = append(packet, p...)
	}
	return packet, nil
}

// BuildGetClockCmd constructs the GCL00 command body.
func BuildGetClockCmd() []byte {
	return []byte(CmdGetClock)
}

// BuildGetCountCmd constructs the CNT00 command body.
func BuildGetCountCmd() []byte {
	return []byte(CmdGetCount)
}

// BuildClearMemoryCmd constructs the MCL00 command body.
func BuildClearMemoryCmd() []byte {
	return []byte(CmdClearMemory)
}

// BuildPowerOffCmd constructs the END00 command body.
func BuildPowerOffCmd() []byte {
	return []byte(CmdPowerOff)
}

// BuildGetRecordCmd constructs the body of a stored-record fetch for the
// given zero-based index.
//
// Body structure:
//
//	['M']['E']['S'][0x00][0x00][INDEX][INDEX]
//
// The device expects the index repeated twice.
func BuildGetRecordCmd(index byte) []byte {
	body := make([]byte, 0, len(cmdRecordPrefix)+2)
	body = append(body, cmdRecordPrefix...)
	body = append(body, index, index)
	return body
}

// BuildWakeCmd constructs the body of one wake packet: MaxFragmentLen zero
// bytes. Encoded, it fills a full transport packet.
func BuildWakeCmd() []byte {
	return make([]byte, MaxFragmentLen)
}
