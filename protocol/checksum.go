package protocol

// XORChecksum computes the XOR reduction over data.
func XORChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// VerifyChecksum reports whether the XOR reduction over the bytes after the
// marker of a reassembled response buffer is zero.
//
// The device's firmware appears to intend this as an integrity check, but
// it does not hold reliably in practice. Treat a false result as a
// diagnostic signal only, never as grounds to reject the response.
func VerifyChecksum(data []byte) bool {
	if len(data) <= MarkerSize {
		return true
	}
	return XORChecksum(data[MarkerSize:]) == 0
}
