package meter

import "time"

// Transport is the bulk-endpoint access a Session drives. Implementations
// must be exclusive: the session assumes no other actor touches the same
// endpoints for its whole lifetime.
//
// usbio provides a gousb-backed implementation; tests use scripted mocks.
type Transport interface {
	// Read requests up to maxLen bytes from the device with the given
	// timeout. A timeout or I/O failure is an error; a short or empty
	// read is not.
	Read(maxLen int, timeout time.Duration) ([]byte, error)

	// Write sends p to the device with the given timeout and returns the
	// number of bytes written.
	Write(p []byte, timeout time.Duration) (int, error)
}

// Logger is an optional logging interface that can be provided to the
// session. This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	s := meter.New(device, meter.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
