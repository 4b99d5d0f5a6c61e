package meter

import "time"

// Config holds the session configuration.
type Config struct {
	// Timeout bounds every transport read and write
	Timeout time.Duration

	// WakeAttempts is the number of wake cycles Wakeup tries before
	// giving up softly
	WakeAttempts int

	// Logger is used for logging operations (optional)
	Logger Logger

	// ChecksumDiagnostics enables the XOR integrity check on reassembled
	// responses. Failures are logged, never fatal.
	ChecksumDiagnostics bool

	// Now supplies the host clock used for timestamp correction
	Now func() time.Time
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Timeout:      500 * time.Millisecond,
		WakeAttempts: 10,
		Now:          time.Now,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithTimeout sets the transport timeout applied to every read and write.
// Default is 500ms; 4s is a known-good value for sluggish units.
//
// Example:
//
//	s := meter.New(device, meter.WithTimeout(4*time.Second))
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithWakeAttempts sets the number of wake cycles attempted by Wakeup.
// Default is 10.
func WithWakeAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.WakeAttempts = attempts
		}
	}
}

// WithLogger sets a logger for session operations.
//
// Example:
//
//	s := meter.New(device, meter.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithChecksumDiagnostics enables logging of XOR integrity-check failures
// on reassembled responses. The check is unreliable on real hardware, so
// it never rejects a response. Default is false.
func WithChecksumDiagnostics(enabled bool) Option {
	return func(c *Config) {
		c.ChecksumDiagnostics = enabled
	}
}

// WithClockSource overrides the host clock used when computing the
// device-to-host timestamp correction. Intended for tests.
func WithClockSource(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.Now = now
		}
	}
}
