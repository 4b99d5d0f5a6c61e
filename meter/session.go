package meter

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-eliteplus/protocol"
)

// Session drives one Omron meter over an injected Transport. All exchanges
// are strictly synchronous: one write, one reassembled read, in order. The
// session owns the transport exclusively for its lifetime.
//
// Session is not safe for concurrent use; the device protocol has no
// notion of overlapping requests.
type Session struct {
	transport Transport
	config    Config
	active    bool
}

// New creates a Session over the given transport. The transport must
// already be connected (kernel driver detached, interface claimed, setup
// control transfer done).
//
// Example:
//
//	dev, err := usbio.Open(protocol.DefaultVendorID, protocol.DefaultProductID, 500*time.Millisecond)
//	// handle err
//	defer dev.Close()
//
//	s := meter.New(dev,
//	    meter.WithTimeout(4*time.Second),
//	    meter.WithLogger(myLogger),
//	)
func New(transport Transport, opts ...Option) *Session {
	if transport == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		transport: transport,
		config:    cfg,
	}
}

// Open creates a Session and runs the wake sequence, failing with
// ErrNotResponding if the device never answers. Callers content with the
// soft-failure behavior can use New followed by Wakeup instead.
func Open(transport Transport, opts ...Option) (*Session, error) {
	s := New(transport, opts...)
	if !s.Wakeup() {
		return nil, ErrNotResponding
	}
	return s, nil
}

// Active reports whether the device has answered the wake sequence and no
// shutdown has been issued since.
func (s *Session) Active() bool {
	return s.active
}

// Wakeup powers the device on. It first drains one pending response, then
// runs up to WakeAttempts cycles of two wake packets followed by a read.
// The first non-empty response marks the session active and stops the
// loop.
//
// Transport errors during the drain and the cycles are swallowed: a
// sleeping device times out rather than answering, and it may need a
// physical button press before it ever will. Wakeup therefore never fails
// hard; it reports whether the device woke, and Active reflects the same.
func (s *Session) Wakeup() bool {
	if _, err := s.readResponse(); err != nil && !errors.Is(err, protocol.ErrNoResponse) {
		s.logDebug("wakeup drain", "err", err)
	}

	wake := protocol.BuildWakeCmd()
	for attempt := 1; attempt <= s.config.WakeAttempts; attempt++ {
		if err := s.write(wake); err != nil {
			s.logDebug("wake packet dropped", "attempt", attempt, "err", err)
			continue
		}
		if err := s.write(wake); err != nil {
			s.logDebug("wake packet dropped", "attempt", attempt, "err", err)
			continue
		}

		response, err := s.readResponse()
		switch {
		case err == nil && len(response) > 0:
			s.active = true
			s.logInfo("device awake", "attempt", attempt)
			return true
		case err != nil && !errors.Is(err, protocol.ErrNoResponse):
			s.logDebug("wake read timed out", "attempt", attempt, "err", err)
		default:
			s.logDebug("no wake response yet", "attempt", attempt)
		}
	}

	s.logInfo("device did not wake", "attempts", s.config.WakeAttempts)
	return false
}

// Shutdown powers the device off. The END00 command is fire-and-forget:
// no response is read, and the session is marked inactive whether or not
// the write succeeds.
func (s *Session) Shutdown() error {
	s.active = false
	if err := s.write(protocol.BuildPowerOffCmd()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close is Shutdown under the name defer reads naturally:
//
//	s := meter.New(dev)
//	defer s.Close()
func (s *Session) Close() error {
	return s.Shutdown()
}

// Command sends the concatenation of the given parts as one command and
// returns the reassembled response payload. A device with nothing to
// return yields protocol.ErrNoResponse; transport failures propagate
// as-is.
func (s *Session) Command(parts ...[]byte) ([]byte, error) {
	if err := s.write(parts...); err != nil {
		return nil, err
	}
	return s.readResponse()
}

// write length-prefixes and sends one command.
func (s *Session) write(parts ...[]byte) error {
	packet, err := protocol.EncodeCommand(parts...)
	if err != nil {
		return err
	}
	if _, err := s.transport.Write(packet, s.config.Timeout); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// readResponse reassembles one response from the transport. Chunks are
// read at the fixed packet size until a terminating fragment arrives; the
// reassembled buffer is validated and stripped down to its payload.
func (s *Session) readResponse() ([]byte, error) {
	var data []byte
	for {
		chunk, err := s.transport.Read(protocol.PacketSize, s.config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		fragment, final, err := protocol.ParseChunk(chunk)
		if err != nil {
			return nil, err
		}
		data = append(data, fragment...)
		if final {
			break
		}
	}

	if s.config.ChecksumDiagnostics && !protocol.VerifyChecksum(data) {
		s.logError("response checksum nonzero", "len", len(data),
			"xor", fmt.Sprintf("0x%02X", protocol.XORChecksum(data[protocol.MarkerSize:])))
	}

	return protocol.ExtractPayload(data)
}

// logDebug logs a debug message if a logger is configured.
func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
