// elitectl reads stored blood-pressure measurements from an Omron MIT
// Elite Plus meter over USB and prints them as CSV.
//
// Usage:
//
//	elitectl [flags]
//
// With no flags it wakes the device, prints every stored record as
// timestamp,systolic,diastolic,pulse with the device-clock correction
// applied, and powers the device off. Raw USB access usually requires
// root; on a permission error elitectl re-executes itself under sudo
// once.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/moffa90/go-eliteplus/export"
	"github.com/moffa90/go-eliteplus/meter"
	"github.com/moffa90/go-eliteplus/usbio"
)

// elevatedEnv guards the sudo re-exec so it happens at most once.
const elevatedEnv = "ELITECTL_ELEVATED"

func main() {
	// Exit via return code so the deferred shutdown write and USB teardown
	// always run; os.Exit inside realMain would skip them.
	os.Exit(realMain())
}

func realMain() int {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		showClock  = flag.Bool("clock", false, "print the device clock and exit")
		showCount  = flag.Bool("count", false, "print the stored record count and exit")
		clearAfter = flag.Bool("clear", false, "clear device memory after reading")
		correct    = flag.Bool("correct", true, "apply device-clock correction to timestamps")
		outPath    = flag.String("o", "", "write records to file instead of stdout")
		timeout    = flag.Duration("timeout", 0, "override USB timeout (e.g. 4s)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("bad configuration")
		return 2
	}
	sessionTimeout := cfg.timeout()
	if *timeout > 0 {
		sessionTimeout = *timeout
	}

	dev, err := usbio.Open(cfg.vendorID(), cfg.productID(), sessionTimeout)
	if err != nil {
		switch {
		case errors.Is(err, usbio.ErrDeviceNotFound):
			fmt.Fprintln(os.Stderr, "elitectl: no blood-pressure meter found; is it plugged in?")
			return 1
		case usbio.IsPermission(err) && os.Getenv(elevatedEnv) == "":
			log.Info().Msg("permission denied, retrying with sudo")
			return reexecElevated()
		default:
			log.Error().Err(err).Msg("cannot open device")
			return 1
		}
	}
	defer dev.Close()

	s := meter.New(dev,
		meter.WithTimeout(sessionTimeout),
		meter.WithWakeAttempts(cfg.WakeAttempts),
		meter.WithLogger(zlog{log}),
	)
	defer s.Close()

	if !s.Wakeup() {
		fmt.Fprintln(os.Stderr, "elitectl: device is not responding; press its connect button and retry")
		return 1
	}

	if err := run(s, log, *showClock, *showCount, *clearAfter, *correct, *outPath); err != nil {
		log.Error().Err(err).Msg("device exchange failed")
		return 1
	}
	return 0
}

// run executes the requested operations against an awake session. The
// caller's defers guarantee the shutdown write regardless of the outcome.
func run(s *meter.Session, log zerolog.Logger, showClock, showCount, clearAfter, correct bool, outPath string) error {
	if showClock {
		clock, err := s.Clock()
		if err != nil {
			return err
		}
		fmt.Println(clock.Format(time.DateTime))
	}

	if showCount {
		count, err := s.Count()
		if err != nil {
			return err
		}
		fmt.Println(count)
	}

	if showClock || showCount {
		return nil
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	it, err := s.Measurements(correct)
	if err != nil {
		return err
	}

	w := export.NewWriter(out)
	for it.Next() {
		if err := w.Write(it.Measurement()); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := it.Err(); err != nil {
		return err
	}

	if clearAfter {
		if err := s.Clear(); err != nil {
			return err
		}
		log.Info().Msg("device memory cleared")
	}
	return nil
}

// reexecElevated reruns the current invocation under sudo, once, and
// returns its exit code.
func reexecElevated() int {
	args := append([]string{"--preserve-env=" + elevatedEnv, os.Args[0]}, os.Args[1:]...)
	cmd := exec.Command("sudo", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), elevatedEnv+"=1")

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "elitectl: sudo re-exec failed: %v\n", err)
		return 1
	}
	return 0
}

// zlog bridges zerolog into the meter.Logger interface.
type zlog struct {
	l zerolog.Logger
}

func (z zlog) Debug(msg string, kv ...interface{}) { z.l.Debug().Fields(kv).Msg(msg) }
func (z zlog) Info(msg string, kv ...interface{})  { z.l.Info().Fields(kv).Msg(msg) }
func (z zlog) Error(msg string, kv ...interface{}) { z.l.Error().Fields(kv).Msg(msg) }
