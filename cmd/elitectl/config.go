package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-eliteplus/protocol"
)

// Config is the optional elitectl configuration file.
type Config struct {
	Device DeviceConfig `yaml:"device"`

	// TimeoutMs bounds every USB read and write
	TimeoutMs int `yaml:"timeout_ms"`

	// WakeAttempts caps the power-on retry loop
	WakeAttempts int `yaml:"wake_attempts"`
}

// DeviceConfig selects the USB device. IDs accept decimal or 0x-prefixed
// hex strings.
type DeviceConfig struct {
	VendorID  string `yaml:"vendor_id"`
	ProductID string `yaml:"product_id"`
}

func defaultConfigFile() Config {
	return Config{
		Device: DeviceConfig{
			VendorID:  fmt.Sprintf("0x%04X", protocol.DefaultVendorID),
			ProductID: fmt.Sprintf("0x%04X", protocol.DefaultProductID),
		},
		TimeoutMs:    500,
		WakeAttempts: 10,
	}
}

// loadConfig reads and validates a config file, or returns defaults when
// path is empty.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfigFile()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := parseID(c.Device.VendorID); err != nil {
		return fmt.Errorf("vendor_id: %w", err)
	}
	if _, err := parseID(c.Device.ProductID); err != nil {
		return fmt.Errorf("product_id: %w", err)
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	if c.WakeAttempts <= 0 {
		return fmt.Errorf("wake_attempts must be positive, got %d", c.WakeAttempts)
	}
	return nil
}

func (c Config) vendorID() uint16  { id, _ := parseID(c.Device.VendorID); return id }
func (c Config) productID() uint16 { id, _ := parseID(c.Device.ProductID); return id }

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// parseID parses a USB ID from decimal or 0x-prefixed hex.
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty USB ID")
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	id, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB ID %q", s)
	}
	return uint16(id), nil
}
