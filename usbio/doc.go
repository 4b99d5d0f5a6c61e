// Package usbio implements meter.Transport over libusb via
// github.com/google/gousb.
//
// Open performs the full one-time connection sequence the meter requires
// before it will answer bulk traffic: kernel driver detach, default
// interface claim, and an HID SET_REPORT control transfer. Read and Write
// then map directly onto the bulk endpoint pair with a per-call timeout.
//
// Raw USB access usually needs elevated privileges or a udev rule;
// IsPermission classifies the resulting libusb error so callers can react
// (the elitectl command re-executes itself under sudo once).
package usbio
