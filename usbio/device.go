package usbio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"

	"github.com/moffa90/go-eliteplus/protocol"
)

// ErrDeviceNotFound indicates no matching USB device is attached.
var ErrDeviceNotFound = errors.New("device not found")

// Setup control transfer parameters (HID SET_REPORT against interface 0).
// The meter will not accept bulk commands until this has been issued once
// per connection.
const (
	// setupRequestType is class type, interface recipient, host-to-device
	setupRequestType = uint8(gousb.ControlClass | gousb.ControlInterface | gousb.ControlOut)

	// setupRequest is the HID SET_REPORT request code
	setupRequest = 9

	// setupValue selects feature report 0 (0x0300)
	setupValue = 0x0300

	// setupIndex targets interface 0
	setupIndex = 0
)

// setupPayload is the two-byte zero report the meter expects with the
// setup transfer.
var setupPayload = []byte{0x00, 0x00}

// Device is a gousb-backed meter.Transport over the meter's bulk endpoint
// pair. It owns the whole gousb stack (context, device, interface) and
// releases it on Close.
type Device struct {
	ctx     *gousb.Context
	dev     *gousb.Device
	intf    *gousb.Interface
	done    func()
	bulkIn  *gousb.InEndpoint
	bulkOut *gousb.OutEndpoint
}

// Open finds the meter by vendor/product ID and performs the one-time
// connection sequence: detach any kernel driver, claim the default
// interface, then issue the setup control transfer. Returns
// ErrDeviceNotFound when no matching device is attached.
//
// Example:
//
//	dev, err := usbio.Open(protocol.DefaultVendorID, protocol.DefaultProductID, 500*time.Millisecond)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
func Open(vendorID, productID uint16, timeout time.Duration) (*Device, error) {
	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return uint16(desc.Vendor) == vendorID && uint16(desc.Product) == productID
	})
	if err != nil {
		// OpenDevices returns the devices it did open even on error.
		for _, d := range devs {
			d.Close()
		}
		ctx.Close()
		return nil, fmt.Errorf("enumerate USB devices: %w", err)
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("%w (VID=0x%04X PID=0x%04X)", ErrDeviceNotFound, vendorID, productID)
	}

	dev := devs[0]
	for i := 1; i < len(devs); i++ {
		devs[i].Close()
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("detach kernel driver: %w", err)
	}

	intf, done, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("claim interface: %w", err)
	}

	bulkIn, err := intf.InEndpoint(protocol.EndpointIn & 0x0F)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("open bulk in endpoint: %w", err)
	}

	bulkOut, err := intf.OutEndpoint(protocol.EndpointOut & 0x0F)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("open bulk out endpoint: %w", err)
	}

	dev.ControlTimeout = timeout
	if _, err := dev.Control(setupRequestType, setupRequest, setupValue, setupIndex, setupPayload); err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("setup control transfer: %w", err)
	}

	return &Device{
		ctx:     ctx,
		dev:     dev,
		intf:    intf,
		done:    done,
		bulkIn:  bulkIn,
		bulkOut: bulkOut,
	}, nil
}

// Read requests up to maxLen bytes from the bulk IN endpoint.
func (d *Device) Read(maxLen int, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	buf := make([]byte, maxLen)
	n, err := d.bulkIn.ReadContext(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("bulk read: %w", err)
	}
	return buf[:n], nil
}

// Write sends p to the bulk OUT endpoint.
func (d *Device) Write(p []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := d.bulkOut.WriteContext(ctx, p)
	if err != nil {
		return n, fmt.Errorf("bulk write: %w", err)
	}
	return n, nil
}

// Close releases the interface, the device and the USB context.
func (d *Device) Close() error {
	if d.done != nil {
		d.done()
		d.done = nil
	}
	if d.dev != nil {
		d.dev.Close()
		d.dev = nil
	}
	if d.ctx != nil {
		err := d.ctx.Close()
		d.ctx = nil
		return err
	}
	return nil
}

// IsPermission reports whether err is a libusb access-denied error, the
// usual sign the process needs elevated privileges for raw USB access.
func IsPermission(err error) bool {
	var usbErr gousb.Error
	if errors.As(err, &usbErr) {
		return usbErr == gousb.ERROR_ACCESS
	}
	return false
}
