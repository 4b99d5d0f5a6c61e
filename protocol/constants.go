package protocol

// Default USB identifiers for the Omron MIT Elite Plus (HEM-7301-ITKE7).
const (
	// DefaultVendorID is the Omron Healthcare USB vendor ID (0x0590)
	DefaultVendorID = 0x0590

	// DefaultProductID is the HEM-7301-ITKE7 product ID (0x0028)
	DefaultProductID = 0x0028
)

// Bulk endpoint addresses used by the device.
const (
	// EndpointIn is the bulk IN endpoint carrying device responses (0x81)
	EndpointIn = 0x81

	// EndpointOut is the bulk OUT endpoint carrying host commands (0x02)
	EndpointOut = 0x02
)

// Wire framing constants.
const (
	// PacketSize is the fixed transport packet size requested on every read.
	// Each packet is a length byte followed by up to 7 payload bytes.
	PacketSize = 8

	// MaxFragmentLen is the maximum payload bytes carried by one packet.
	// A packet carrying exactly MaxFragmentLen bytes is a continuation;
	// anything shorter terminates the response.
	MaxFragmentLen = 7

	// MaxCommandLen is the largest command body the single-byte length
	// prefix can describe.
	MaxCommandLen = 255

	// MarkerSize is the size of the "OK" status marker that prefixes every
	// reassembled response.
	MarkerSize = 2

	// TrailerSize is the size of the trailing byte stripped from every
	// reassembled response after the marker check.
	TrailerSize = 1
)

// okMarker prefixes every well-formed reassembled response.
var okMarker = []byte("OK")

// Command strings understood by the device.
const (
	// CmdGetClock requests the device wall-clock time
	CmdGetClock = "GCL00"

	// CmdGetCount requests the number of stored measurements
	CmdGetCount = "CNT00"

	// CmdClearMemory erases all stored measurements
	CmdClearMemory = "MCL00"

	// CmdPowerOff powers the device down; the device sends no reply
	CmdPowerOff = "END00"

	// cmdRecordPrefix prefixes a stored-record fetch; the zero-based record
	// index follows as two identical bytes
	cmdRecordPrefix = "MES\x00\x00"
)

// Measurement record payload layout.
const (
	// recordYearOffset is the payload index of the two-digit year
	recordYearOffset = 1

	// recordDateOffset is the payload index of month/day/hour/minute/second
	recordDateOffset = 2

	// recordVitalsOffset is the payload index of systolic/diastolic/pulse
	recordVitalsOffset = 9

	// MinRecordSize is the smallest payload that holds a full record
	MinRecordSize = 12
)

// Clock response payload layout.
const (
	// clockFieldsOffset is the payload index of year/month/day/hour/minute/second
	clockFieldsOffset = 1

	// MinClockSize is the smallest payload that holds a full clock reading
	MinClockSize = 7
)

// countOffset is the payload index of the stored-record count in a CNT00
// response.
const countOffset = 2

// MinCountSize is the smallest payload that holds a record count.
const MinCountSize = 3

// YearBase is added to the device's single-byte year field.
const YearBase = 2000
