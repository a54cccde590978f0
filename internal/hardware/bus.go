// Package hardware provides the two-wire transport abstraction and the
// amplifier controller for the TPA2016D2. The Bus interface is the only
// capability required from the environment; the real ioctl and periph.io
// backends and the in-memory mock all implement it.
package hardware

// DevAddr is the 7-bit I2C address of the TPA2016D2 (datasheet 0xB0 >> 1).
const DevAddr uint16 = 0x58

// Bus is a blocking two-wire transport. Errors are whatever the bus
// implementation defines; the controller propagates them verbatim and never
// retries.
type Bus interface {
	// Write sends w to the device at addr as a single bus write.
	Write(addr uint16, w []byte) error

	// WriteRead sends w and then reads len(r) bytes from the device at
	// addr as one combined write-then-read transaction (repeated START).
	WriteRead(addr uint16, w, r []byte) error
}

// HardwareError is returned by the mock bus when fail-injection is enabled.
type HardwareError struct {
	msg string
}

func (e HardwareError) Error() string { return e.msg }

// ErrHardware creates a new hardware error.
func ErrHardware(msg string) error { return HardwareError{msg: msg} }
