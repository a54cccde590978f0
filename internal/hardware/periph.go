package hardware

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus is a portable transport backed by a periph.io I2C bus. It works
// anywhere periph has a host driver, at the cost of not controlling the
// exact ioctl sequence the way I2CBus does.
type PeriphBus struct {
	bus i2c.BusCloser
}

// NewPeriphBus initializes the periph host drivers and opens the named I2C
// bus. An empty name opens the first available bus.
func NewPeriphBus(name string) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph: host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("periph: open i2c bus %q: %w", name, err)
	}
	return &PeriphBus{bus: bus}, nil
}

func (b *PeriphBus) Write(addr uint16, w []byte) error {
	return b.bus.Tx(addr, w, nil)
}

func (b *PeriphBus) WriteRead(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// Close releases the underlying periph bus.
func (b *PeriphBus) Close() error { return b.bus.Close() }
