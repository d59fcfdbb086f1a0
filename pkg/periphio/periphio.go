// Package periphio adapts a periph.io I2C bus to hal.Bus.
package periphio

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/mbalug7/go-regif/pkg/hal"
)

type Bus struct {
	bus    i2c.Bus
	closer i2c.BusCloser // set when the bus was opened by this package
}

// New wraps an already opened bus, closing it stays with the caller
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

// Open initialises the host drivers and opens the bus registered under name.
// An empty name selects the first available bus.
func Open(name string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialise periph host")
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open i2c bus %q", name)
	}
	return &Bus{bus: bc, closer: bc}, nil
}

func (obj *Bus) Write(address hal.DeviceAddress, frame []byte) error {
	return obj.bus.Tx(uint16(address), frame, nil)
}

func (obj *Bus) WriteRead(address hal.DeviceAddress, request []byte, response []byte) error {
	return obj.bus.Tx(uint16(address), request, response)
}

func (obj *Bus) Close() error {
	if obj.closer == nil {
		return nil
	}
	return obj.closer.Close()
}

func (obj *Bus) String() string {
	return obj.bus.String()
}
