// Package regif reads and writes registers of a peripheral that sits behind a hal.Bus.
//
// A register is selected by a one byte index and holds a value whose width is fixed
// by the caller's type argument:
//
//	ri := regif.New(bus, 0x22)
//	err := regif.WriteRegister(ri, 0x21, [2]byte{0x8E, 0x8F})
//	value, err := regif.ReadRegister[[2]byte](ri, 0x21)
//
// Transport errors are returned exactly as the bus reported them.
package regif

import (
	"github.com/mbalug7/go-regif/pkg/hal"
)

// Interface binds a bus to one peripheral address.
// It is not safe for concurrent use, operations share the scratch buffers below.
type Interface struct {
	bus     hal.Bus
	address hal.DeviceAddress
	request [1]byte                  // register index sent ahead of a read
	frame   [hal.MaxPayload + 1]byte // register index followed by the write payload, or the read response
}

// New takes ownership of bus for talking to the device at address
func New(bus hal.Bus, address hal.DeviceAddress) *Interface {
	return &Interface{
		bus:     bus,
		address: address,
	}
}

// Address returns the peripheral address set at construction
func (obj *Interface) Address() hal.DeviceAddress {
	return obj.address
}

// Bus returns the owned transport
func (obj *Interface) Bus() hal.Bus {
	return obj.bus
}

// ReadRegister reads len(P) bytes from register reg.
// The value is returned only when the bus reports success, otherwise the zero P is returned
// together with the bus error.
func ReadRegister[P hal.Payload](ri *Interface, reg hal.RegAddress) (P, error) {
	var value P
	n := len(value)
	response := ri.frame[:n]
	for i := range response {
		response[i] = 0
	}
	ri.request[0] = reg.ToByte()
	err := ri.bus.WriteRead(ri.address, ri.request[:], response)
	if err != nil {
		return value, err
	}
	for i := 0; i < n; i++ {
		value[i] = response[i]
	}
	return value, nil
}

// WriteRegister writes value to register reg as one frame: the register index followed by value
func WriteRegister[P hal.Payload](ri *Interface, reg hal.RegAddress, value P) error {
	n := len(value)
	ri.frame[0] = reg.ToByte()
	for i := 0; i < n; i++ {
		ri.frame[i+1] = value[i]
	}
	return ri.bus.Write(ri.address, ri.frame[:n+1])
}
