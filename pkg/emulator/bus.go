// Package emulator provides an in-memory peripheral that implements hal.Bus.
// regtool uses it for its emulator transport, tests use it as the fake bus.
//
// Bus models a device with an auto-incrementing register file: a write frame stores
// its payload starting at the register named by the first byte, a write-then-read
// returns bytes starting at the register named by the request. Every call is recorded.
package emulator

import (
	"fmt"
	"sync"

	"github.com/mbalug7/go-regif/pkg/hal"
)

type Op int

const (
	OpWrite Op = iota
	OpWriteRead
)

func (obj Op) String() string {
	switch obj {
	case OpWrite:
		return "write"
	case OpWriteRead:
		return "write-read"
	}
	return fmt.Sprintf("op(%d)", int(obj))
}

// Transaction is one recorded bus call
type Transaction struct {
	Op      Op
	Address hal.DeviceAddress
	Bytes   []byte // write frame or write-read request
	Length  int    // response length requested by a write-read
}

// Bus emulates a single device. Calls to any address other than the device address
// fail with a NACK error, as a real bus would.
type Bus struct {
	mu        sync.Mutex
	address   hal.DeviceAddress
	registers [256]byte
	response  []byte // when set, every write-read returns these bytes instead of register contents
	errs      []error
	log       []Transaction
}

// NackError is returned when nobody answers on an address
type NackError struct {
	Address hal.DeviceAddress
}

func (obj *NackError) Error() string {
	return fmt.Sprintf("no acknowledge from 0x%02X", obj.Address.ToByte())
}

func NewBus(address hal.DeviceAddress) *Bus {
	return &Bus{address: address}
}

// SetResponse makes every following write-read return data, truncated or zero padded
// to the requested length
func (obj *Bus) SetResponse(data []byte) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.response = append([]byte(nil), data...)
}

// FailNext queues errors that the next calls return, one per call, before touching any register
func (obj *Bus) FailNext(errs ...error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.errs = append(obj.errs, errs...)
}

// Poke stores data into the register file starting at reg
func (obj *Bus) Poke(reg hal.RegAddress, data ...byte) {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	for i, b := range data {
		obj.registers[(int(reg)+i)%len(obj.registers)] = b
	}
}

// Peek returns n bytes of the register file starting at reg
func (obj *Bus) Peek(reg hal.RegAddress, n int) []byte {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = obj.registers[(int(reg)+i)%len(obj.registers)]
	}
	return out
}

// Transactions returns a copy of the recorded calls
func (obj *Bus) Transactions() []Transaction {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	return append([]Transaction(nil), obj.log...)
}

// Reset forgets the recorded calls
func (obj *Bus) Reset() {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.log = nil
}

func (obj *Bus) Write(address hal.DeviceAddress, frame []byte) error {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.log = append(obj.log, Transaction{
		Op:      OpWrite,
		Address: address,
		Bytes:   append([]byte(nil), frame...),
	})
	if err := obj.nextError(address); err != nil {
		return err
	}
	if len(frame) == 0 {
		return nil
	}
	reg := int(frame[0])
	for i, b := range frame[1:] {
		obj.registers[(reg+i)%len(obj.registers)] = b
	}
	return nil
}

func (obj *Bus) WriteRead(address hal.DeviceAddress, request []byte, response []byte) error {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	obj.log = append(obj.log, Transaction{
		Op:      OpWriteRead,
		Address: address,
		Bytes:   append([]byte(nil), request...),
		Length:  len(response),
	})
	if err := obj.nextError(address); err != nil {
		return err
	}
	if obj.response != nil {
		n := copy(response, obj.response)
		for i := n; i < len(response); i++ {
			response[i] = 0
		}
		return nil
	}
	reg := 0
	if len(request) > 0 {
		reg = int(request[0])
	}
	for i := range response {
		response[i] = obj.registers[(reg+i)%len(obj.registers)]
	}
	return nil
}

func (obj *Bus) nextError(address hal.DeviceAddress) error {
	if len(obj.errs) > 0 {
		err := obj.errs[0]
		obj.errs = obj.errs[1:]
		if err != nil {
			return err
		}
	}
	if address != obj.address {
		return &NackError{Address: address}
	}
	return nil
}
