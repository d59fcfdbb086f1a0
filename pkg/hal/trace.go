package hal

import (
	"fmt"

	"github.com/mazen160/go-random"
	"github.com/sirupsen/logrus"
)

// TracedBus logs every transaction that passes through the wrapped Bus.
// Errors are logged and returned unchanged.
type TracedBus struct {
	bus    Bus
	logger *logrus.Entry
}

func NewTracedBus(bus Bus, logger *logrus.Entry) *TracedBus {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &TracedBus{
		bus:    bus,
		logger: logger.WithField("prefix", "bus"),
	}
}

// Unwrap returns the traced bus
func (obj *TracedBus) Unwrap() Bus {
	return obj.bus
}

func (obj *TracedBus) Write(address DeviceAddress, frame []byte) error {
	entry := obj.transaction(address)
	err := obj.bus.Write(address, frame)
	entry = entry.WithField("frame", fmt.Sprintf("% X", frame))
	if err != nil {
		entry.WithError(err).Warn("write failed")
		return err
	}
	entry.Debug("write")
	return nil
}

func (obj *TracedBus) WriteRead(address DeviceAddress, request []byte, response []byte) error {
	entry := obj.transaction(address).WithField("request", fmt.Sprintf("% X", request))
	err := obj.bus.WriteRead(address, request, response)
	if err != nil {
		entry.WithError(err).WithField("length", len(response)).Warn("write-read failed")
		return err
	}
	entry.WithField("response", fmt.Sprintf("% X", response)).Debug("write-read")
	return nil
}

// Close closes the traced bus when it holds a resource
func (obj *TracedBus) Close() error {
	if closer, ok := obj.bus.(BusCloser); ok {
		return closer.Close()
	}
	return nil
}

func (obj *TracedBus) transaction(address DeviceAddress) *logrus.Entry {
	id, err := random.String(8)
	if err != nil {
		// ids only correlate log lines
		id = "-"
	}
	return obj.logger.WithFields(logrus.Fields{
		"tx":      id,
		"address": fmt.Sprintf("0x%02X", address.ToByte()),
	})
}
