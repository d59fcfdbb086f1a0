// Package bitbang is a software I2C master driving SDA and SCL as plain GPIO lines.
package bitbang

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mbalug7/go-regif/pkg/hal"
)

var (
	ErrNack         = errors.New("bitbang: not acknowledged")
	ErrClockStretch = errors.New("bitbang: clock held low by a device")
)

// Line is one open drain bus line. High releases the line to its pull-up,
// Low drives it to ground, Value samples the level on the wire.
type Line interface {
	High() error
	Low() error
	Value() (int, error)
}

// DefaultHalfPeriod gives roughly a 100 kHz clock
const DefaultHalfPeriod = 5 * time.Microsecond

const defaultStretchPolls = 1000

type Master struct {
	sda          Line
	scl          Line
	halfPeriod   time.Duration
	stretchPolls int
	mu           sync.Mutex
	logger       *logrus.Entry
}

// NewMaster drives the bus through sda and scl. A zero halfPeriod runs as fast as the lines allow.
func NewMaster(sda Line, scl Line, halfPeriod time.Duration, logger *logrus.Entry) *Master {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Master{
		sda:          sda,
		scl:          scl,
		halfPeriod:   halfPeriod,
		stretchPolls: defaultStretchPolls,
		logger:       logger.WithField("prefix", "bitbang"),
	}
}

func (obj *Master) Write(address hal.DeviceAddress, frame []byte) error {
	if !address.Is7Bit() {
		return errors.Errorf("address 0x%02X is not a 7-bit address", address.ToByte())
	}
	obj.mu.Lock()
	defer obj.mu.Unlock()

	err := obj.start()
	if err != nil {
		return err
	}
	err = obj.send(address.ToByte()<<1, frame)
	return obj.finish(address, err)
}

func (obj *Master) WriteRead(address hal.DeviceAddress, request []byte, response []byte) error {
	if !address.Is7Bit() {
		return errors.Errorf("address 0x%02X is not a 7-bit address", address.ToByte())
	}
	obj.mu.Lock()
	defer obj.mu.Unlock()

	err := obj.start()
	if err != nil {
		return err
	}
	if len(request) > 0 {
		err = obj.send(address.ToByte()<<1, request)
		if err != nil {
			return obj.finish(address, err)
		}
		if len(response) == 0 {
			return obj.finish(address, nil)
		}
		err = obj.repeatedStart()
		if err != nil {
			return obj.finish(address, err)
		}
	}
	err = obj.send(address.ToByte()<<1|1, nil)
	if err == nil {
		err = obj.receive(response)
	}
	return obj.finish(address, err)
}

// finish puts a STOP on the bus whatever happened before, the first error wins
func (obj *Master) finish(address hal.DeviceAddress, err error) error {
	stopErr := obj.stop()
	if err != nil {
		obj.logger.WithField("address", address.ToByte()).WithError(err).Debug("transfer aborted")
		return err
	}
	return stopErr
}

// send clocks out the address byte followed by data, each byte must be acknowledged
func (obj *Master) send(addressByte byte, data []byte) error {
	ack, err := obj.writeByte(addressByte)
	if err != nil {
		return err
	}
	if !ack {
		return errors.Wrapf(ErrNack, "address 0x%02X", addressByte>>1)
	}
	for i, b := range data {
		ack, err = obj.writeByte(b)
		if err != nil {
			return err
		}
		if !ack {
			return errors.Wrapf(ErrNack, "data byte %d", i)
		}
	}
	return nil
}

// receive reads into buf, acknowledging every byte but the last
func (obj *Master) receive(buf []byte) error {
	for i := range buf {
		b, err := obj.readByte(i < len(buf)-1)
		if err != nil {
			return err
		}
		buf[i] = b
	}
	return nil
}

func (obj *Master) start() error {
	if err := obj.sda.High(); err != nil {
		return errors.Wrap(err, "failed to release SDA")
	}
	if err := obj.clockHigh(); err != nil {
		return err
	}
	obj.delay()
	if err := obj.sda.Low(); err != nil {
		return errors.Wrap(err, "failed to pull SDA low")
	}
	obj.delay()
	return obj.clockLow()
}

func (obj *Master) repeatedStart() error {
	if err := obj.sda.High(); err != nil {
		return errors.Wrap(err, "failed to release SDA")
	}
	obj.delay()
	return obj.start()
}

func (obj *Master) stop() error {
	if err := obj.sda.Low(); err != nil {
		return errors.Wrap(err, "failed to pull SDA low")
	}
	obj.delay()
	if err := obj.clockHigh(); err != nil {
		return err
	}
	obj.delay()
	if err := obj.sda.High(); err != nil {
		return errors.Wrap(err, "failed to release SDA")
	}
	obj.delay()
	return nil
}

func (obj *Master) writeByte(b byte) (bool, error) {
	for i := 7; i >= 0; i-- {
		if err := obj.writeBit(b&(1<<uint(i)) != 0); err != nil {
			return false, err
		}
	}
	bit, err := obj.readBit()
	if err != nil {
		return false, err
	}
	return !bit, nil
}

func (obj *Master) readByte(ack bool) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := obj.readBit()
		if err != nil {
			return 0, err
		}
		b <<= 1
		if bit {
			b |= 1
		}
	}
	return b, obj.writeBit(!ack)
}

func (obj *Master) writeBit(bit bool) error {
	var err error
	if bit {
		err = obj.sda.High()
	} else {
		err = obj.sda.Low()
	}
	if err != nil {
		return errors.Wrap(err, "failed to set SDA")
	}
	obj.delay()
	if err = obj.clockHigh(); err != nil {
		return err
	}
	obj.delay()
	return obj.clockLow()
}

func (obj *Master) readBit() (bool, error) {
	if err := obj.sda.High(); err != nil {
		return false, errors.Wrap(err, "failed to release SDA")
	}
	obj.delay()
	if err := obj.clockHigh(); err != nil {
		return false, err
	}
	obj.delay()
	v, err := obj.sda.Value()
	if err != nil {
		return false, errors.Wrap(err, "failed to sample SDA")
	}
	return v != 0, obj.clockLow()
}

// clockHigh releases SCL and waits while a device stretches the clock
func (obj *Master) clockHigh() error {
	if err := obj.scl.High(); err != nil {
		return errors.Wrap(err, "failed to release SCL")
	}
	for i := 0; i < obj.stretchPolls; i++ {
		v, err := obj.scl.Value()
		if err != nil {
			return errors.Wrap(err, "failed to sample SCL")
		}
		if v != 0 {
			return nil
		}
		obj.delay()
	}
	return ErrClockStretch
}

func (obj *Master) clockLow() error {
	if err := obj.scl.Low(); err != nil {
		return errors.Wrap(err, "failed to pull SCL low")
	}
	return nil
}

func (obj *Master) delay() {
	if obj.halfPeriod > 0 {
		time.Sleep(obj.halfPeriod)
	}
}
