// Package bridge talks I2C through an SC18IM700 style UART to I2C bridge.
//
// The bridge accepts ASCII framed commands on its serial port:
//
//	'S' addr|rw count data... ['S' addr|rw count ...] 'P'   I2C transaction
//	'R' register 'P'                                     read an internal register
//
// After every transaction the I2CStat register is queried to learn how the bus phase ended.
package bridge

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"

	"github.com/mbalug7/go-regif/pkg/hal"
)

const (
	cmdStart    byte = 'S'
	cmdStop     byte = 'P'
	cmdReadReg  byte = 'R'
	regI2CStat  byte = 0x0A
	maxTransfer      = 255
)

// I2CStat values
const (
	statOK          byte = 0xF0
	statNackAddress byte = 0xF1
	statNackData    byte = 0xF2
	statTimeout     byte = 0xF8
)

var (
	ErrNackAddress = errors.New("bridge: address not acknowledged")
	ErrNackData    = errors.New("bridge: data not acknowledged")
	ErrTimeout     = errors.New("bridge: bus timeout")
	ErrTooLong     = errors.New("bridge: transfer longer than 255 bytes")
)

// DefaultBaud is the bridge baud rate after power up
const DefaultBaud = 9600

type Bus struct {
	port   io.ReadWriter
	mu     sync.Mutex
	buf    [2*maxTransfer + 8]byte
	logger *logrus.Entry
}

// New uses port, an already configured serial stream. Reads from port must return
// (0, nil) or an error when nothing arrives in time.
func New(port io.ReadWriter, logger *logrus.Entry) *Bus {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{
		port:   port,
		logger: logger.WithField("prefix", "bridge"),
	}
}

// Open opens the serial port the bridge is attached to
func Open(name string, baud int, logger *logrus.Entry) (*Bus, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	config := &serial.Config{
		Name:        name,
		Baud:        baud,
		Size:        8,
		ReadTimeout: 500 * time.Millisecond,
	}
	port, err := serial.OpenPort(config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open serial port %s", name)
	}
	return New(port, logger), nil
}

func (obj *Bus) Close() error {
	closer, ok := obj.port.(io.Closer)
	if !ok {
		return nil
	}
	if err := closer.Close(); err != nil {
		return errors.Wrap(err, "failed to close serial port")
	}
	return nil
}

func (obj *Bus) Write(address hal.DeviceAddress, frame []byte) error {
	if !address.Is7Bit() {
		return errors.Errorf("address 0x%02X is not a 7-bit address", address.ToByte())
	}
	if len(frame) > maxTransfer {
		return ErrTooLong
	}
	obj.mu.Lock()
	defer obj.mu.Unlock()

	cmd := obj.buf[:0]
	cmd = append(cmd, cmdStart, address.ToByte()<<1, byte(len(frame)))
	cmd = append(cmd, frame...)
	cmd = append(cmd, cmdStop)
	if _, err := obj.port.Write(cmd); err != nil {
		return errors.Wrap(err, "failed to send write command")
	}
	return obj.status()
}

func (obj *Bus) WriteRead(address hal.DeviceAddress, request []byte, response []byte) error {
	if !address.Is7Bit() {
		return errors.Errorf("address 0x%02X is not a 7-bit address", address.ToByte())
	}
	if len(request) > maxTransfer || len(response) > maxTransfer {
		return ErrTooLong
	}
	obj.mu.Lock()
	defer obj.mu.Unlock()

	cmd := obj.buf[:0]
	if len(request) > 0 {
		cmd = append(cmd, cmdStart, address.ToByte()<<1, byte(len(request)))
		cmd = append(cmd, request...)
	}
	if len(response) > 0 {
		cmd = append(cmd, cmdStart, address.ToByte()<<1|1, byte(len(response)))
	}
	if len(cmd) == 0 {
		return nil
	}
	cmd = append(cmd, cmdStop)
	if _, err := obj.port.Write(cmd); err != nil {
		return errors.Wrap(err, "failed to send write-read command")
	}

	if err := obj.readFull(response); err != nil {
		if errors.Cause(err) != ErrTimeout {
			return err
		}
		// nothing came back, ask the bridge why
		if statErr := obj.status(); statErr != nil {
			return statErr
		}
		return err
	}
	return obj.status()
}

// status reads I2CStat and maps it to an error
func (obj *Bus) status() error {
	cmd := obj.buf[:0]
	cmd = append(cmd, cmdReadReg, regI2CStat, cmdStop)
	if _, err := obj.port.Write(cmd); err != nil {
		return errors.Wrap(err, "failed to send status query")
	}
	var stat [1]byte
	if err := obj.readFull(stat[:]); err != nil {
		return errors.Wrap(err, "failed to read status")
	}
	obj.logger.WithField("status", stat[0]).Debug("bus status")
	switch stat[0] {
	case statOK:
		return nil
	case statNackAddress:
		return ErrNackAddress
	case statNackData:
		return ErrNackData
	case statTimeout:
		return ErrTimeout
	}
	return errors.Errorf("bridge: unexpected status 0x%02X", stat[0])
}

// readFull fills buf. A read that returns no data counts as a timeout,
// serial ports report an expired read timeout that way.
func (obj *Bus) readFull(buf []byte) error {
	for got := 0; got < len(buf); {
		n, err := obj.port.Read(buf[got:])
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "failed to read from serial port")
		}
		if n == 0 {
			return ErrTimeout
		}
		got += n
	}
	return nil
}
