//go:build linux

// Package i2cdev drives an I2C adapter through the Linux i2c-dev character device.
package i2cdev

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/mbalug7/go-regif/pkg/hal"
)

const (
	ioctlRdWr uintptr = 0x0707 // I2C_RDWR
	flagRead  uint16  = 0x0001 // I2C_M_RD
)

// message mirrors struct i2c_msg
type message struct {
	address uint16
	flags   uint16
	length  uint16
	buf     uintptr
}

// rdwrData mirrors struct i2c_rdwr_ioctl_data
type rdwrData struct {
	messages    uintptr
	numMessages uint32
}

// Bus is an opened /dev/i2c-N adapter. It may be shared by several register interfaces,
// transfers are serialised.
type Bus struct {
	path   string
	mu     sync.Mutex
	file   *os.File
	logger *logrus.Entry
}

// Open opens the adapter at path, e.g. /dev/i2c-1
func Open(path string, logger *logrus.Entry) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{
		path:   path,
		file:   os.NewFile(uintptr(fd), path),
		logger: logger.WithField("prefix", "i2cdev"),
	}, nil
}

// OpenNumber opens /dev/i2c-<n>
func OpenNumber(n int, logger *logrus.Entry) (*Bus, error) {
	return Open(fmt.Sprintf("/dev/i2c-%d", n), logger)
}

func (obj *Bus) Close() error {
	obj.mu.Lock()
	defer obj.mu.Unlock()
	if err := obj.file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", obj.path)
	}
	return nil
}

func (obj *Bus) Write(address hal.DeviceAddress, frame []byte) error {
	return obj.transfer(address, frame, nil)
}

func (obj *Bus) WriteRead(address hal.DeviceAddress, request []byte, response []byte) error {
	return obj.transfer(address, request, response)
}

// messages builds the I2C_RDWR message list: the write, then the read flagged with
// I2C_M_RD. Empty buffers get no message.
func messages(address hal.DeviceAddress, writeBuf []byte, readBuf []byte) ([2]message, int) {
	var msgs [2]message
	n := 0
	if len(writeBuf) > 0 {
		msgs[n] = message{
			address: uint16(address),
			length:  uint16(len(writeBuf)),
			buf:     uintptr(unsafe.Pointer(&writeBuf[0])),
		}
		n++
	}
	if len(readBuf) > 0 {
		msgs[n] = message{
			address: uint16(address),
			flags:   flagRead,
			length:  uint16(len(readBuf)),
			buf:     uintptr(unsafe.Pointer(&readBuf[0])),
		}
		n++
	}
	return msgs, n
}

// transfer runs the write and the read as one combined transaction, the kernel emits a
// repeated start between the two messages
func (obj *Bus) transfer(address hal.DeviceAddress, writeBuf []byte, readBuf []byte) error {
	if !address.Is7Bit() {
		return errors.Errorf("address 0x%02X is not a 7-bit address", address.ToByte())
	}
	msgs, n := messages(address, writeBuf, readBuf)
	if n == 0 {
		return nil
	}

	obj.mu.Lock()
	defer obj.mu.Unlock()

	param := rdwrData{
		messages:    uintptr(unsafe.Pointer(&msgs[0])),
		numMessages: uint32(n),
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, obj.file.Fd(), ioctlRdWr, uintptr(unsafe.Pointer(&param)))

	runtime.KeepAlive(msgs)
	runtime.KeepAlive(writeBuf)
	runtime.KeepAlive(readBuf)

	if errno != 0 {
		obj.logger.WithFields(logrus.Fields{
			"address": address.ToByte(),
			"errno":   int(errno),
		}).Debug("transfer failed")
		return errors.Wrapf(errno, "failed to transfer on %s", obj.path)
	}
	return nil
}
