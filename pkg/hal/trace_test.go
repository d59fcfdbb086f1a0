package hal

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubBus struct {
	err      error
	response []byte
	writes   int
	reads    int
}

func (obj *stubBus) Write(address DeviceAddress, frame []byte) error {
	obj.writes++
	return obj.err
}

func (obj *stubBus) WriteRead(address DeviceAddress, request []byte, response []byte) error {
	obj.reads++
	if obj.err != nil {
		return obj.err
	}
	copy(response, obj.response)
	return nil
}

func newLogger() (*logrus.Entry, *bytes.Buffer) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.Out = &out
	logger.SetLevel(logrus.DebugLevel)
	logger.Formatter = &logrus.TextFormatter{DisableColors: true}
	return logrus.NewEntry(logger), &out
}

func TestTracedBusPassesThrough(t *testing.T) {
	stub := &stubBus{response: []byte{0xAB, 0xCD}}
	logger, out := newLogger()
	bus := NewTracedBus(stub, logger)

	if err := bus.Write(0x22, []byte{0x21, 0x8E}); err != nil {
		t.Fatal(err)
	}
	response := make([]byte, 2)
	if err := bus.WriteRead(0x22, []byte{0x21}, response); err != nil {
		t.Fatal(err)
	}
	if response[0] != 0xAB || response[1] != 0xCD {
		t.Errorf("response % X", response)
	}
	if stub.writes != 1 || stub.reads != 1 {
		t.Errorf("writes %d reads %d", stub.writes, stub.reads)
	}
	logged := out.String()
	for _, s := range []string{"address=0x22", "21 8E", "AB CD", "tx="} {
		if !strings.Contains(logged, s) {
			t.Errorf("log is missing %q:\n%s", s, logged)
		}
	}
}

func TestTracedBusKeepsErrors(t *testing.T) {
	errBus := errors.New("nack")
	logger, _ := newLogger()
	bus := NewTracedBus(&stubBus{err: errBus}, logger)

	if err := bus.Write(0x10, []byte{0}); err != errBus {
		t.Errorf("write returned %v", err)
	}
	if err := bus.WriteRead(0x10, []byte{0}, make([]byte, 1)); err != errBus {
		t.Errorf("write-read returned %v", err)
	}
	if bus.Unwrap() == nil {
		t.Error("Unwrap returned nil")
	}
	if err := bus.Close(); err != nil {
		t.Errorf("close of a bus without resources returned %v", err)
	}
}
