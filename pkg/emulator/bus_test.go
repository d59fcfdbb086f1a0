package emulator

import (
	"errors"
	"testing"
)

func TestRegisterFile(t *testing.T) {
	bus := NewBus(0x50)
	if err := bus.Write(0x50, []byte{0xFE, 1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	// auto increment wraps around the end of the register file
	if got := bus.Peek(0xFE, 2); got[0] != 1 || got[1] != 2 {
		t.Errorf("registers % X", got)
	}
	if got := bus.Peek(0x00, 1); got[0] != 3 {
		t.Errorf("wrapped register % X", got)
	}

	response := make([]byte, 3)
	if err := bus.WriteRead(0x50, []byte{0xFE}, response); err != nil {
		t.Fatal(err)
	}
	if response[0] != 1 || response[1] != 2 || response[2] != 3 {
		t.Errorf("response % X", response)
	}
	if len(bus.Transactions()) != 2 {
		t.Errorf("recorded %d transactions", len(bus.Transactions()))
	}
	bus.Reset()
	if len(bus.Transactions()) != 0 {
		t.Error("reset kept transactions")
	}
}

func TestFixedResponse(t *testing.T) {
	bus := NewBus(0x50)
	bus.SetResponse([]byte{9})
	response := []byte{0xFF, 0xFF}
	if err := bus.WriteRead(0x50, []byte{0}, response); err != nil {
		t.Fatal(err)
	}
	if response[0] != 9 || response[1] != 0 {
		t.Errorf("response % X", response)
	}
}

func TestFailures(t *testing.T) {
	errInjected := errors.New("injected")
	bus := NewBus(0x50)
	bus.FailNext(errInjected)

	if err := bus.Write(0x50, []byte{0, 1}); err != errInjected {
		t.Errorf("expected injected error, got %v", err)
	}
	if got := bus.Peek(0, 1); got[0] != 0 {
		t.Error("failed write reached the registers")
	}
	var nack *NackError
	if err := bus.Write(0x51, []byte{0}); !errors.As(err, &nack) {
		t.Errorf("expected nack, got %v", err)
	}
	if OpWrite.String() != "write" || OpWriteRead.String() != "write-read" {
		t.Error("unexpected op names")
	}
}
