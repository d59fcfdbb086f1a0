package periphio

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"

	"github.com/mbalug7/go-regif/pkg/regif"
)

type txCall struct {
	addr uint16
	w    []byte
	r    int
}

// fakeBus implements periph.io i2c.Bus
type fakeBus struct {
	calls    []txCall
	response []byte
	err      error
}

func (obj *fakeBus) String() string { return "fake" }

func (obj *fakeBus) SetSpeed(f physic.Frequency) error { return nil }

func (obj *fakeBus) Tx(addr uint16, w, r []byte) error {
	obj.calls = append(obj.calls, txCall{addr: addr, w: append([]byte(nil), w...), r: len(r)})
	if obj.err != nil {
		return obj.err
	}
	copy(r, obj.response)
	return nil
}

func TestAdapter(t *testing.T) {
	fake := &fakeBus{response: []byte{0xBE, 0xEF}}
	ri := regif.New(New(fake), 0x76)

	if err := regif.WriteRegister(ri, 0xF4, [1]byte{0x27}); err != nil {
		t.Fatal(err)
	}
	value, err := regif.ReadRegister[[2]byte](ri, 0xFA)
	if err != nil {
		t.Fatal(err)
	}
	if value != [2]byte{0xBE, 0xEF} {
		t.Errorf("read %v", value)
	}

	want := []txCall{
		{addr: 0x76, w: []byte{0xF4, 0x27}},
		{addr: 0x76, w: []byte{0xFA}, r: 2},
	}
	if diff := cmp.Diff(want, fake.calls, cmp.AllowUnexported(txCall{})); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapterError(t *testing.T) {
	errTx := errors.New("i2c: nack")
	ri := regif.New(New(&fakeBus{err: errTx}), 0x76)
	if err := regif.WriteRegister(ri, 0x00, [1]byte{0}); err != errTx {
		t.Errorf("expected bus error, got %v", err)
	}
}

func TestCloseWithoutOwnership(t *testing.T) {
	if err := New(&fakeBus{}).Close(); err != nil {
		t.Error(err)
	}
}
