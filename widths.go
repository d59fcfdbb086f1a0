package main

import (
	"github.com/pkg/errors"

	"github.com/mbalug7/go-regif/pkg/hal"
	"github.com/mbalug7/go-regif/pkg/regif"
)

type readFunc func(ri *regif.Interface, reg hal.RegAddress) ([]byte, error)

type writeFunc func(ri *regif.Interface, reg hal.RegAddress, data []byte) error

func readAs[P hal.Payload](ri *regif.Interface, reg hal.RegAddress) ([]byte, error) {
	value, err := regif.ReadRegister[P](ri, reg)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(value))
	for i := range out {
		out[i] = value[i]
	}
	return out, nil
}

func writeAs[P hal.Payload](ri *regif.Interface, reg hal.RegAddress, data []byte) error {
	var value P
	for i := 0; i < len(value); i++ {
		value[i] = data[i]
	}
	return regif.WriteRegister(ri, reg, value)
}

// register widths the CLI accepts at run time, each one bound to its compile time instantiation
var readers = [hal.MaxPayload + 1]readFunc{
	1:  readAs[[1]byte],
	2:  readAs[[2]byte],
	3:  readAs[[3]byte],
	4:  readAs[[4]byte],
	5:  readAs[[5]byte],
	6:  readAs[[6]byte],
	7:  readAs[[7]byte],
	8:  readAs[[8]byte],
	9:  readAs[[9]byte],
	10: readAs[[10]byte],
	11: readAs[[11]byte],
	12: readAs[[12]byte],
	13: readAs[[13]byte],
	14: readAs[[14]byte],
	15: readAs[[15]byte],
	16: readAs[[16]byte],
	17: readAs[[17]byte],
	18: readAs[[18]byte],
	19: readAs[[19]byte],
	20: readAs[[20]byte],
	21: readAs[[21]byte],
	22: readAs[[22]byte],
	23: readAs[[23]byte],
	24: readAs[[24]byte],
	25: readAs[[25]byte],
	26: readAs[[26]byte],
	27: readAs[[27]byte],
	28: readAs[[28]byte],
	29: readAs[[29]byte],
	30: readAs[[30]byte],
	31: readAs[[31]byte],
	32: readAs[[32]byte],
}

var writers = [hal.MaxPayload + 1]writeFunc{
	0:  writeAs[[0]byte],
	1:  writeAs[[1]byte],
	2:  writeAs[[2]byte],
	3:  writeAs[[3]byte],
	4:  writeAs[[4]byte],
	5:  writeAs[[5]byte],
	6:  writeAs[[6]byte],
	7:  writeAs[[7]byte],
	8:  writeAs[[8]byte],
	9:  writeAs[[9]byte],
	10: writeAs[[10]byte],
	11: writeAs[[11]byte],
	12: writeAs[[12]byte],
	13: writeAs[[13]byte],
	14: writeAs[[14]byte],
	15: writeAs[[15]byte],
	16: writeAs[[16]byte],
	17: writeAs[[17]byte],
	18: writeAs[[18]byte],
	19: writeAs[[19]byte],
	20: writeAs[[20]byte],
	21: writeAs[[21]byte],
	22: writeAs[[22]byte],
	23: writeAs[[23]byte],
	24: writeAs[[24]byte],
	25: writeAs[[25]byte],
	26: writeAs[[26]byte],
	27: writeAs[[27]byte],
	28: writeAs[[28]byte],
	29: writeAs[[29]byte],
	30: writeAs[[30]byte],
	31: writeAs[[31]byte],
	32: writeAs[[32]byte],
}

func readerFor(width int) (readFunc, error) {
	if width < 1 || width > hal.MaxPayload {
		return nil, errors.Errorf("register width must be between 1 and %d bytes", hal.MaxPayload)
	}
	return readers[width], nil
}

func writerFor(width int) (writeFunc, error) {
	if width < 0 || width > hal.MaxPayload {
		return nil, errors.Errorf("register value must be at most %d bytes", hal.MaxPayload)
	}
	return writers[width], nil
}
