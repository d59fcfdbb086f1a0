//go:build pico

// Package pico connects a register interface to the RP2040 I2C peripheral under TinyGo.
package pico

import (
	"machine"

	"github.com/mbalug7/go-regif/pkg/hal"
)

type Bus struct {
	i2c *machine.I2C
}

// Config for Open. Zero values pick the board defaults.
type Config struct {
	Frequency uint32
	SDA       machine.Pin
	SCL       machine.Pin
}

// New uses an already configured peripheral
func New(i2c *machine.I2C) *Bus {
	return &Bus{i2c: i2c}
}

// Open configures i2c and wraps it
func Open(i2c *machine.I2C, cfg Config) (*Bus, error) {
	err := i2c.Configure(machine.I2CConfig{
		Frequency: cfg.Frequency,
		SDA:       cfg.SDA,
		SCL:       cfg.SCL,
	})
	if err != nil {
		return nil, err
	}
	return New(i2c), nil
}

func (obj *Bus) Write(address hal.DeviceAddress, frame []byte) error {
	return obj.i2c.Tx(uint16(address), frame, nil)
}

func (obj *Bus) WriteRead(address hal.DeviceAddress, request []byte, response []byte) error {
	return obj.i2c.Tx(uint16(address), request, response)
}
