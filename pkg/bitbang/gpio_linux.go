//go:build linux

package bitbang

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/warthog618/gpiod"
)

// gpioLine emulates an open drain output: released lines become inputs and
// float to the pull-up, driven lines are outputs set to 0
type gpioLine struct {
	line *gpiod.Line
}

func (obj *gpioLine) High() error {
	return obj.line.Reconfigure(gpiod.AsInput)
}

func (obj *gpioLine) Low() error {
	return obj.line.Reconfigure(gpiod.AsOutput(0))
}

func (obj *gpioLine) Value() (int, error) {
	return obj.line.Value()
}

// GPIOMaster is a Master whose lines are owned by a gpiod chip
type GPIOMaster struct {
	*Master
	chip    *gpiod.Chip
	sdaLine *gpiod.Line
	sclLine *gpiod.Line
}

// Open requests the sda and scl offsets of gpioChip (e.g. gpiochip0), both released
func Open(gpioChip string, sda int, scl int, halfPeriod time.Duration, logger *logrus.Entry) (*GPIOMaster, error) {
	c, err := gpiod.NewChip(gpioChip, gpiod.WithConsumer("regif-bitbang"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GPIO chip")
	}
	sdaLine, err := c.RequestLine(sda, gpiod.AsInput)
	if err != nil {
		c.Close()
		return nil, errors.Wrap(err, "failed to request SDA GPIO line")
	}
	sclLine, err := c.RequestLine(scl, gpiod.AsInput)
	if err != nil {
		sdaLine.Close()
		c.Close()
		return nil, errors.Wrap(err, "failed to request SCL GPIO line")
	}
	return &GPIOMaster{
		Master:  NewMaster(&gpioLine{line: sdaLine}, &gpioLine{line: sclLine}, halfPeriod, logger),
		chip:    c,
		sdaLine: sdaLine,
		sclLine: sclLine,
	}, nil
}

func (obj *GPIOMaster) Close() (err error) {
	err = obj.sdaLine.Close()
	if err != nil {
		return errors.Wrap(err, "failed to close SDA line")
	}
	err = obj.sclLine.Close()
	if err != nil {
		return errors.Wrap(err, "failed to close SCL line")
	}
	err = obj.chip.Close()
	if err != nil {
		return errors.Wrap(err, "failed to close GPIO chip")
	}
	return nil
}
