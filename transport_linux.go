//go:build linux

package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mbalug7/go-regif/pkg/bitbang"
	"github.com/mbalug7/go-regif/pkg/config"
	"github.com/mbalug7/go-regif/pkg/hal"
	"github.com/mbalug7/go-regif/pkg/i2cdev"
)

func openPlatformBus(cfg *config.Config) (hal.BusCloser, error) {
	switch cfg.Transport {
	case config.TransportI2CDev:
		return i2cdev.Open(cfg.Device, log.WithField("device", cfg.Device))
	case config.TransportBitbang:
		return bitbang.Open(cfg.GPIOChip, cfg.SDA, cfg.SCL, cfg.HalfPeriod, log.WithField("chip", cfg.GPIOChip))
	}
	return nil, errors.Errorf("transport %s is not available", cfg.Transport)
}
