//go:build !linux

package main

import (
	"github.com/pkg/errors"

	"github.com/mbalug7/go-regif/pkg/config"
	"github.com/mbalug7/go-regif/pkg/hal"
)

func openPlatformBus(cfg *config.Config) (hal.BusCloser, error) {
	return nil, errors.Errorf("transport %s is only available on linux", cfg.Transport)
}
