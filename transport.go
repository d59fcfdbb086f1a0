package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/mbalug7/go-regif/pkg/bridge"
	"github.com/mbalug7/go-regif/pkg/config"
	"github.com/mbalug7/go-regif/pkg/emulator"
	"github.com/mbalug7/go-regif/pkg/hal"
	"github.com/mbalug7/go-regif/pkg/periphio"
)

// emulatorBus lets the CLI run without hardware
type emulatorBus struct {
	*emulator.Bus
}

func (obj emulatorBus) Close() error {
	return nil
}

func openBus(cfg *config.Config) (hal.BusCloser, error) {
	switch cfg.Transport {
	case config.TransportPeriph:
		return periphio.Open(cfg.Name)
	case config.TransportBridge:
		return bridge.Open(cfg.BridgePort, cfg.BridgeBaud, log.WithField("port", cfg.BridgePort))
	case config.TransportEmulator:
		return emulatorBus{emulator.NewBus(cfg.Address)}, nil
	}
	return openPlatformBus(cfg)
}
