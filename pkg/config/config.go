// Package config loads regtool settings from a TOML file and REGTOOL_ environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mbalug7/go-regif/pkg/hal"
)

const (
	TransportI2CDev   = "i2cdev"
	TransportPeriph   = "periph"
	TransportBridge   = "bridge"
	TransportBitbang  = "bitbang"
	TransportEmulator = "emulator"
)

type Config struct {
	Transport string
	Address   hal.DeviceAddress

	Device string // i2c-dev node, e.g. /dev/i2c-1
	Name   string // periph.io bus name, empty for the first bus

	BridgePort string
	BridgeBaud int

	GPIOChip   string
	SDA        int
	SCL        int
	HalfPeriod time.Duration

	LogLevel string
	Trace    bool
}

func defaults(v *viper.Viper) {
	v.SetDefault("transport", TransportI2CDev)
	v.SetDefault("device.address", 0)
	v.SetDefault("bus.device", "/dev/i2c-1")
	v.SetDefault("bus.name", "")
	v.SetDefault("bridge.port", "/dev/ttyUSB0")
	v.SetDefault("bridge.baud", 9600)
	v.SetDefault("bitbang.chip", "gpiochip0")
	v.SetDefault("bitbang.sda", 2)
	v.SetDefault("bitbang.scl", 3)
	v.SetDefault("bitbang.halfperiod", "5us")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.trace", false)
}

// Load reads path when it exists. A missing file is only an error when required is set.
func Load(path string, required bool) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("regtool")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigType("toml")
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "failed to read config %s", path)
			}
		case required || !os.IsNotExist(err):
			return nil, errors.Wrapf(err, "failed to open config %s", path)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	address := v.GetInt("device.address")
	if address < 0 || address > int(hal.MaxAddress) {
		return nil, errors.Errorf("device address %d is not a 7-bit address", address)
	}
	cfg := &Config{
		Transport:  strings.ToLower(v.GetString("transport")),
		Address:    hal.DeviceAddress(address),
		Device:     v.GetString("bus.device"),
		Name:       v.GetString("bus.name"),
		BridgePort: v.GetString("bridge.port"),
		BridgeBaud: v.GetInt("bridge.baud"),
		GPIOChip:   v.GetString("bitbang.chip"),
		SDA:        v.GetInt("bitbang.sda"),
		SCL:        v.GetInt("bitbang.scl"),
		HalfPeriod: v.GetDuration("bitbang.halfperiod"),
		LogLevel:   v.GetString("log.level"),
		Trace:      v.GetBool("log.trace"),
	}
	switch cfg.Transport {
	case TransportI2CDev, TransportPeriph, TransportBridge, TransportBitbang, TransportEmulator:
	default:
		return nil, errors.Errorf("unknown transport %q", cfg.Transport)
	}
	return cfg, nil
}
