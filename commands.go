package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/mbalug7/go-regif/pkg/config"
	"github.com/mbalug7/go-regif/pkg/hal"
	"github.com/mbalug7/go-regif/pkg/regif"
)

// session is an opened bus plus the register interface built on it
type session struct {
	cfg *config.Config
	bus hal.BusCloser
	ri  *regif.Interface
}

func (obj *session) Close() {
	if err := obj.bus.Close(); err != nil {
		log.WithError(err).Warn("failed to close bus")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"), c.GlobalIsSet("config"))
	if err != nil {
		return nil, err
	}
	if c.GlobalIsSet("transport") {
		cfg.Transport = strings.ToLower(c.GlobalString("transport"))
	}
	if c.GlobalIsSet("address") {
		address, err := parseAddress(c.GlobalString("address"))
		if err != nil {
			return nil, err
		}
		cfg.Address = address
	}
	if c.GlobalIsSet("loglevel") {
		cfg.LogLevel = c.GlobalString("loglevel")
	}
	if c.GlobalBool("trace") {
		cfg.Trace = true
	}
	return cfg, nil
}

func openSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if err = setupLogging(cfg.LogLevel); err != nil {
		return nil, err
	}
	bus, err := openBus(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Trace {
		bus = hal.NewTracedBus(bus, log.WithField("transport", cfg.Transport))
	}
	log.WithFields(log.Fields{
		"prefix":    "regtool",
		"transport": cfg.Transport,
		"address":   fmt.Sprintf("0x%02X", cfg.Address.ToByte()),
	}).Debug("bus opened")
	return &session{
		cfg: cfg,
		bus: bus,
		ri:  regif.New(bus, cfg.Address),
	}, nil
}

func parseAddress(s string) (hal.DeviceAddress, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid address %q", s)
	}
	address := hal.DeviceAddress(v)
	if !address.Is7Bit() {
		return 0, errors.Errorf("address 0x%02X is not a 7-bit address", address.ToByte())
	}
	return address, nil
}

func parseRegister(s string) (hal.RegAddress, error) {
	if s == "" {
		return 0, errors.New("register index is required")
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid register %q", s)
	}
	return hal.RegAddress(v), nil
}

func parseData(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", ",", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid data %q", s)
	}
	return data, nil
}

func readCmd(c *cli.Context) error {
	reg, err := parseRegister(c.String("reg"))
	if err != nil {
		return err
	}
	read, err := readerFor(c.Int("width"))
	if err != nil {
		return err
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	value, err := read(s.ri, reg)
	if err != nil {
		return errors.Wrapf(err, "failed to read register 0x%02X", reg.ToByte())
	}
	fmt.Fprintf(c.App.Writer, "0x%02X: % X\n", reg.ToByte(), value)
	return nil
}

func writeCmd(c *cli.Context) error {
	reg, err := parseRegister(c.String("reg"))
	if err != nil {
		return err
	}
	data, err := parseData(c.String("data"))
	if err != nil {
		return err
	}
	write, err := writerFor(len(data))
	if err != nil {
		return err
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if err = write(s.ri, reg, data); err != nil {
		return errors.Wrapf(err, "failed to write register 0x%02X", reg.ToByte())
	}
	return nil
}

func dumpCmd(c *cli.Context) error {
	from, err := parseRegister(c.String("from"))
	if err != nil {
		return err
	}
	to, err := parseRegister(c.String("to"))
	if err != nil {
		return err
	}
	if to < from {
		return errors.Errorf("empty range 0x%02X..0x%02X", from.ToByte(), to.ToByte())
	}
	width := c.Int("width")
	read, err := readerFor(width)
	if err != nil {
		return err
	}
	s, err := openSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	for reg := int(from); reg <= int(to); reg += width {
		value, err := read(s.ri, hal.RegAddress(reg))
		if err != nil {
			return errors.Wrapf(err, "failed to read register 0x%02X", reg)
		}
		fmt.Fprintf(c.App.Writer, "0x%02X: % X\n", reg, value)
	}
	return nil
}
