package main

import (
	"os"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "regtool"
	app.Usage = "read and write registers of I2C peripherals"
	app.Version = "0.1.0"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "./regtool.toml",
			Usage: "load configuration from `FILE`",
		},
		cli.StringFlag{
			Name:  "transport, t",
			Usage: "bus transport: i2cdev, periph, bridge, bitbang or emulator",
		},
		cli.StringFlag{
			Name:  "address, a",
			Usage: "peripheral bus address, e.g. 0x68",
		},
		cli.StringFlag{
			Name:  "loglevel",
			Usage: "log level: panic, fatal, error, warn, info, debug, trace",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "log every bus transaction",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "read",
			Usage:  "read one register",
			Action: readCmd,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "reg, r", Usage: "register index"},
				cli.IntFlag{Name: "width, w", Value: 1, Usage: "register width in bytes"},
			},
		},
		{
			Name:   "write",
			Usage:  "write one register",
			Action: writeCmd,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "reg, r", Usage: "register index"},
				cli.StringFlag{Name: "data, d", Usage: "register value as hex, e.g. 8e8f"},
			},
		},
		{
			Name:   "dump",
			Usage:  "read a range of registers",
			Action: dumpCmd,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "from", Value: "0x00", Usage: "first register"},
				cli.StringFlag{Name: "to", Value: "0xFF", Usage: "last register"},
				cli.IntFlag{Name: "width, w", Value: 1, Usage: "register width in bytes"},
			},
		},
	}
	return app
}

func setupLogging(level string) error {
	log.ErrorKey = "$error"
	formatter := new(prefixed.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	formatter.PrefixPadding = 20
	formatter.SpacePadding = 50
	log.SetFormatter(formatter)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
