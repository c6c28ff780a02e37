package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/apds9306/cmd/apds9306/console"
)

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "read and decode the main status register",
	Flags: adapterFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		status, err := sensor.GetStatus(ctx)
		if err != nil {
			return console.Exit(1, "error reading status: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		err = enc.Encode(status)
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var configCmd = cli.Command{
	Name:  "config",
	Usage: "read the configuration registers back from the device",
	Flags: adapterFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		cfg, err := sensor.ReadDeviceConfig(ctx)
		if err != nil {
			return console.Exit(1, "error reading sensing configuration: %s", console.Red(err))
		}
		intCfg, err := sensor.ReadDeviceInterruptConfig(ctx)
		if err != nil {
			return console.Exit(1, "error reading interrupt configuration: %s", console.Red(err))
		}
		console.PInfof(console.PictoPin, "sensing: %s resolution, %s interval, gain %s",
			console.White(cfg.Resolution), console.White(cfg.MeasurementRate), console.White(cfg.Gain))
		console.PInfof(console.PictoPin, "interrupt: source %s, mode %s, enabled %s, persistence %s",
			console.White(intCfg.Source), console.White(intCfg.Mode), console.White(intCfg.Enabled), console.White(intCfg.Persistence))
		console.PInfof(console.PictoPin, "thresholds: upper %s, lower %s, variance %s",
			console.White(intCfg.UpperThreshold), console.White(intCfg.LowerThreshold), console.White(intCfg.VarianceThreshold))
		return nil
	},
}

var enableCmd = cli.Command{
	Name:  "enable",
	Usage: "start the measurement engine",
	Flags: adapterFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		err = sensor.Enable(ctx)
		if err != nil {
			return console.Exit(1, "error enabling sensor: %s", console.Red(err))
		}
		console.PInfof(console.PictoBolt, "sensor enabled")
		return nil
	},
}

var disableCmd = cli.Command{
	Name:  "disable",
	Usage: "stop the measurement engine",
	Flags: adapterFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		err = sensor.Disable(ctx)
		if err != nil {
			return console.Exit(1, "error disabling sensor: %s", console.Red(err))
		}
		console.Infof("sensor disabled")
		return nil
	},
}

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "trigger a software reset",
	Flags: append(adapterFlags,
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "do not ask for confirmation",
		},
	),
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("reset the sensor? all device registers go back to their defaults")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Infof("aborted")
				return nil
			}
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		err = sensor.Reset(ctx)
		if err != nil {
			return console.Exit(1, "error resetting sensor: %s", console.Red(err))
		}
		console.Infof("reset triggered, allow the device a moment to settle")
		return nil
	},
}
