package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/apds9306/cmd/apds9306/console"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "read raw channel counts",
	Flags: append(adapterFlags,
		&cli.StringFlag{
			Name:  "channel",
			Value: "both",
			Usage: "als, clear or both",
		},
		&cli.BoolFlag{
			Name:  "wait",
			Usage: "wait for a fresh measurement before reading",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: 3 * time.Second,
		},
	),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		if c.Bool("wait") {
			err = sensor.WaitForData(ctx, c.Duration("timeout"))
			if err != nil {
				return console.Exit(1, "error waiting for data: %s", console.Red(err))
			}
		}
		switch c.String("channel") {
		case "als":
			als, err := sensor.ReadData(ctx)
			if err != nil {
				return console.Exit(1, "error reading als channel: %s", console.Red(err))
			}
			console.PInfof(console.PictoSun, "als: %s counts", console.White(als))
		case "clear":
			clear, err := sensor.ReadClearData(ctx)
			if err != nil {
				return console.Exit(1, "error reading clear channel: %s", console.Red(err))
			}
			console.PInfof(console.PictoMoon, "clear: %s counts", console.White(clear))
		default:
			data, err := sensor.ReadMeasurementData(ctx)
			if err != nil {
				return console.Exit(1, "error reading measurement: %s", console.Red(err))
			}
			console.PInfof(console.PictoSun, "als: %s counts", console.White(data.ALS))
			console.PInfof(console.PictoMoon, "clear: %s counts", console.White(data.Clear))
		}
		return nil
	},
}
