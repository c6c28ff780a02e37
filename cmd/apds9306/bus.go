package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/apds9306"
	"github.com/mklimuk/apds9306/adapter"
	"github.com/mklimuk/apds9306/i2c"
)

var adapterFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   "generic",
		Usage:   "bus adapter: generic, mcp2221 or nanopi",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Value:   "/dev/i2c-1",
	},
	&cli.IntFlag{
		Name:  "bus",
		Value: -1,
		Usage: "gobot i2c bus number",
	},
	&cli.StringFlag{
		Name:    "sensor",
		Aliases: []string{"s"},
		Value:   "apds9306",
		Usage:   "sensor variant: apds9306 or apds9306-065",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

func openBus(ctx context.Context, c *cli.Context) (apds9306.I2CBus, error) {
	switch c.String("adapter") {
	case "mcp2221":
		bridge := adapter.NewMCP2221()
		err := bridge.Init(ctx)
		if err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return bridge, nil
	case "generic":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		return bus, nil
	case "nanopi":
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		return adapter.NewGobotBus(npi, c.Int("bus")), nil
	}
	return nil, fmt.Errorf("unknown adapter %q", c.String("adapter"))
}

func variantFlag(c *cli.Context) apds9306.Variant {
	if c.String("sensor") == "apds9306-065" {
		return apds9306.VariantAPDS9306065
	}
	return apds9306.VariantAPDS9306
}

// openSensor builds the bus from the adapter flags and verifies the device
// identity on it.
func openSensor(ctx context.Context, c *cli.Context) (*apds9306.APDS9306, error) {
	bus, err := openBus(ctx, c)
	if err != nil {
		return nil, err
	}
	sensor, err := apds9306.New(ctx, bus, variantFlag(c))
	if err != nil {
		releaseErr := bus.Release(ctx)
		if releaseErr != nil {
			slog.Debug("could not release bus", "error", releaseErr)
		}
		return nil, err
	}
	return sensor, nil
}

func closeSensor(ctx context.Context, sensor *apds9306.APDS9306) {
	bus := sensor.Release()
	err := bus.Release(ctx)
	if err != nil {
		slog.Debug("could not release bus", "error", err)
	}
}
