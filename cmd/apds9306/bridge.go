package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/apds9306/adapter"
	"github.com/mklimuk/apds9306/cmd/apds9306/console"
)

var bridgeCmd = cli.Command{
	Name:  "bridge",
	Usage: "inspect and control the mcp2221 usb bridge",
	Subcommands: cli.Commands{
		&bridgeStatusCmd,
		&bridgeReleaseCmd,
	},
}

var bridgeStatusCmd = cli.Command{
	Name: "status",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		bridge := adapter.NewMCP2221()
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		status, err := bridge.Status(ctx)
		if err != nil {
			return console.Exit(1, "bridge communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		err = enc.Encode(status)
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}

var bridgeReleaseCmd = cli.Command{
	Name: "release",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
	},
	Action: func(c *cli.Context) error {
		bridge := adapter.NewMCP2221()
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		err := bridge.Release(ctx)
		if err != nil {
			return console.Exit(1, "bridge communication error: %s", console.Red(err))
		}
		status, err := bridge.Status(ctx)
		if err != nil {
			return console.Exit(1, "bridge communication error: %s", console.Red(err))
		}
		enc := yaml.NewEncoder(os.Stdout)
		err = enc.Encode(status)
		if err != nil {
			return console.Exit(1, "encoding error: %s", console.Red(err))
		}
		return nil
	},
}
