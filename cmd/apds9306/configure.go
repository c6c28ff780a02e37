package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/apds9306"
	"github.com/mklimuk/apds9306/cmd/apds9306/console"
)

// sensorSettings is the on-disk configuration schema. Both sections are
// optional; only the present ones are written to the device.
type sensorSettings struct {
	Sensing *struct {
		ResolutionBits int `yaml:"resolution_bits"`
		IntervalMs     int `yaml:"interval_ms"`
		Gain           int `yaml:"gain"`
	} `yaml:"sensing"`
	Interrupt *struct {
		Source         string `yaml:"source"`
		Mode           string `yaml:"mode"`
		Enabled        bool   `yaml:"enabled"`
		Persistence    uint8  `yaml:"persistence"`
		UpperThreshold uint32 `yaml:"upper_threshold"`
		LowerThreshold uint32 `yaml:"lower_threshold"`
		VarianceCounts int    `yaml:"variance_counts"`
	} `yaml:"interrupt"`
}

var configureCmd = cli.Command{
	Name:    "configure",
	Aliases: []string{"cfg"},
	Usage:   "apply sensing and interrupt configuration from a yaml file",
	Flags: append(adapterFlags,
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Required: true,
		},
	),
	Action: func(c *cli.Context) error {
		settings, err := loadSettings(c.String("file"))
		if err != nil {
			return console.Exit(1, "configuration file error: %s", console.Red(err))
		}
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor, err := openSensor(ctx, c)
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		defer closeSensor(ctx, sensor)

		if settings.Sensing != nil {
			cfg, err := sensingConfig(settings)
			if err != nil {
				return console.Exit(1, "invalid sensing configuration: %s", console.Red(err))
			}
			err = sensor.Configure(ctx, cfg)
			if err != nil {
				return console.Exit(1, "error applying sensing configuration: %s", console.Red(err))
			}
			console.PInfof(console.PictoPin, "sensing: %s resolution, %s interval, gain %s",
				console.White(cfg.Resolution), console.White(cfg.MeasurementRate), console.White(cfg.Gain))
		}
		if settings.Interrupt != nil {
			cfg, err := interruptConfig(settings)
			if err != nil {
				return console.Exit(1, "invalid interrupt configuration: %s", console.Red(err))
			}
			err = sensor.ConfigureInterrupt(ctx, cfg)
			if err != nil {
				return console.Exit(1, "error applying interrupt configuration: %s", console.Red(err))
			}
			console.PInfof(console.PictoPin, "interrupt: source %s, mode %s, enabled %s",
				console.White(cfg.Source), console.White(cfg.Mode), console.White(cfg.Enabled))
		}
		return nil
	},
}

func loadSettings(path string) (*sensorSettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	var settings sensorSettings
	err = yaml.Unmarshal(raw, &settings)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if settings.Sensing == nil && settings.Interrupt == nil {
		return nil, fmt.Errorf("%s holds neither a sensing nor an interrupt section", path)
	}
	return &settings, nil
}

func sensingConfig(settings *sensorSettings) (apds9306.Config, error) {
	resolution, err := apds9306.ResolutionFromBits(settings.Sensing.ResolutionBits)
	if err != nil {
		return apds9306.Config{}, err
	}
	rate, err := apds9306.RateFromInterval(time.Duration(settings.Sensing.IntervalMs) * time.Millisecond)
	if err != nil {
		return apds9306.Config{}, err
	}
	gain, err := apds9306.GainFromFactor(settings.Sensing.Gain)
	if err != nil {
		return apds9306.Config{}, err
	}
	return apds9306.Config{Resolution: resolution, MeasurementRate: rate, Gain: gain}, nil
}

func interruptConfig(settings *sensorSettings) (apds9306.InterruptConfig, error) {
	cfg := apds9306.DefaultInterruptConfig()
	section := settings.Interrupt
	switch section.Source {
	case "", "als":
		cfg.Source = apds9306.SourceALSChannel
	case "clear":
		cfg.Source = apds9306.SourceClearChannel
	default:
		return cfg, fmt.Errorf("unknown interrupt source %q", section.Source)
	}
	switch section.Mode {
	case "", "threshold":
		cfg.Mode = apds9306.ModeThreshold
	case "variation":
		cfg.Mode = apds9306.ModeVariation
	default:
		return cfg, fmt.Errorf("unknown interrupt mode %q", section.Mode)
	}
	cfg.Enabled = section.Enabled
	cfg.Persistence = section.Persistence
	cfg.UpperThreshold = section.UpperThreshold
	cfg.LowerThreshold = section.LowerThreshold
	if section.VarianceCounts != 0 {
		variance, err := apds9306.VarianceFromCounts(section.VarianceCounts)
		if err != nil {
			return cfg, err
		}
		cfg.VarianceThreshold = variance
	}
	return cfg, nil
}
