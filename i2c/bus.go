package i2c

import (
	"context"
	"fmt"

	"github.com/mklimuk/apds9306"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var _ apds9306.I2CBus = &GenericBus{}

// GenericBus exposes a kernel I2C device through periph.io.
type GenericBus struct {
	bus i2c.BusCloser
}

func NewGenericBus(dev string) (*GenericBus, error) {
	_, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus: %w", err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c device %x: %w", address, err)
	}
	return nil
}

// ReadRegFromAddr performs the register write and the read back in a single
// transaction with a repeated start.
func (b *GenericBus) ReadRegFromAddr(ctx context.Context, address, reg byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), []byte{reg}, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %x from i2c device %x: %w", reg, address, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}
