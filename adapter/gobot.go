package adapter

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/apds9306"
)

var _ apds9306.I2CBus = &GobotBus{}

// GobotBus adapts a gobot I2C connector (NanoPi, Raspberry Pi and friends)
// to the bus capability. Connections are opened lazily per device address
// and kept for the lifetime of the bus.
type GobotBus struct {
	mx        sync.Mutex
	connector i2c.Connector
	busNr     int
	conns     map[byte]i2c.Connection
}

func NewGobotBus(connector i2c.Connector, busNr int) *GobotBus {
	if busNr < 0 {
		busNr = connector.DefaultI2cBus()
	}
	return &GobotBus{
		connector: connector,
		busNr:     busNr,
		conns:     make(map[byte]i2c.Connection),
	}
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	err = conn.WriteBytes(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c device %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) ReadRegFromAddr(ctx context.Context, address, reg byte, buffer []byte) error {
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	err = conn.ReadBlockData(reg, buffer)
	if err != nil {
		return fmt.Errorf("could not read register %x from i2c device %x: %w", reg, address, err)
	}
	return nil
}

func (b *GobotBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var first error
	for addr, conn := range b.conns {
		err := conn.Close()
		if err != nil && first == nil {
			first = fmt.Errorf("could not close connection to %x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return first
}

func (b *GobotBus) connection(address byte) (i2c.Connection, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, ok := b.conns[address]
	if ok {
		return conn, nil
	}
	conn, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not connect to i2c device %x: %w", address, err)
	}
	b.conns[address] = conn
	return conn, nil
}
