package apds9306

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// AddressableWriter writes raw bytes to a 7-bit device address.
type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
}

// AddressableReader performs a register read: it writes the register address
// to the device and then reads len(buffer) bytes back from it.
type AddressableReader interface {
	ReadRegFromAddr(ctx context.Context, address, reg byte, buffer []byte) error
}

// I2CBus is the transport capability consumed by the driver. Implementations
// live in the i2c and adapter packages; tests provide mocks.
type I2CBus interface {
	AddressableReader
	AddressableWriter
	Release(ctx context.Context) error
}
