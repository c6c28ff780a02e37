// Package adapter provides I2C bus transports backed by external bridge
// hardware and robotics platforms.
package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/apds9306"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

var ErrCommandFailed = errors.New("command failed")

// MCP2221 HID command codes
const (
	cmdStatusSetParams byte = 0x10
	cmdI2CReadGetData  byte = 0x40
	cmdI2CWriteData    byte = 0x90
	cmdI2CReadData     byte = 0x91
)

var _ apds9306.I2CBus = &MCP2221{}

// MCP2221 drives the Microchip MCP2221 USB to I2C bridge over raw HID
// reports. Each transaction opens the device, exchanges one or more 64-byte
// reports and closes it again.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
}

// Status is a subset of the bridge state report covering the I2C engine.
type Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

func NewMCP2221() *MCP2221 {
	return &MCP2221{
		request:      make([]byte, 64),
		response:     make([]byte, 64),
		responseWait: 50 * time.Millisecond,
	}
}

// Init probes the bridge to fail fast when it is not attached.
func (d *MCP2221) Init(ctx context.Context) error {
	_, err := d.Status(ctx)
	if err != nil {
		return fmt.Errorf("mcp2221 probe failed: %w", err)
	}
	return nil
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.exchange(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	if d.response[1] == 0x01 {
		return apds9306.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadRegFromAddr(ctx context.Context, address, reg byte, buffer []byte) error {
	// set the register pointer first, then run the read transaction
	err := d.WriteToAddr(ctx, address, []byte{reg})
	if err != nil {
		return fmt.Errorf("could not set register pointer %x: %w", reg, err)
	}
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdI2CReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err = d.exchange(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	d.request[0] = cmdI2CReadGetData
	resetBuffer(d.response)
	err = d.exchange(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

// Status reads the bridge state report.
func (d *MCP2221) Status(ctx context.Context) (*Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	err := d.exchange(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	if d.response[1] == 0x01 {
		return nil, ErrCommandFailed
	}
	return decodeStatus(d.response), nil
}

// Release cancels any pending I2C transfer inside the bridge, freeing the
// engine for the next master.
func (d *MCP2221) Release(ctx context.Context) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = 0x10 // cancel current transfer
	err := d.exchange(ctx)
	if err != nil {
		return fmt.Errorf("transfer cancel failed: %w", err)
	}
	if d.response[1] == 0x01 {
		return ErrCommandFailed
	}
	return nil
}

func decodeStatus(buffer []byte) *Status {
	status := &Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
		ReadPending:          int(buffer[25]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

// exchange sends the prepared request report and reads the response report.
func (d *MCP2221) exchange(ctx context.Context) error {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) == 0 {
		return fmt.Errorf("MCP2221 device not found")
	}
	if len(devs) > 1 {
		return fmt.Errorf("ambiguous device identification")
	}
	dev, err := devs[0].Open()
	if err != nil {
		return fmt.Errorf("error opening device: %w", err)
	}
	defer func() {
		_ = dev.Close()
	}()
	slog.Debug("sending request to adapter", "report", hex.EncodeToString(d.request))
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short write: %d", n)
	}
	select {
	case <-time.After(d.responseWait):
	case <-ctx.Done():
		return ctx.Err()
	}
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != 64 {
		return fmt.Errorf("short read: %d", n)
	}
	slog.Debug("read response from adapter", "report", hex.EncodeToString(d.response))
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
