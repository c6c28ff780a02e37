// Package apds9306 drives the Broadcom APDS-9306 / APDS-9306-065 digital
// ambient light sensor over I2C.
//
// The driver returns raw 20-bit channel counts and leaves the photometric
// conversion to the caller. Typical usage:
//
//	bus, _ := i2c.NewGenericBus("/dev/i2c-1")
//	sensor, err := apds9306.New(ctx, bus, apds9306.VariantAPDS9306)
//	if err != nil { ... }
//	_ = sensor.Configure(ctx, apds9306.DefaultConfig())
//	_ = sensor.Enable(ctx)
//	data, err := sensor.ReadMeasurementData(ctx)
package apds9306

import (
	"context"
	"fmt"
	"time"
)

// Addr is the fixed 7-bit I2C address of the device.
const Addr byte = 0x52

var ErrDeviceNotFound = fmt.Errorf("apds9306: device not found")
var ErrTimeout = fmt.Errorf("apds9306: timeout")

// Variant distinguishes the two part numbers sharing the register map.
type Variant byte

const (
	VariantAPDS9306    Variant = iota // part id 0xB1
	VariantAPDS9306065                // part id 0xB3, the "-065" package
)

func (v Variant) partID() byte {
	if v == VariantAPDS9306065 {
		return 0xB3
	}
	return 0xB1
}

func (v Variant) String() string {
	if v == VariantAPDS9306065 {
		return "APDS-9306-065"
	}
	return "APDS-9306"
}

// APDS9306 owns the bus transport exclusively; operations must not run
// concurrently on the same instance. The cached configurations reflect the
// last values the caller attempted to set, not necessarily the device state
// if an intermediate write of a multi-register sequence failed.
type APDS9306 struct {
	transport I2CBus
	buf       []byte

	config    Config
	intConfig InterruptConfig
}

// New verifies the part identity on the bus and returns a driver holding
// the default sensing and interrupt configuration. Nothing is written to
// the device; the caller configures and enables it explicitly.
func New(ctx context.Context, transport I2CBus, variant Variant) (*APDS9306, error) {
	sensor := &APDS9306{
		transport: transport,
		buf:       make([]byte, 3),
		config:    DefaultConfig(),
		intConfig: DefaultInterruptConfig(),
	}
	id, err := sensor.readRegister(ctx, regPartID)
	if err != nil {
		return nil, fmt.Errorf("apds9306: could not read part id: %w", err)
	}
	if id != variant.partID() {
		return nil, fmt.Errorf("%w: part id %#x, expected %#x (%s)", ErrDeviceNotFound, id, variant.partID(), variant)
	}
	return sensor, nil
}

// Reset writes the software reset bit. Cached configuration is untouched.
// The datasheet gives no reset completion time; any settling delay is up
// to the caller.
func (s *APDS9306) Reset(ctx context.Context) error {
	err := s.writeRegister(ctx, regMainCtrl, mainCtrlSWReset)
	if err != nil {
		return fmt.Errorf("apds9306: could not trigger software reset: %w", err)
	}
	return nil
}

// Enable sets the ALS enable bit, preserving the other MAIN_CTRL bits.
func (s *APDS9306) Enable(ctx context.Context) error {
	current, err := s.readRegister(ctx, regMainCtrl)
	if err != nil {
		return fmt.Errorf("apds9306: could not read main control register: %w", err)
	}
	err = s.writeRegister(ctx, regMainCtrl, current|mainCtrlEnable)
	if err != nil {
		return fmt.Errorf("apds9306: could not enable sensor: %w", err)
	}
	return nil
}

// Disable clears the ALS enable bit, preserving the other MAIN_CTRL bits.
func (s *APDS9306) Disable(ctx context.Context) error {
	current, err := s.readRegister(ctx, regMainCtrl)
	if err != nil {
		return fmt.Errorf("apds9306: could not read main control register: %w", err)
	}
	err = s.writeRegister(ctx, regMainCtrl, current&^mainCtrlEnable)
	if err != nil {
		return fmt.Errorf("apds9306: could not disable sensor: %w", err)
	}
	return nil
}

// Configure stores the sensing configuration and writes MEAS_RATE followed
// by GAIN. On partial failure the device holds the old gain with the new
// rate; there is no rollback, the caller retries Configure as a whole.
func (s *APDS9306) Configure(ctx context.Context, config Config) error {
	s.config = config
	err := s.writeRegister(ctx, regMeasRate, config.measRateByte())
	if err != nil {
		return fmt.Errorf("apds9306: could not write measurement rate: %w", err)
	}
	err = s.writeRegister(ctx, regGain, config.gainByte())
	if err != nil {
		return fmt.Errorf("apds9306: could not write gain: %w", err)
	}
	return nil
}

// ConfigureInterrupt stores the interrupt configuration and writes the
// nine interrupt registers in fixed order. Same partial-failure policy
// as Configure.
func (s *APDS9306) ConfigureInterrupt(ctx context.Context, config InterruptConfig) error {
	s.intConfig = config
	upper := encodeCount(config.UpperThreshold)
	lower := encodeCount(config.LowerThreshold)
	sequence := []struct {
		reg   byte
		value byte
	}{
		{regIntCfg, config.intCfgByte()},
		{regIntPersistence, config.persistenceByte()},
		{regThresholdUp0, upper[0]},
		{regThresholdUp1, upper[1]},
		{regThresholdUp2, upper[2]},
		{regThresholdLow0, lower[0]},
		{regThresholdLow1, lower[1]},
		{regThresholdLow2, lower[2]},
		{regThresholdVar, config.varianceByte()},
	}
	for _, w := range sequence {
		err := s.writeRegister(ctx, w.reg, w.value)
		if err != nil {
			return fmt.Errorf("apds9306: could not write interrupt register %#x: %w", w.reg, err)
		}
	}
	return nil
}

// ReadData reads the 20-bit ALS channel count.
func (s *APDS9306) ReadData(ctx context.Context) (uint32, error) {
	err := s.transport.ReadRegFromAddr(ctx, Addr, regData0, s.buf)
	if err != nil {
		return 0, fmt.Errorf("apds9306: could not read als data: %w", err)
	}
	return decodeCount(s.buf), nil
}

// ReadClearData reads the 20-bit clear channel count.
func (s *APDS9306) ReadClearData(ctx context.Context) (uint32, error) {
	err := s.transport.ReadRegFromAddr(ctx, Addr, regClearData0, s.buf)
	if err != nil {
		return 0, fmt.Errorf("apds9306: could not read clear data: %w", err)
	}
	return decodeCount(s.buf), nil
}

// ReadMeasurementData reads both channels. The two reads are separate bus
// transactions, so the channels are not sampled atomically.
func (s *APDS9306) ReadMeasurementData(ctx context.Context) (MeasurementData, error) {
	als, err := s.ReadData(ctx)
	if err != nil {
		return MeasurementData{}, err
	}
	clear, err := s.ReadClearData(ctx)
	if err != nil {
		return MeasurementData{}, err
	}
	return MeasurementData{ALS: als, Clear: clear}, nil
}

// ReadStatus returns the raw MAIN_STATUS byte.
func (s *APDS9306) ReadStatus(ctx context.Context) (byte, error) {
	status, err := s.readRegister(ctx, regMainStatus)
	if err != nil {
		return 0, fmt.Errorf("apds9306: could not read status register: %w", err)
	}
	return status, nil
}

// GetStatus reads MAIN_STATUS and decodes all three flags.
func (s *APDS9306) GetStatus(ctx context.Context) (Status, error) {
	status, err := s.ReadStatus(ctx)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(status), nil
}

// IsPowerOn reports whether the power-on status bit is set.
func (s *APDS9306) IsPowerOn(ctx context.Context) (bool, error) {
	status, err := s.ReadStatus(ctx)
	if err != nil {
		return false, err
	}
	return status&statusPowerOn != 0, nil
}

// IsInterrupt reports whether the interrupt status bit is set.
func (s *APDS9306) IsInterrupt(ctx context.Context) (bool, error) {
	status, err := s.ReadStatus(ctx)
	if err != nil {
		return false, err
	}
	return status&statusInterrupt != 0, nil
}

// IsDataReady reports whether a new measurement is available.
func (s *APDS9306) IsDataReady(ctx context.Context) (bool, error) {
	status, err := s.ReadStatus(ctx)
	if err != nil {
		return false, err
	}
	return status&statusDataReady != 0, nil
}

// WaitForData polls the data-ready flag until it is set or the timeout
// expires. The poll interval derives from the configured measurement rate.
func (s *APDS9306) WaitForData(ctx context.Context, timeout time.Duration) error {
	interval := s.config.MeasurementRate.Interval() / 4
	if interval <= 0 {
		interval = time.Millisecond
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		ready, err := s.IsDataReady(ctx)
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
		select {
		case <-ticker.C:
		case <-deadline.C:
			return fmt.Errorf("%w: no data after %s", ErrTimeout, timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ReadDeviceConfig reads MEAS_RATE and GAIN back from the device and
// decodes them. The cached configuration is not updated; callers use this
// to detect drift after a failed Configure or an external reset.
func (s *APDS9306) ReadDeviceConfig(ctx context.Context) (Config, error) {
	measRate, err := s.readRegister(ctx, regMeasRate)
	if err != nil {
		return Config{}, fmt.Errorf("apds9306: could not read measurement rate: %w", err)
	}
	gain, err := s.readRegister(ctx, regGain)
	if err != nil {
		return Config{}, fmt.Errorf("apds9306: could not read gain: %w", err)
	}
	config, err := decodeConfig(measRate, gain)
	if err != nil {
		return Config{}, fmt.Errorf("apds9306: unexpected configuration on device: %w", err)
	}
	return config, nil
}

// ReadDeviceInterruptConfig reads the interrupt registers back from the
// device and decodes them. The cached configuration is not updated.
func (s *APDS9306) ReadDeviceInterruptConfig(ctx context.Context) (InterruptConfig, error) {
	intCfg, err := s.readRegister(ctx, regIntCfg)
	if err != nil {
		return InterruptConfig{}, fmt.Errorf("apds9306: could not read interrupt configuration: %w", err)
	}
	persistence, err := s.readRegister(ctx, regIntPersistence)
	if err != nil {
		return InterruptConfig{}, fmt.Errorf("apds9306: could not read interrupt persistence: %w", err)
	}
	var upper, lower [3]byte
	err = s.transport.ReadRegFromAddr(ctx, Addr, regThresholdUp0, upper[:])
	if err != nil {
		return InterruptConfig{}, fmt.Errorf("apds9306: could not read upper threshold: %w", err)
	}
	err = s.transport.ReadRegFromAddr(ctx, Addr, regThresholdLow0, lower[:])
	if err != nil {
		return InterruptConfig{}, fmt.Errorf("apds9306: could not read lower threshold: %w", err)
	}
	variance, err := s.readRegister(ctx, regThresholdVar)
	if err != nil {
		return InterruptConfig{}, fmt.Errorf("apds9306: could not read variance threshold: %w", err)
	}
	config, err := decodeInterruptConfig(intCfg, persistence, upper[:], lower[:], variance)
	if err != nil {
		return InterruptConfig{}, fmt.Errorf("apds9306: unexpected interrupt configuration on device: %w", err)
	}
	return config, nil
}

// Config returns the last sensing configuration passed to Configure.
// It does not touch the bus.
func (s *APDS9306) Config() Config {
	return s.config
}

// InterruptConfig returns the last interrupt configuration passed to
// ConfigureInterrupt. It does not touch the bus.
func (s *APDS9306) InterruptConfig() InterruptConfig {
	return s.intConfig
}

// Release hands the bus transport back to the caller. The driver must not
// be used afterwards.
func (s *APDS9306) Release() I2CBus {
	transport := s.transport
	s.transport = nil
	return transport
}

func (s *APDS9306) readRegister(ctx context.Context, reg byte) (byte, error) {
	buf := s.buf[:1]
	err := s.transport.ReadRegFromAddr(ctx, Addr, reg, buf)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (s *APDS9306) writeRegister(ctx context.Context, reg, value byte) error {
	return s.transport.WriteToAddr(ctx, Addr, []byte{reg, value})
}
