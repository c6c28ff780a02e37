package apds9306

import (
	"fmt"
	"time"
)

var ErrInvalidConfig = fmt.Errorf("apds9306: invalid configuration")

// Measurements and thresholds are 20-bit quantities spread over three
// consecutive registers, LSB first. The top nibble of the third register
// is reserved.
const countMask = 0xFFFFF

// Resolution selects the ADC bit width. Codes are the MEAS_RATE
// register bits 6:4.
type Resolution byte

const (
	Resolution20Bit Resolution = 0b000
	Resolution19Bit Resolution = 0b001
	Resolution18Bit Resolution = 0b010
	Resolution17Bit Resolution = 0b011
	Resolution16Bit Resolution = 0b100
	Resolution13Bit Resolution = 0b101
)

// Bits returns the ADC width in bits.
func (r Resolution) Bits() int {
	switch r {
	case Resolution20Bit:
		return 20
	case Resolution19Bit:
		return 19
	case Resolution18Bit:
		return 18
	case Resolution17Bit:
		return 17
	case Resolution16Bit:
		return 16
	case Resolution13Bit:
		return 13
	}
	return 0
}

// ConversionTime returns the ADC conversion time for the resolution.
func (r Resolution) ConversionTime() time.Duration {
	switch r {
	case Resolution20Bit:
		return 400 * time.Millisecond
	case Resolution19Bit:
		return 200 * time.Millisecond
	case Resolution18Bit:
		return 100 * time.Millisecond
	case Resolution17Bit:
		return 50 * time.Millisecond
	case Resolution16Bit:
		return 25 * time.Millisecond
	case Resolution13Bit:
		return 3125 * time.Microsecond
	}
	return 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%d-bit", r.Bits())
}

// ResolutionFromBits maps an ADC width in bits to its register code.
func ResolutionFromBits(bits int) (Resolution, error) {
	switch bits {
	case 20:
		return Resolution20Bit, nil
	case 19:
		return Resolution19Bit, nil
	case 18:
		return Resolution18Bit, nil
	case 17:
		return Resolution17Bit, nil
	case 16:
		return Resolution16Bit, nil
	case 13:
		return Resolution13Bit, nil
	}
	return 0, fmt.Errorf("%w: unsupported resolution %d bits", ErrInvalidConfig, bits)
}

func resolutionFromCode(code byte) (Resolution, error) {
	if code > byte(Resolution13Bit) {
		return 0, fmt.Errorf("%w: unknown resolution code %#b", ErrInvalidConfig, code)
	}
	return Resolution(code), nil
}

// MeasurementRate selects the interval between measurements. Codes are
// the MEAS_RATE register bits 2:0.
type MeasurementRate byte

const (
	Rate25ms   MeasurementRate = 0b000
	Rate50ms   MeasurementRate = 0b001
	Rate100ms  MeasurementRate = 0b010
	Rate200ms  MeasurementRate = 0b011
	Rate500ms  MeasurementRate = 0b100
	Rate1000ms MeasurementRate = 0b101
	Rate2000ms MeasurementRate = 0b110
)

// Interval returns the measurement repeat interval.
func (r MeasurementRate) Interval() time.Duration {
	switch r {
	case Rate25ms:
		return 25 * time.Millisecond
	case Rate50ms:
		return 50 * time.Millisecond
	case Rate100ms:
		return 100 * time.Millisecond
	case Rate200ms:
		return 200 * time.Millisecond
	case Rate500ms:
		return 500 * time.Millisecond
	case Rate1000ms:
		return time.Second
	case Rate2000ms:
		return 2 * time.Second
	}
	return 0
}

func (r MeasurementRate) String() string {
	return r.Interval().String()
}

// RateFromInterval maps a measurement interval to its register code.
func RateFromInterval(interval time.Duration) (MeasurementRate, error) {
	for _, r := range []MeasurementRate{Rate25ms, Rate50ms, Rate100ms, Rate200ms, Rate500ms, Rate1000ms, Rate2000ms} {
		if r.Interval() == interval {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported measurement interval %s", ErrInvalidConfig, interval)
}

func rateFromCode(code byte) (MeasurementRate, error) {
	if code > byte(Rate2000ms) {
		return 0, fmt.Errorf("%w: unknown measurement rate code %#b", ErrInvalidConfig, code)
	}
	return MeasurementRate(code), nil
}

// Gain selects the analog amplification factor. Codes are the GAIN
// register bits 2:0.
type Gain byte

const (
	Gain1  Gain = 0b000
	Gain3  Gain = 0b001
	Gain6  Gain = 0b010
	Gain9  Gain = 0b011
	Gain18 Gain = 0b100
)

// Factor returns the amplification factor.
func (g Gain) Factor() int {
	switch g {
	case Gain1:
		return 1
	case Gain3:
		return 3
	case Gain6:
		return 6
	case Gain9:
		return 9
	case Gain18:
		return 18
	}
	return 0
}

func (g Gain) String() string {
	return fmt.Sprintf("x%d", g.Factor())
}

// GainFromFactor maps an amplification factor to its register code.
func GainFromFactor(factor int) (Gain, error) {
	switch factor {
	case 1:
		return Gain1, nil
	case 3:
		return Gain3, nil
	case 6:
		return Gain6, nil
	case 9:
		return Gain9, nil
	case 18:
		return Gain18, nil
	}
	return 0, fmt.Errorf("%w: unsupported gain factor %d", ErrInvalidConfig, factor)
}

func gainFromCode(code byte) (Gain, error) {
	if code > byte(Gain18) {
		return 0, fmt.Errorf("%w: unknown gain code %#b", ErrInvalidConfig, code)
	}
	return Gain(code), nil
}

// InterruptSource selects the channel the interrupt logic observes.
type InterruptSource byte

const (
	SourceClearChannel InterruptSource = 0b00
	SourceALSChannel   InterruptSource = 0b01
)

func (s InterruptSource) String() string {
	if s == SourceClearChannel {
		return "clear"
	}
	return "als"
}

// InterruptMode selects between absolute threshold band and
// sample-to-sample variation interrupts.
type InterruptMode byte

const (
	ModeThreshold InterruptMode = 0
	ModeVariation InterruptMode = 1
)

func (m InterruptMode) String() string {
	if m == ModeVariation {
		return "variation"
	}
	return "threshold"
}

// VarianceThreshold sets the count delta that fires the interrupt in
// variation mode. Code n stands for a delta of 8*2^n counts.
type VarianceThreshold byte

const (
	Variance8Counts    VarianceThreshold = 0b000
	Variance16Counts   VarianceThreshold = 0b001
	Variance32Counts   VarianceThreshold = 0b010
	Variance64Counts   VarianceThreshold = 0b011
	Variance128Counts  VarianceThreshold = 0b100
	Variance256Counts  VarianceThreshold = 0b101
	Variance512Counts  VarianceThreshold = 0b110
	Variance1024Counts VarianceThreshold = 0b111
)

// Counts returns the variation delta in sensor counts.
func (v VarianceThreshold) Counts() int {
	return 8 << v
}

func (v VarianceThreshold) String() string {
	return fmt.Sprintf("%d counts", v.Counts())
}

// VarianceFromCounts maps a count delta to its register code.
func VarianceFromCounts(counts int) (VarianceThreshold, error) {
	for v := Variance8Counts; v <= Variance1024Counts; v++ {
		if v.Counts() == counts {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: unsupported variance threshold %d counts", ErrInvalidConfig, counts)
}

func varianceFromCode(code byte) (VarianceThreshold, error) {
	if code > byte(Variance1024Counts) {
		return 0, fmt.Errorf("%w: unknown variance threshold code %#b", ErrInvalidConfig, code)
	}
	return VarianceThreshold(code), nil
}

// Config holds the sensing parameters written to MEAS_RATE and GAIN.
type Config struct {
	Resolution      Resolution
	MeasurementRate MeasurementRate
	Gain            Gain
}

// DefaultConfig matches the device power-on configuration.
func DefaultConfig() Config {
	return Config{
		Resolution:      Resolution18Bit,
		MeasurementRate: Rate100ms,
		Gain:            Gain3,
	}
}

// measRateByte packs the resolution into the upper and the rate into the
// lower nibble of the MEAS_RATE register.
func (c Config) measRateByte() byte {
	return byte(c.Resolution)<<4 | byte(c.MeasurementRate)
}

func (c Config) gainByte() byte {
	return byte(c.Gain)
}

// decodeConfig rebuilds a Config from the MEAS_RATE and GAIN register
// bytes, rejecting codes outside the closed sets.
func decodeConfig(measRate, gain byte) (Config, error) {
	res, err := resolutionFromCode(measRate >> 4 & 0x07)
	if err != nil {
		return Config{}, err
	}
	rate, err := rateFromCode(measRate & 0x07)
	if err != nil {
		return Config{}, err
	}
	g, err := gainFromCode(gain & 0x07)
	if err != nil {
		return Config{}, err
	}
	return Config{Resolution: res, MeasurementRate: rate, Gain: g}, nil
}

// InterruptConfig holds the interrupt parameters. Persistence above 15 is
// clamped and thresholds are masked to 20 bits before transmission; both
// are silent-truncation policies the device registers impose.
type InterruptConfig struct {
	Source  InterruptSource
	Mode    InterruptMode
	Enabled bool
	// Persistence is the number of consecutive out-of-threshold samples
	// before the interrupt fires (0-15).
	Persistence       uint8
	UpperThreshold    uint32
	LowerThreshold    uint32
	VarianceThreshold VarianceThreshold
}

// DefaultInterruptConfig observes the ALS channel in threshold mode with
// the interrupt disabled and the widest possible band.
func DefaultInterruptConfig() InterruptConfig {
	return InterruptConfig{
		Source:            SourceALSChannel,
		Mode:              ModeThreshold,
		Enabled:           false,
		Persistence:       0,
		UpperThreshold:    countMask,
		LowerThreshold:    0,
		VarianceThreshold: Variance8Counts,
	}
}

// decodeInterruptConfig rebuilds an InterruptConfig from the interrupt
// register bytes. Source and mode are single-bit fields and always decode;
// a variance byte outside the 3-bit code range is rejected.
func decodeInterruptConfig(intCfg, persistence byte, upper, lower []byte, variance byte) (InterruptConfig, error) {
	v, err := varianceFromCode(variance)
	if err != nil {
		return InterruptConfig{}, err
	}
	return InterruptConfig{
		Source:            InterruptSource(intCfg >> intCfgSourceShift & 0x01),
		Mode:              InterruptMode(intCfg >> intCfgModeShift & 0x01),
		Enabled:           intCfg>>intCfgEnableShift&0x01 != 0,
		Persistence:       persistence >> persistenceShift,
		UpperThreshold:    decodeCount(upper),
		LowerThreshold:    decodeCount(lower),
		VarianceThreshold: v,
	}, nil
}

func (c InterruptConfig) intCfgByte() byte {
	var enabled byte
	if c.Enabled {
		enabled = 1
	}
	return byte(c.Source)<<intCfgSourceShift | byte(c.Mode)<<intCfgModeShift | enabled<<intCfgEnableShift
}

func (c InterruptConfig) persistenceByte() byte {
	p := c.Persistence
	if p > persistenceMax {
		p = persistenceMax
	}
	return p << persistenceShift
}

func (c InterruptConfig) varianceByte() byte {
	return byte(c.VarianceThreshold)
}

// encodeCount splits a 20-bit value into LSB, mid and MSB-nibble bytes in
// register address order.
func encodeCount(v uint32) [3]byte {
	v &= countMask
	return [3]byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

// decodeCount combines three bytes read in address order. The top nibble
// of the third byte is reserved and ignored.
func decodeCount(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2]&0x0F)<<16
}

// Status is a decoded MAIN_STATUS snapshot.
type Status struct {
	PowerOn   bool `yaml:"power_on"`
	Interrupt bool `yaml:"interrupt"`
	DataReady bool `yaml:"data_ready"`
}

func decodeStatus(b byte) Status {
	return Status{
		PowerOn:   b&statusPowerOn != 0,
		Interrupt: b&statusInterrupt != 0,
		DataReady: b&statusDataReady != 0,
	}
}

func (s Status) String() string {
	return fmt.Sprintf("power_on: %t, interrupt: %t, data_ready: %t", s.PowerOn, s.Interrupt, s.DataReady)
}

// MeasurementData holds raw channel counts. The two channels come from
// two independent register reads and are not sampled atomically.
type MeasurementData struct {
	ALS   uint32 `yaml:"als"`
	Clear uint32 `yaml:"clear"`
}

func (m MeasurementData) String() string {
	return fmt.Sprintf("als: %d, clear: %d", m.ALS, m.Clear)
}
