package apds9306

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_EncodeDecodeRoundTrip(t *testing.T) {
	resolutions := []Resolution{Resolution20Bit, Resolution19Bit, Resolution18Bit, Resolution17Bit, Resolution16Bit, Resolution13Bit}
	rates := []MeasurementRate{Rate25ms, Rate50ms, Rate100ms, Rate200ms, Rate500ms, Rate1000ms, Rate2000ms}
	gains := []Gain{Gain1, Gain3, Gain6, Gain9, Gain18}
	for _, res := range resolutions {
		for _, rate := range rates {
			for _, gain := range gains {
				cfg := Config{Resolution: res, MeasurementRate: rate, Gain: gain}
				t.Run(fmt.Sprintf("%s/%s/%s", res, rate, gain), func(t *testing.T) {
					decoded, err := decodeConfig(cfg.measRateByte(), cfg.gainByte())
					require.NoError(t, err)
					assert.Equal(t, cfg, decoded)
				})
			}
		}
	}
}

func TestConfig_DefaultEncoding(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, byte(0x22), cfg.measRateByte())
	assert.Equal(t, byte(0x01), cfg.gainByte())
}

func TestConfig_DecodeRejectsUnknownCodes(t *testing.T) {
	tests := []struct {
		name     string
		measRate byte
		gain     byte
	}{
		{"resolution code 0b110", 0b0110_0000, 0x01},
		{"resolution code 0b111", 0b0111_0010, 0x01},
		{"rate code 0b111", 0b0010_0111, 0x01},
		{"gain code 0b101", 0x22, 0b101},
		{"gain code 0b111", 0x22, 0b111},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := decodeConfig(test.measRate, test.gain)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestInterruptConfig_DefaultEncoding(t *testing.T) {
	cfg := DefaultInterruptConfig()
	assert.Equal(t, byte(0b0001_0000), cfg.intCfgByte())
	assert.Equal(t, byte(0x00), cfg.persistenceByte())
	assert.Equal(t, [3]byte{0xFF, 0xFF, 0x0F}, encodeCount(cfg.UpperThreshold))
	assert.Equal(t, [3]byte{0x00, 0x00, 0x00}, encodeCount(cfg.LowerThreshold))
	assert.Equal(t, byte(0x00), cfg.varianceByte())
}

func TestInterruptConfig_IntCfgByte(t *testing.T) {
	tests := []struct {
		name     string
		config   InterruptConfig
		expected byte
	}{
		{"als threshold disabled", InterruptConfig{Source: SourceALSChannel}, 0b0001_0000},
		{"als threshold enabled", InterruptConfig{Source: SourceALSChannel, Enabled: true}, 0b0001_0100},
		{"als variation enabled", InterruptConfig{Source: SourceALSChannel, Mode: ModeVariation, Enabled: true}, 0b0001_1100},
		{"clear threshold disabled", InterruptConfig{Source: SourceClearChannel}, 0b0000_0000},
		{"clear variation enabled", InterruptConfig{Source: SourceClearChannel, Mode: ModeVariation, Enabled: true}, 0b0000_1100},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.config.intCfgByte())
		})
	}
}

func TestInterruptConfig_PersistenceClamp(t *testing.T) {
	encode := func(p uint8) byte {
		return InterruptConfig{Persistence: p}.persistenceByte()
	}
	// values above 15 silently clamp to 15
	assert.Equal(t, encode(15), encode(20))
	assert.Equal(t, encode(15), encode(16))
	assert.Equal(t, byte(0xF0), encode(15))
	assert.NotEqual(t, encode(15), encode(14))
	assert.Equal(t, byte(0x40), encode(4))
}

func TestEncodeCount_MaskIdempotent(t *testing.T) {
	values := []uint32{0, 1, 0xFF, 0x100, 0x1234, 0xFFFFF, 0x100000, 0x123456, 0xFFFFFFFF}
	for _, v := range values {
		t.Run(fmt.Sprintf("%#x", v), func(t *testing.T) {
			encoded := encodeCount(v)
			assert.Equal(t, v&countMask, decodeCount(encoded[:]))
			// the upper nibble of the MSB byte is never transmitted
			assert.Zero(t, encoded[2]&0xF0)
		})
	}
}

func TestDecodeCount(t *testing.T) {
	tests := []struct {
		given    []byte
		expected uint32
	}{
		{[]byte{0xFF, 0xFF, 0xFF}, 0xFFFFF},
		{[]byte{0x00, 0x00, 0x10}, 0x00000},
		{[]byte{0x34, 0x12, 0x0A}, 0x0A1234},
		{[]byte{0x00, 0x00, 0x00}, 0},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, decodeCount(test.given))
		})
	}
}

func TestDecodeStatus(t *testing.T) {
	tests := []struct {
		given    byte
		expected Status
	}{
		{0x00, Status{}},
		{0x20, Status{PowerOn: true}},
		{0x10, Status{Interrupt: true}},
		{0x08, Status{DataReady: true}},
		{0x38, Status{PowerOn: true, Interrupt: true, DataReady: true}},
		// reserved bits are ignored
		{0xC7, Status{}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#x", test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, decodeStatus(test.given))
		})
	}
}

func TestResolution_Helpers(t *testing.T) {
	assert.Equal(t, 400*time.Millisecond, Resolution20Bit.ConversionTime())
	assert.Equal(t, 3125*time.Microsecond, Resolution13Bit.ConversionTime())
	assert.Equal(t, 18, Resolution18Bit.Bits())
	assert.Equal(t, "18-bit", Resolution18Bit.String())

	res, err := ResolutionFromBits(20)
	require.NoError(t, err)
	assert.Equal(t, Resolution20Bit, res)
	_, err = ResolutionFromBits(12)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMeasurementRate_Helpers(t *testing.T) {
	assert.Equal(t, 25*time.Millisecond, Rate25ms.Interval())
	assert.Equal(t, 2*time.Second, Rate2000ms.Interval())

	rate, err := RateFromInterval(500 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, Rate500ms, rate)
	_, err = RateFromInterval(300 * time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGain_Helpers(t *testing.T) {
	assert.Equal(t, 18, Gain18.Factor())
	assert.Equal(t, "x3", Gain3.String())

	gain, err := GainFromFactor(9)
	require.NoError(t, err)
	assert.Equal(t, Gain9, gain)
	_, err = GainFromFactor(2)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestVarianceThreshold_Helpers(t *testing.T) {
	assert.Equal(t, 8, Variance8Counts.Counts())
	assert.Equal(t, 1024, Variance1024Counts.Counts())

	v, err := VarianceFromCounts(64)
	require.NoError(t, err)
	assert.Equal(t, Variance64Counts, v)
	_, err = VarianceFromCounts(100)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFormatting(t *testing.T) {
	status := Status{PowerOn: true, DataReady: true}
	assert.Equal(t, "power_on: true, interrupt: false, data_ready: true", status.String())
	data := MeasurementData{ALS: 1200, Clear: 900}
	assert.Equal(t, "als: 1200, clear: 900", data.String())
}
