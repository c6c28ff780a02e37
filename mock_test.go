package apds9306

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSensor_StaticBehavior(t *testing.T) {
	sensor := NewMockSensor(func(ctx context.Context) (MeasurementData, error) {
		return MeasurementData{ALS: 1500, Clear: 1100}, nil
	})

	data, err := sensor.ReadMeasurementData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MeasurementData{ALS: 1500, Clear: 1100}, data)
}

func TestMockSensor_DynamicBehavior(t *testing.T) {
	var counter uint32
	sensor := NewMockSensor(func(ctx context.Context) (MeasurementData, error) {
		counter++
		return MeasurementData{ALS: counter * 100, Clear: counter * 50}, nil
	})

	ctx := context.Background()
	first, err := sensor.ReadMeasurementData(ctx)
	require.NoError(t, err)
	second, err := sensor.ReadMeasurementData(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), first.ALS)
	assert.Equal(t, uint32(200), second.ALS)
}

func TestMockSensor_ErrorBehavior(t *testing.T) {
	sensor := NewMockSensor(func(ctx context.Context) (MeasurementData, error) {
		return MeasurementData{}, fmt.Errorf("sensor malfunction")
	})

	_, err := sensor.ReadMeasurementData(context.Background())
	assert.EqualError(t, err, "sensor malfunction")
}

func TestMockSensor_SatisfiesInterface(t *testing.T) {
	var _ AmbientLightSensor = NewMockSensor(nil)
	var _ AmbientLightSensor = &APDS9306{}
}
