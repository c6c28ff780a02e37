package apds9306

import (
	"context"
)

// AmbientLightSensor is the measurement surface consumers typically depend
// on; *APDS9306 satisfies it.
type AmbientLightSensor interface {
	ReadMeasurementData(ctx context.Context) (MeasurementData, error)
}

// MeasurementBehaviorFunc produces the measurement a mock sensor returns.
type MeasurementBehaviorFunc func(ctx context.Context) (MeasurementData, error)

// MockSensor implements AmbientLightSensor through a behavior function so
// consumers can be tested without hardware.
//
// Example usage:
//
//	// Static value
//	sensor := NewMockSensor(func(ctx context.Context) (MeasurementData, error) {
//		return MeasurementData{ALS: 1200, Clear: 900}, nil
//	})
//
//	// Error simulation
//	sensor := NewMockSensor(func(ctx context.Context) (MeasurementData, error) {
//		return MeasurementData{}, fmt.Errorf("sensor malfunction")
//	})
type MockSensor struct {
	behavior MeasurementBehaviorFunc
}

// NewMockSensor creates a mock sensor with the given behavior function.
// The behavior function is called whenever ReadMeasurementData is invoked.
func NewMockSensor(behavior MeasurementBehaviorFunc) *MockSensor {
	return &MockSensor{behavior: behavior}
}

// ReadMeasurementData returns whatever the behavior function produces.
func (m *MockSensor) ReadMeasurementData(ctx context.Context) (MeasurementData, error) {
	return m.behavior(ctx)
}
