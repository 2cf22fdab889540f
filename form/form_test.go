package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roadwise/roadwise/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSON(t *testing.T) {
	in, err := Decode([]byte(`{
		"mode": "auto",
		"driver_age": 27,
		"license_valid": "yes",
		"vehicle_type": "Bike",
		"road_surface": "Wet",
		"is_weekend": true,
		"route_data": {"road_type": "Highway", "speed_limit": 80},
		"source": "ignored extra field"
	}`))
	require.NoError(t, err)
	assert.Equal(t, model.ModeAuto, in.Mode)
	require.NotNil(t, in.DriverAge)
	assert.Equal(t, 27, *in.DriverAge)
	assert.Nil(t, in.Experience)
	assert.Equal(t, model.VehicleBike, in.VehicleType)
	require.NotNil(t, in.IsWeekend)
	assert.True(t, *in.IsWeekend)
	require.NotNil(t, in.RouteData)
	assert.Equal(t, 80, in.RouteData.SpeedLimit)
}

func TestDecode_YAML(t *testing.T) {
	in, err := Decode([]byte("mode: manual\ndriver_age: 45\nweather: Foggy\nvisibility: low\n"))
	require.NoError(t, err)
	assert.Equal(t, 45, *in.DriverAge)
	assert.Equal(t, model.WeatherFoggy, in.Weather)
	assert.Equal(t, model.VisibilityLow, in.Visibility)
}

func TestDecode_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":            ``,
		"not an object":    `[1, 2]`,
		"broken json":      `{"driver_age": }`,
		"bad enum":         `{"weather": "Sunny"}`,
		"fractional age":   `{"driver_age": 22.5}`,
		"too young":        `{"driver_age": 12}`,
		"negative history": `{"accident_history": -1}`,
		"string speed":     `{"current_speed": "fast"}`,
		"bad mode":         `{"mode": "magic"}`,
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDecode_ErrorNamesField(t *testing.T) {
	_, err := Decode([]byte(`{"weather": "Sunny", "driver_age": 5}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weather")
	assert.Contains(t, err.Error(), "driver_age")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trip.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vehicle_type: Truck\nspeed_limit: 80\n"), 0o600))

	in, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.VehicleTruck, in.VehicleType)
	assert.Equal(t, 80, *in.SpeedLimit)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
