package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
	"gopkg.in/yaml.v2"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{Grid: config.Grid{Size: 2, BlockSize: 100}})
	assert.Equal(t, 10.0, rc.All.Signal.RedSeconds)
	assert.Equal(t, 3.0, rc.All.Signal.YellowSeconds)
	assert.Equal(t, 10.0, rc.All.Signal.GreenSeconds)
	assert.Equal(t, 30.0, rc.All.Vehicle.DesiredSpeed)
	assert.Equal(t, 50.0, rc.All.Vehicle.MaxSpeed)
	assert.Equal(t, int32(40), rc.All.Vehicle.EvasiveTicks)
	assert.Equal(t, 0.1, rc.All.Vehicle.TurnThreshold)
	assert.Equal(t, 10.0, rc.All.Grid.WaypointSpacing)
	assert.Equal(t, 0.1, rc.C.Step.Interval)
}

func TestConfigStrictYaml(t *testing.T) {
	data := []byte(`
grid:
  size: 3
  block_size: 150
signal:
  red_seconds: 5
control:
  step:
    start: 0
    total: 100
    interval: 0.5
  seed: 7
`)
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict(data, &c))
	rc := config.NewRuntimeConfig(c)
	assert.Equal(t, int32(3), rc.All.Grid.Size)
	assert.Equal(t, 5.0, rc.All.Signal.RedSeconds)
	assert.Equal(t, 3.0, rc.All.Signal.YellowSeconds)
	assert.Equal(t, uint64(7), rc.C.Seed)
	assert.Equal(t, 0.5, rc.C.Step.Interval)

	var bad config.Config
	assert.Error(t, yaml.UnmarshalStrict([]byte("grid:\n  unknown: 1\n"), &bad))
}
