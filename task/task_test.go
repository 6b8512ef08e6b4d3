package task_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/road"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/physics"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/task"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
)

func testConfig() config.Config {
	return config.Config{
		Grid: config.Grid{Size: 2, BlockSize: 100},
		Control: config.Control{
			Step: config.ControlStep{Start: 0, Total: 100, Interval: 0.1},
			Seed: 42,
		},
	}
}

func newTestContext(t *testing.T, c config.Config) *task.Context {
	t.Helper()
	ctx, err := task.NewContext("test", c, nil)
	require.NoError(t, err)
	return ctx
}

type unknownEvent struct{}

func (unknownEvent) EventName() string { return "unknown" }

func TestNewContextSignals(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	assert.Equal(t, 9, ctx.SignalManager().Len())
	assert.NotNil(t, ctx.RoadGraph().SignalOf(4))

	c := testConfig()
	c.Signal.Disabled = true
	ctx = newTestContext(t, c)
	assert.Equal(t, 0, ctx.SignalManager().Len())

	c = testConfig()
	c.Signal.Intersections = []int32{4}
	ctx = newTestContext(t, c)
	assert.Equal(t, 1, ctx.SignalManager().Len())
	assert.Nil(t, ctx.RoadGraph().SignalOf(0))

	c.Signal.Intersections = []int32{9}
	_, err := task.NewContext("test", c, nil)
	assert.ErrorIs(t, err, road.ErrNotAnIntersection)
}

func TestNewContextConfigurationError(t *testing.T) {
	c := testConfig()
	c.Grid.Size = 0
	_, err := task.NewContext("test", c, nil)
	assert.ErrorIs(t, err, road.ErrConfiguration)
}

func TestSpawnVehicle(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	v, err := ctx.SpawnVehicle()
	require.NoError(t, err)
	assert.Equal(t, 1, ctx.VehicleManager().Len())
	assert.Equal(t, entity.VehicleIdle, v.State())

	p := v.Body().Position()
	assert.Contains(t, ctx.RoadGraph().RoadPoints(), p)
	// 车头朝向网格中心
	h := v.Body().Heading()
	dot := math.Cos(h)*(-p.X()) + math.Sin(h)*(-p.Y())
	assert.GreaterOrEqual(t, dot, 0.0)
	assert.True(t, math.Abs(math.Sin(h)) < 1e-9 || math.Abs(math.Cos(h)) < 1e-9)
}

func TestSpawnVehicleAtSnapsToRoad(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	v, err := ctx.SpawnVehicleAt(30, 7)
	require.NoError(t, err)
	assert.Equal(t, orb.Point{30, 0}, v.Body().Position())
	assert.InDelta(t, math.Pi, v.Body().Heading(), 1e-9)

	v, err = ctx.SpawnVehicleAt(-4, -60)
	require.NoError(t, err)
	assert.Equal(t, orb.Point{0, -60}, v.Body().Position())
	assert.InDelta(t, math.Pi/2, v.Body().Heading(), 1e-9)

	// 超出路网范围时限制在边界上
	v, err = ctx.Click(1000, 3)
	require.NoError(t, err)
	assert.Equal(t, orb.Point{110, 0}, v.Body().Position())
	assert.Equal(t, 3, ctx.VehicleManager().Len())
}

func TestRemoveVehicle(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	v, err := ctx.SpawnVehicle()
	require.NoError(t, err)
	world := ctx.World().(*physics.World)
	assert.Equal(t, 1, world.Len())

	require.NoError(t, ctx.RemoveVehicle(v.ID()))
	assert.Equal(t, 0, world.Len())
	assert.Equal(t, 0, ctx.VehicleManager().Len())
	assert.Error(t, ctx.RemoveVehicle(v.ID()))
}

func TestDispatch(t *testing.T) {
	ctx := newTestContext(t, testConfig())

	require.NoError(t, ctx.Dispatch(entity.SpawnVehicleEvent{}))
	require.NoError(t, ctx.Dispatch(entity.ClickEvent{X: -30, Y: 2}))
	assert.Equal(t, 2, ctx.VehicleManager().Len())

	require.NoError(t, ctx.Dispatch(entity.SetDestinationEvent{VehicleID: 1, X: 50, Y: 3}))
	v := ctx.VehicleManager().Get(1)
	assert.Equal(t, entity.VehicleDriving, v.State())
	assert.Error(t, ctx.Dispatch(entity.SetDestinationEvent{VehicleID: 99}))

	require.NoError(t, ctx.Dispatch(entity.ResetAllEvent{}))
	assert.Equal(t, entity.VehicleIdle, v.State())
	assert.Equal(t, orb.Point{-30, 0}, v.Body().Position())

	require.NoError(t, ctx.Dispatch(entity.RandomDestinationEvent{VehicleID: 0}))
	assert.Equal(t, entity.VehicleDriving, ctx.VehicleManager().Get(0).State())

	require.NoError(t, ctx.Dispatch(entity.ToggleAllSignalsEvent{}))
	for _, s := range ctx.Graph().Signals().Data() {
		assert.True(t, s.IsGreen())
	}

	assert.ErrorIs(t, ctx.Dispatch(unknownEvent{}), task.ErrUnknownEvent)
	assert.ErrorIs(t, ctx.Dispatch(nil), task.ErrUnknownEvent)
}

func TestSignalControl(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	require.NoError(t, ctx.Init())

	require.NoError(t, ctx.Dispatch(entity.SignalControlEvent{Ok: false}))
	ctx.Step()
	for _, s := range ctx.Graph().Signals().Data() {
		assert.False(t, s.Ok())
		assert.True(t, s.IsGreen())
	}
	// 关闭期间计时冻结
	for i := 0; i < 150; i++ {
		ctx.Step()
	}

	require.NoError(t, ctx.Dispatch(entity.SignalControlEvent{Ok: true}))
	ctx.Step()
	for _, s := range ctx.Graph().Signals().Data() {
		assert.True(t, s.Ok())
		assert.True(t, s.IsRed())
	}
	assert.Equal(t, 9, ctx.Stats().Phases[entity.PhaseRed])
}

func TestStepDrivesToDestination(t *testing.T) {
	c := testConfig()
	c.Signal.Disabled = true
	c.Control.Step.Total = 5000
	ctx := newTestContext(t, c)
	require.NoError(t, ctx.Init())

	// 吸附到(0, -100)，车头朝北
	v, err := ctx.SpawnVehicleAt(-50, -100)
	require.NoError(t, err)
	assert.Equal(t, orb.Point{0, -100}, v.Body().Position())
	require.NoError(t, ctx.SetDestination(v.ID(), 0, 50))

	for i := 0; i < 3000 && v.Marker() != entity.MarkerArrived; i++ {
		ctx.Step()
	}
	assert.Equal(t, entity.MarkerArrived, v.Marker())
	// 统计在下一次Prepare时发布
	ctx.Step()
	assert.Equal(t, int32(1), ctx.Stats().Arrivals)
}

func TestStepAdvancesSignals(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	require.NoError(t, ctx.Init())
	// 红灯10秒后切换为绿灯
	for i := 0; i < 110; i++ {
		ctx.Step()
	}
	assert.Equal(t, int32(110), ctx.Clock().InternalStep)
	stats := ctx.Stats()
	assert.Equal(t, 9, stats.Phases[entity.PhaseGreen])
}

func TestRun(t *testing.T) {
	c := testConfig()
	c.Control.Step.Total = 50
	c.Control.InitialVehicles = 3
	c.Control.AutoDestination = true
	ctx := newTestContext(t, c)
	require.NoError(t, ctx.Run())

	assert.True(t, ctx.Clock().Done())
	assert.Equal(t, int32(50), ctx.Clock().InternalStep)
	stats := ctx.Stats()
	assert.Equal(t, 3, stats.Vehicles)
	assert.Equal(t, 3, stats.States[entity.VehicleIdle]+stats.States[entity.VehicleDriving]+
		stats.States[entity.VehicleStopped]+stats.States[entity.VehicleTurning]+stats.States[entity.VehicleWaiting])
}

func TestRunStopsWhenClosed(t *testing.T) {
	ctx := newTestContext(t, testConfig())
	ctx.Close()
	require.NoError(t, ctx.Run())
	assert.Equal(t, int32(0), ctx.Clock().InternalStep)
}
