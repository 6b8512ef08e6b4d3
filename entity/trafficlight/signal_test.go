package trafficlight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/trafficlight"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
)

// step 模拟一个仿真步：先更新后发布快照
func step(s *trafficlight.Signal, dt float64) {
	s.Update(dt)
	s.Prepare()
}

func TestSignalCycle(t *testing.T) {
	s := trafficlight.NewSignal(0, 0, trafficlight.DefaultDurations)
	assert.True(t, s.IsRed())
	assert.Equal(t, 10.0, s.Duration())

	observed := []entity.Phase{s.Phase()}
	for i := 0; i < 23; i++ {
		step(s, 1)
		if p := s.Phase(); p != observed[len(observed)-1] {
			observed = append(observed, p)
		}
	}
	assert.Equal(t, []entity.Phase{
		entity.PhaseRed, entity.PhaseGreen, entity.PhaseYellow, entity.PhaseRed,
	}, observed)
	assert.True(t, s.IsRed())
	assert.Equal(t, 0.0, s.Elapsed())
}

func TestSignalTransitionTimes(t *testing.T) {
	s := trafficlight.NewSignal(0, 0, trafficlight.DefaultDurations)
	for i := 1; i <= 23; i++ {
		step(s, 1)
		switch {
		case i < 10:
			assert.True(t, s.IsRed(), "t=%d", i)
		case i < 20:
			assert.True(t, s.IsGreen(), "t=%d", i)
		case i < 23:
			assert.True(t, s.IsYellow(), "t=%d", i)
		default:
			assert.True(t, s.IsRed(), "t=%d", i)
		}
	}
}

func TestSetPhase(t *testing.T) {
	s := trafficlight.NewSignal(0, 0, trafficlight.DefaultDurations)
	step(s, 4)
	assert.Equal(t, 4.0, s.Elapsed())

	require.NoError(t, s.SetPhase(entity.PhaseGreen))
	assert.True(t, s.IsGreen())
	assert.Equal(t, 0.0, s.Elapsed())
	assert.Equal(t, 10.0, s.Duration())

	require.NoError(t, s.SetPhase(entity.PhaseYellow))
	assert.Equal(t, 3.0, s.Duration())
	assert.Error(t, s.SetPhase(entity.Phase(7)))
}

func TestSignalCustomDurations(t *testing.T) {
	d := trafficlight.NewDurations(config.Signal{RedSeconds: 2, GreenSeconds: 1})
	assert.Equal(t, 3.0, d.Yellow)
	s := trafficlight.NewSignal(1, 5, d)
	step(s, 2)
	assert.True(t, s.IsGreen())
	step(s, 1)
	assert.True(t, s.IsYellow())
	assert.Equal(t, int32(5), s.IntersectionID())
}

func TestSignalDisabled(t *testing.T) {
	s := trafficlight.NewSignal(0, 0, trafficlight.DefaultDurations)
	s.SetOk(false)
	assert.True(t, s.IsRed())
	s.Prepare()
	assert.False(t, s.Ok())
	assert.True(t, s.IsGreen())
	step(s, 100)
	s.SetOk(true)
	s.Prepare()
	assert.True(t, s.IsRed())
	assert.Equal(t, 0.0, s.Elapsed())
}

func TestManagerToggleAll(t *testing.T) {
	m := trafficlight.NewManager(trafficlight.DefaultDurations)
	a := m.New(0)
	b := m.New(3)
	require.NoError(t, b.SetPhase(entity.PhaseYellow))
	assert.Equal(t, 2, m.Len())

	m.ToggleAll()
	assert.True(t, a.IsGreen())
	assert.True(t, b.IsRed())

	m.Update(10)
	m.Prepare()
	assert.True(t, a.IsYellow())
	assert.True(t, b.IsGreen())

	got, err := m.GetOrError(b.ID())
	require.NoError(t, err)
	assert.Equal(t, int32(3), got.IntersectionID())
	_, err = m.GetOrError(42)
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get(42) })
}

func TestSignalCycleFractionalStep(t *testing.T) {
	s := trafficlight.NewSignal(0, 0, trafficlight.DefaultDurations)
	var flips []int
	last := s.Phase()
	for i := 1; i <= 230; i++ {
		step(s, 0.1)
		if p := s.Phase(); p != last {
			flips = append(flips, i)
			last = p
		}
	}
	assert.Equal(t, []int{100, 200, 230}, flips)
	assert.True(t, s.IsRed())
	assert.InDelta(t, 0.0, s.Elapsed(), 1e-6)
}

func TestSignalOvershootCarried(t *testing.T) {
	s := trafficlight.NewSignal(0, 0, trafficlight.DefaultDurations)
	step(s, 10.5)
	assert.True(t, s.IsGreen())
	assert.InDelta(t, 0.5, s.Elapsed(), 1e-9)
	assert.InDelta(t, 9.5, s.RemainingTime(), 1e-9)
}

func TestToggleAfterUnpublishedFlip(t *testing.T) {
	m := trafficlight.NewManager(trafficlight.DefaultDurations)
	s := m.New(0)
	m.Update(10)
	// 切换已发生但尚未Prepare，快照仍为红灯
	assert.True(t, s.IsRed())
	m.ToggleAll()
	m.Prepare()
	assert.True(t, s.IsYellow())
}

func TestToggleWhileDark(t *testing.T) {
	m := trafficlight.NewManager(trafficlight.DefaultDurations)
	s := m.New(0)
	m.SetAllOk(false)
	m.Prepare()
	assert.True(t, s.IsGreen())

	m.ToggleAll()
	m.Prepare()
	assert.False(t, s.Ok())
	assert.True(t, s.IsGreen())

	m.SetAllOk(true)
	m.Prepare()
	assert.True(t, s.Ok())
	assert.True(t, s.IsGreen())
	assert.Equal(t, 10.0, s.RemainingTime())

	m.ToggleAll()
	assert.True(t, s.IsYellow())
}
