package vehicle_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/vehicle"
)

func TestManagerAddRemove(t *testing.T) {
	m := vehicle.NewManager(newFakeContext(&fakeGraph{}))
	a := m.New(newFakeBody(0, 0, 0), fixedRandom{})
	b := m.New(newFakeBody(10, 0, 0), fixedRandom{})
	assert.Equal(t, int32(0), a.ID())
	assert.Equal(t, int32(1), b.ID())
	assert.Equal(t, 2, m.Len())

	got, err := m.GetOrError(1)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	_, err = m.GetOrError(7)
	assert.Error(t, err)
	assert.Panics(t, func() { m.Get(7) })

	m.Prepare()
	assert.Equal(t, []*vehicle.Vehicle{a, b}, m.Data())

	removed, err := m.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, a, removed)
	assert.Equal(t, 1, m.Len())
	_, err = m.Remove(0)
	assert.Error(t, err)
	m.Prepare()
	assert.Equal(t, []*vehicle.Vehicle{b}, m.Data())
}

func TestManagerUpdateAndArrivals(t *testing.T) {
	g := &fakeGraph{route: []orb.Point{{2, 0}}}
	m := vehicle.NewManager(newFakeContext(g))
	v := m.New(newFakeBody(0, 0, 0), fixedRandom{})
	require.NoError(t, v.SetDestination(2, 0))

	// 尚未Prepare，不参与更新
	m.Update(dt)
	assert.Equal(t, entity.VehicleDriving, v.State())

	m.Prepare()
	m.Update(dt)
	assert.Equal(t, entity.VehicleIdle, v.State())
	assert.Equal(t, int32(0), m.Snapshot().NumArrivals)
	m.Prepare()
	assert.Equal(t, int32(1), m.Snapshot().NumArrivals)
}

func TestManagerReset(t *testing.T) {
	g := &fakeGraph{route: []orb.Point{{100, 0}}}
	m := vehicle.NewManager(newFakeContext(g))
	ba, bb := newFakeBody(0, 0, 0), newFakeBody(0, 10, 0)
	a := m.New(ba, fixedRandom{})
	b := m.New(bb, fixedRandom{})
	require.NoError(t, a.SetDestination(100, 0))
	require.NoError(t, b.SetDestination(100, 0))
	ba.pos = orb.Point{50, 50}
	bb.pos = orb.Point{60, 60}

	n, failed := m.Reset([]int32{0, 9})
	assert.Equal(t, 1, n)
	assert.Equal(t, []int32{9}, failed)
	assert.Equal(t, orb.Point{0, 0}, ba.pos)
	assert.Equal(t, entity.VehicleIdle, a.State())
	assert.Equal(t, entity.VehicleDriving, b.State())

	m.ResetAll()
	assert.Equal(t, orb.Point{0, 10}, bb.pos)
	assert.Equal(t, entity.VehicleIdle, b.State())
}

func TestManagerAddExternal(t *testing.T) {
	g := &fakeGraph{}
	m := vehicle.NewManager(newFakeContext(g))
	v := vehicle.New(5, newFakeBody(0, 0, 0), g, fixedRandom{}, vehicle.DefaultAttr)
	m.Add(v)
	assert.Panics(t, func() { m.Add(v) })

	// 自动分配的ID不与已有ID冲突
	next := m.New(newFakeBody(1, 0, 0), fixedRandom{})
	assert.Equal(t, int32(6), next.ID())
	assert.Equal(t, 2, m.Len())
}
