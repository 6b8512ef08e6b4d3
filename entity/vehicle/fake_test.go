package vehicle_test

import (
	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/clock"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
)

type fakeBody struct {
	pos          orb.Point
	heading      float64
	fx, fy, turn float64
	proximity    [entity.SensorCount]float64
	kinds        [entity.SensorCount]entity.FixtureKind
	marker       entity.Marker
	panicOnSense bool
}

func newFakeBody(x, y, heading float64) *fakeBody {
	b := &fakeBody{pos: orb.Point{x, y}, heading: heading}
	b.clear()
	return b
}

func (b *fakeBody) clear() {
	for i := range b.proximity {
		b.proximity[i] = 100
		b.kinds[i] = entity.FixtureNone
	}
}

func (b *fakeBody) Position() orb.Point { return b.pos }
func (b *fakeBody) Heading() float64    { return b.heading }
func (b *fakeBody) ApplyMotionIntent(fx, fy, turn float64) {
	b.fx, b.fy, b.turn = fx, fy, turn
}
func (b *fakeBody) Teleport(x, y, heading float64) {
	b.pos = orb.Point{x, y}
	b.heading = heading
}
func (b *fakeBody) Proximity(sensor int) float64 {
	if b.panicOnSense {
		panic("sensor failure")
	}
	return b.proximity[sensor]
}
func (b *fakeBody) FixtureKind(sensor int) entity.FixtureKind { return b.kinds[sensor] }
func (b *fakeBody) SetMarker(m entity.Marker)                 { b.marker = m }

// fakeGraph 直接返回预设路径的路网
type fakeGraph struct {
	route    []orb.Point
	err      error
	points   []orb.Point
	lastFrom orb.Point
	lastTo   orb.Point
}

func (g *fakeGraph) PlanRoute(from, to orb.Point) ([]orb.Point, error) {
	g.lastFrom, g.lastTo = from, to
	if g.err != nil {
		return nil, g.err
	}
	return append([]orb.Point(nil), g.route...), nil
}
func (g *fakeGraph) IntersectionAt(orb.Point) (int32, bool) { return -1, false }
func (g *fakeGraph) SignalOf(int32) entity.ISignal          { return nil }
func (g *fakeGraph) RoadPoints() []orb.Point                { return g.points }

type fixedRandom struct {
	p bool
	n int
}

func (r fixedRandom) PTrue(float64) bool { return r.p }
func (r fixedRandom) Intn(n int) int     { return r.n % n }
func (r fixedRandom) Float64() float64   { return 0 }

type fakeContext struct {
	graph entity.IRoadGraph
	rc    *config.RuntimeConfig
	clock *clock.Clock
}

func newFakeContext(graph entity.IRoadGraph) *fakeContext {
	rc := config.NewRuntimeConfig(config.Config{})
	return &fakeContext{graph: graph, rc: rc, clock: clock.New(rc.C.Step)}
}

func (c *fakeContext) Clock() *clock.Clock                    { return c.clock }
func (c *fakeContext) RoadGraph() entity.IRoadGraph           { return c.graph }
func (c *fakeContext) SignalManager() entity.ISignalManager   { return nil }
func (c *fakeContext) VehicleManager() entity.IVehicleManager { return nil }
func (c *fakeContext) RuntimeConfig() *config.RuntimeConfig   { return c.rc }
