package physics

import (
	"math"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
)

// 默认刚体半径
const DefaultBodyRadius = 5.0

// World 运动学物理世界
// 功能：持有刚体与静态墙体，按运动意图积分位姿，并用射线更新传感器读数
type World struct {
	sensorRange float64
	bodyRadius  float64

	mtx    sync.RWMutex
	bodies []*Body
	walls  []orb.Bound
	nextID int32
}

// NewWorld 创建物理世界
// 参数：sensorRange-传感器探测距离，bodyRadius-刚体半径
func NewWorld(sensorRange, bodyRadius float64) *World {
	return &World{
		sensorRange: sensorRange,
		bodyRadius:  lo.Ternary(bodyRadius > 0, bodyRadius, DefaultBodyRadius),
		bodies:      make([]*Body, 0),
		walls:       make([]orb.Bound, 0),
	}
}

// AddWall 添加静态墙体
func (w *World) AddWall(b orb.Bound) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.walls = append(w.walls, b)
}

// AddFrame 在矩形四周添加厚度为thickness的围墙
func (w *World) AddFrame(b orb.Bound, thickness float64) {
	minX, minY, maxX, maxY := b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()
	w.AddWall(orb.Bound{Min: orb.Point{minX - thickness, minY - thickness}, Max: orb.Point{maxX + thickness, minY}})
	w.AddWall(orb.Bound{Min: orb.Point{minX - thickness, maxY}, Max: orb.Point{maxX + thickness, maxY + thickness}})
	w.AddWall(orb.Bound{Min: orb.Point{minX - thickness, minY}, Max: orb.Point{minX, maxY}})
	w.AddWall(orb.Bound{Min: orb.Point{maxX, minY}, Max: orb.Point{maxX + thickness, maxY}})
}

// Walls 所有静态墙体
func (w *World) Walls() []orb.Bound {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	return append([]orb.Bound(nil), w.walls...)
}

// AddBody 在指定位姿添加刚体
func (w *World) AddBody(x, y, heading float64) entity.IBody {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	b := newBody(w.nextID, x, y, heading, w.bodyRadius, w.sensorRange)
	w.nextID++
	w.bodies = append(w.bodies, b)
	return b
}

// RemoveBody 移除刚体，不属于本世界的刚体忽略
func (w *World) RemoveBody(body entity.IBody) {
	b, ok := body.(*Body)
	if !ok {
		return
	}
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.bodies = lo.Without(w.bodies, b)
}

// Bodies 所有刚体
func (w *World) Bodies() []*Body {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	return append([]*Body(nil), w.bodies...)
}

// Step 积分一步并更新所有传感器读数
func (w *World) Step(dt float64) {
	bodies := w.Bodies()
	parallel.GoFor(bodies, func(b *Body) { b.integrate(dt) })
	w.sense(bodies)
}

// Sense 不积分，只更新所有传感器读数
func (w *World) Sense() {
	w.sense(w.Bodies())
}

func (w *World) sense(bodies []*Body) {
	walls := w.Walls()
	type pose struct {
		position orb.Point
		heading  float64
	}
	poses := lo.Map(bodies, func(b *Body, _ int) pose {
		return pose{b.Position(), b.Heading()}
	})
	parallel.GoFor(lo.Range(len(bodies)), func(i int) {
		var readings [entity.SensorCount]reading
		for sensor := range readings {
			angle := sensorDirection(poses[i].heading, sensor)
			dir := orb.Point{math.Cos(angle), math.Sin(angle)}
			best := reading{distance: w.sensorRange, kind: entity.FixtureNone}
			for j, other := range bodies {
				if j == i {
					continue
				}
				if t, ok := rayCircle(poses[i].position, dir, poses[j].position, other.radius); ok && t < best.distance {
					best = reading{distance: t, kind: entity.FixtureDynamic}
				}
			}
			for _, wall := range walls {
				if t, ok := rayBound(poses[i].position, dir, wall); ok && t < best.distance {
					best = reading{distance: t, kind: entity.FixtureStatic}
				}
			}
			readings[sensor] = best
		}
		b := bodies[i]
		b.mtx.Lock()
		b.readings = readings
		b.mtx.Unlock()
	})
}

func (w *World) Len() int {
	w.mtx.RLock()
	defer w.mtx.RUnlock()
	return len(w.bodies)
}

var _ entity.IWorld = (*World)(nil)
var _ entity.IBody = (*Body)(nil)
var _ entity.IMarkerSink = (*Body)(nil)
