package physics

import (
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
)

type reading struct {
	distance float64
	kind     entity.FixtureKind
}

// Body 运动学刚体
// 功能：保存位姿与最近一次的运动意图，由World积分并更新传感器读数
// 说明：运动意图由所属车辆写入，位姿与传感器由World.Step写入，二者不在同一阶段发生
type Body struct {
	id     int32
	radius float64

	mtx      sync.RWMutex
	position orb.Point
	heading  float64
	fx, fy   float64 // 平移速度
	turn     float64 // 角速度
	readings [entity.SensorCount]reading
	marker   entity.Marker
}

func newBody(id int32, x, y, heading, radius, sensorRange float64) *Body {
	b := &Body{
		id:       id,
		radius:   radius,
		position: orb.Point{x, y},
		heading:  heading,
	}
	for i := range b.readings {
		b.readings[i] = reading{distance: sensorRange, kind: entity.FixtureNone}
	}
	return b
}

func (b *Body) ID() int32 {
	return b.id
}

func (b *Body) Radius() float64 {
	return b.radius
}

func (b *Body) Position() orb.Point {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.position
}

func (b *Body) Heading() float64 {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.heading
}

// ApplyMotionIntent 设置运动意图，下一次Step时生效
func (b *Body) ApplyMotionIntent(forwardX, forwardY, turn float64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.fx, b.fy, b.turn = forwardX, forwardY, turn
}

// Intent 当前的运动意图
func (b *Body) Intent() (forwardX, forwardY, turn float64) {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.fx, b.fy, b.turn
}

// Teleport 瞬移到指定位姿并清零运动意图
func (b *Body) Teleport(x, y, heading float64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.position = orb.Point{x, y}
	b.heading = heading
	b.fx, b.fy, b.turn = 0, 0, 0
}

// Proximity 传感器读数，未探测到物体时为探测距离
func (b *Body) Proximity(sensor int) float64 {
	if sensor < 0 || sensor >= entity.SensorCount {
		log.Panicf("invalid sensor %d", sensor)
	}
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.readings[sensor].distance
}

// FixtureKind 传感器探测到的物体类型
func (b *Body) FixtureKind(sensor int) entity.FixtureKind {
	if sensor < 0 || sensor >= entity.SensorCount {
		log.Panicf("invalid sensor %d", sensor)
	}
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.readings[sensor].kind
}

func (b *Body) SetMarker(m entity.Marker) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.marker = m
}

func (b *Body) Marker() entity.Marker {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.marker
}

// integrate 按运动意图积分一步，积分后清零运动意图
func (b *Body) integrate(dt float64) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.position = orb.Point{b.position.X() + b.fx*dt, b.position.Y() + b.fy*dt}
	b.heading = math.Remainder(b.heading+b.turn*dt, 2*math.Pi)
	b.fx, b.fy, b.turn = 0, 0, 0
}

// sensorDirection 传感器的朝向
func sensorDirection(heading float64, sensor int) float64 {
	switch sensor {
	case entity.SensorLeft:
		return heading + math.Pi/2
	case entity.SensorRight:
		return heading - math.Pi/2
	case entity.SensorRear:
		return heading + math.Pi
	default:
		return heading
	}
}

func (b *Body) String() string {
	p := b.Position()
	return fmt.Sprintf("Body{id=%d, pos=(%.1f, %.1f), heading=%.2f}", b.id, p.X(), p.Y(), b.Heading())
}
