package vehicle

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
)

// navigate 行驶中（Driving/Stopped/Turning）的单步决策
// 算法说明：
// 1. 正在规避静态障碍时，继续按固定方向转向直到规避步数用完
// 2. 非原地转向时检测前方障碍与信号灯：静态障碍触发规避，其他障碍或红黄灯停车
// 3. 跳过已到达的路点，到达终点时进入Idle
// 4. 航向误差超过阈值时原地转向，否则按速度系数向目标路点行驶
func (v *Vehicle) navigate(pos orb.Point, heading, dt float64) motionIntent {
	if v.evasive > 0 {
		return v.evade(dt)
	}
	if v.routeIndex >= len(v.route) {
		v.clearRoute(entity.MarkerNone)
		return motionIntent{}
	}

	if v.state != entity.VehicleTurning {
		if blocked, kind := v.frontObstacle(); blocked {
			if kind == entity.FixtureStatic {
				v.evasive = lo.Max([]int32{v.attr.EvasiveTicks, 1})
				v.evasiveDir = lo.Ternary(v.random.PTrue(.5), 1.0, -1.0)
				log.Debugf("vehicle %d: static fixture ahead, evasive turn %+.0f", v.id, v.evasiveDir)
				return v.evade(dt)
			}
			return v.stop()
		}
		if v.signalAhead(pos) {
			return v.stop()
		}
	}

	target := v.route[v.routeIndex]
	distance := planar.Distance(pos, target)
	for distance < v.attr.WaypointTolerance {
		if v.routeIndex == len(v.route)-1 {
			v.arrive()
			return motionIntent{}
		}
		v.routeIndex++
		target = v.route[v.routeIndex]
		distance = planar.Distance(pos, target)
	}

	diff := headingError(pos, target, heading)
	v.marker = entity.MarkerDestination
	if math.Abs(diff) > v.attr.TurnThreshold {
		v.state = entity.VehicleTurning
		return motionIntent{Turn: diff * v.attr.TurnGain}
	}
	if v.state == entity.VehicleTurning {
		// 转向完成，本步只修正航向，下一步重新检测障碍后再前进
		v.state = entity.VehicleDriving
		return motionIntent{Turn: diff * v.attr.AlignGain}
	}
	v.state = entity.VehicleDriving
	speed := math.Min(v.attr.DesiredSpeed*math.Min(1, distance/v.attr.BrakingDistance), v.attr.MaxSpeed)
	return motionIntent{
		FX:   (target.X() - pos.X()) / distance * speed,
		FY:   (target.Y() - pos.Y()) / distance * speed,
		Turn: diff * v.attr.AlignGain,
	}
}

// evade 规避静态障碍的单步转向
// 说明：规避步数内总共转过约90°
func (v *Vehicle) evade(dt float64) motionIntent {
	v.evasive--
	v.state = entity.VehicleTurning
	v.marker = entity.MarkerStaticHazard
	if v.evasive == 0 {
		v.state = entity.VehicleDriving
	}
	ticks := float64(lo.Max([]int32{v.attr.EvasiveTicks, 1}))
	step := lo.Ternary(dt > 0, dt, 1.0)
	return motionIntent{Turn: v.evasiveDir * math.Pi / 2 / (ticks * step)}
}

// stop 因障碍或信号灯停车
func (v *Vehicle) stop() motionIntent {
	v.state = entity.VehicleStopped
	v.marker = entity.MarkerHazard
	return motionIntent{}
}

// arrive 到达终点
func (v *Vehicle) arrive() {
	v.clearRoute(entity.MarkerArrived)
	log.Debugf("vehicle %d: arrived", v.id)
	if v.manager != nil {
		v.manager.recordArrival()
	}
}

// frontObstacle 前方传感器是否探测到障碍
func (v *Vehicle) frontObstacle() (bool, entity.FixtureKind) {
	d := v.body.Proximity(entity.SensorFront)
	if d > 0 && d < v.attr.MinClearanceDistance {
		return true, v.body.FixtureKind(entity.SensorFront)
	}
	return false, entity.FixtureNone
}

// signalAhead 制动距离内将要进入的路口是否为红灯或黄灯
// 说明：沿剩余路径累计距离查找下一个路口；已经在路口内时不再因该路口停车
func (v *Vehicle) signalAhead(pos orb.Point) bool {
	current, inside := v.graph.IntersectionAt(pos)
	travelled, prev := 0.0, pos
	for i := v.routeIndex; i < len(v.route); i++ {
		p := v.route[i]
		travelled += planar.Distance(prev, p)
		if travelled > v.attr.BrakingDistance {
			return false
		}
		prev = p
		id, ok := v.graph.IntersectionAt(p)
		if !ok || (inside && id == current) {
			continue
		}
		s := v.graph.SignalOf(id)
		if s == nil {
			return false
		}
		return s.IsRed() || s.IsYellow()
	}
	return false
}
