package task

import (
	"errors"
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/road"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/vehicle"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/randengine"
)

// 无法识别的事件
var ErrUnknownEvent = errors.New("unknown event")

// SpawnVehicle 在随机的道路路点上生成一辆车
// 说明：车头沿道路方向朝向网格中心
func (ctx *Context) SpawnVehicle() (*vehicle.Vehicle, error) {
	ids := ctx.graph.RoadWaypoints()
	id, ok := randengine.Choice(ctx.random, ids)
	if !ok {
		return nil, road.ErrEmptyGraph
	}
	wp, err := ctx.graph.Waypoint(id)
	if err != nil {
		return nil, err
	}
	segID, err := ctx.graph.SegmentOfWaypoint(id)
	if err != nil {
		return nil, err
	}
	seg, err := ctx.graph.Segment(segID)
	if err != nil {
		return nil, err
	}
	return ctx.spawnAt(wp.Position, seg.Kind), nil
}

// SpawnVehicleAt 将点吸附到道路后生成一辆车
// 说明：吸附后的点限制在路网范围内
func (ctx *Context) SpawnVehicleAt(x, y float64) (*vehicle.Vehicle, error) {
	sx, sy := ctx.graph.SnapToRoad(x, y)
	b := ctx.graph.Bound()
	p := orb.Point{
		lo.Clamp(sx, b.Min.X(), b.Max.X()),
		lo.Clamp(sy, b.Min.Y(), b.Max.Y()),
	}
	segID, err := ctx.graph.NearestSegment(p.X(), p.Y())
	if err != nil {
		return nil, err
	}
	seg, err := ctx.graph.Segment(segID)
	if err != nil {
		return nil, err
	}
	return ctx.spawnAt(p, seg.Kind), nil
}

// spawnAt 在指定位置创建刚体与车辆
func (ctx *Context) spawnAt(p orb.Point, kind road.SegmentKind) *vehicle.Vehicle {
	heading := spawnHeading(p, kind)
	body := ctx.world.AddBody(p.X(), p.Y(), heading)
	v := ctx.vehicleManager.New(body, randengine.New(ctx.random.Uint64()))
	log.Debugf("spawn vehicle %d at (%.1f, %.1f), heading %.2f", v.ID(), p.X(), p.Y(), heading)
	return v
}

// spawnHeading 沿道路方向朝向原点的车头朝向
// 说明：路口按离原点更远的坐标轴决定方向
func spawnHeading(p orb.Point, kind road.SegmentKind) float64 {
	horizontal := kind == road.Horizontal ||
		(kind == road.Intersection && mathutil.Abs(p.X()) >= mathutil.Abs(p.Y()))
	if horizontal {
		if p.X() > 0 {
			return math.Pi
		}
		return 0
	}
	if p.Y() > 0 {
		return -math.Pi / 2
	}
	return math.Pi / 2
}

// RemoveVehicle 删除车辆及其刚体
func (ctx *Context) RemoveVehicle(id int32) error {
	v, err := ctx.vehicleManager.Remove(id)
	if err != nil {
		return err
	}
	ctx.world.RemoveBody(v.Body())
	return nil
}

// ResetAll 所有车辆回到初始位姿
func (ctx *Context) ResetAll() {
	ctx.vehicleManager.ResetAll()
}

// ToggleAllSignals 所有信号灯切换到下一相位
func (ctx *Context) ToggleAllSignals() {
	ctx.graph.Signals().ToggleAll()
}

// SetSignalsOk 开启或关闭所有信号灯，下一步Prepare时生效
func (ctx *Context) SetSignalsOk(ok bool) {
	ctx.graph.Signals().SetAllOk(ok)
}

// SetDestination 为车辆设置目的地，目的地先吸附到道路
func (ctx *Context) SetDestination(id int32, x, y float64) error {
	v, err := ctx.vehicleManager.GetOrError(id)
	if err != nil {
		return err
	}
	sx, sy := ctx.graph.SnapToRoad(x, y)
	return v.SetDestination(sx, sy)
}

// SetRandomDestination 为车辆选择随机目的地
func (ctx *Context) SetRandomDestination(id int32) error {
	v, err := ctx.vehicleManager.GetOrError(id)
	if err != nil {
		return err
	}
	return v.SetRandomDestination()
}

// Click 屏幕点击：吸附到道路后生成一辆车
func (ctx *Context) Click(x, y float64) (*vehicle.Vehicle, error) {
	return ctx.SpawnVehicleAt(x, y)
}

// Dispatch 分发事件
// 说明：广播类事件分发给所有相关组件，组件之间的处理顺序不做保证
func (ctx *Context) Dispatch(ev entity.Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil", ErrUnknownEvent)
	}
	log.Debugf("dispatch %s", ev.EventName())
	var err error
	switch e := ev.(type) {
	case entity.SpawnVehicleEvent:
		_, err = ctx.SpawnVehicle()
	case entity.ResetAllEvent:
		ctx.ResetAll()
	case entity.ToggleAllSignalsEvent:
		ctx.ToggleAllSignals()
	case entity.SignalControlEvent:
		ctx.SetSignalsOk(e.Ok)
	case entity.SetDestinationEvent:
		err = ctx.SetDestination(e.VehicleID, e.X, e.Y)
	case entity.RandomDestinationEvent:
		err = ctx.SetRandomDestination(e.VehicleID)
	case entity.ClickEvent:
		_, err = ctx.Click(e.X, e.Y)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ev.EventName(), err)
	}
	return nil
}
