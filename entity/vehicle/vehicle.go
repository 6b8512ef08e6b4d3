package vehicle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/container"
)

var (
	// 单步更新中出现的意外故障（panic、位姿非法等），触发回到初始位姿
	ErrNavigationFault = errors.New("navigation fault")
	// 路网中没有可选的随机目的地
	ErrNoDestination = errors.New("no destination candidates")
)

// pose 位姿
type pose struct {
	X, Y, Heading float64
}

// Vehicle 车辆
// 功能：按路网路径驱动物理刚体行驶，处理障碍、信号灯与转向
// 说明：导航状态由mtx保护，SetDestination与update互斥，路径整体替换
type Vehicle struct {
	container.IncrementalItemBase

	id     int32
	body   entity.IBody
	graph  entity.IRoadGraph
	random entity.IRandom
	attr   Attr
	spawn  pose // 生成时的位姿，用于复位

	mtx        sync.Mutex
	state      entity.VehicleState
	marker     entity.Marker
	route      []orb.Point // 当前路径
	routeIndex int         // 下一个目标路径点的下标
	evasive    int32       // 剩余的规避转向步数
	evasiveDir float64     // 规避转向方向（1为逆时针，-1为顺时针）

	manager *Manager // 所属管理器，可为nil
}

// New 创建车辆
// 参数：id-车辆ID，body-物理刚体，graph-路网，random-随机数源，attr-控制参数
// 说明：记录当前位姿作为初始位姿，初始状态为Idle
func New(id int32, body entity.IBody, graph entity.IRoadGraph, random entity.IRandom, attr Attr) *Vehicle {
	p := body.Position()
	v := &Vehicle{
		id:     id,
		body:   body,
		graph:  graph,
		random: random,
		attr:   attr,
		spawn:  pose{X: p.X(), Y: p.Y(), Heading: body.Heading()},
		state:  entity.VehicleIdle,
		marker: entity.MarkerNone,
	}
	v.SetIndex(-1)
	return v
}

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) Body() entity.IBody {
	return v.body
}

func (v *Vehicle) State() entity.VehicleState {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.state
}

func (v *Vehicle) Marker() entity.Marker {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.marker
}

// Route 当前路径的副本与下一个目标路径点的下标
func (v *Vehicle) Route() ([]orb.Point, int) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return append([]orb.Point(nil), v.route...), v.routeIndex
}

// Destination 当前路径的终点
func (v *Vehicle) Destination() (orb.Point, bool) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	if len(v.route) == 0 {
		return orb.Point{}, false
	}
	return v.route[len(v.route)-1], true
}

// SetDestination 设置目的地
// 功能：将当前位置与目的地吸附到最近路点，规划路径并整体替换当前路径
// 返回：规划失败时车辆进入Idle、路径清空，并返回错误
func (v *Vehicle) SetDestination(x, y float64) error {
	route, err := v.graph.PlanRoute(v.body.Position(), orb.Point{x, y})
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.evasive = 0
	if err != nil || len(route) == 0 {
		v.clearRoute(entity.MarkerNone)
		if err == nil {
			err = ErrNoDestination
		}
		return fmt.Errorf("vehicle %d: set destination (%v, %v): %w", v.id, x, y, err)
	}
	v.route = route
	v.routeIndex = 0
	v.state = entity.VehicleDriving
	v.marker = entity.MarkerDestination
	log.Debugf("vehicle %d: route with %d points to %v", v.id, len(route), route[len(route)-1])
	return nil
}

// SetRandomDestination 从道路路点中随机选择目的地
func (v *Vehicle) SetRandomDestination() error {
	points := v.graph.RoadPoints()
	if len(points) == 0 {
		return fmt.Errorf("vehicle %d: %w", v.id, ErrNoDestination)
	}
	p := points[v.random.Intn(len(points))]
	return v.SetDestination(p.X(), p.Y())
}

// ResetToInitialPose 回到初始位姿
// 说明：清零运动意图，状态置为Idle并清空路径；可重复调用
func (v *Vehicle) ResetToInitialPose() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.body.Teleport(v.spawn.X, v.spawn.Y, v.spawn.Heading)
	v.body.ApplyMotionIntent(0, 0, 0)
	v.evasive = 0
	v.clearRoute(entity.MarkerNone)
	v.publishMarker()
}

// Wait 进入Waiting状态，保留当前路径
func (v *Vehicle) Wait() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.state = entity.VehicleWaiting
}

// Resume 离开Waiting状态：有路径时继续行驶，否则回到Idle
func (v *Vehicle) Resume() {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	if v.state != entity.VehicleWaiting {
		return
	}
	v.state = lo.Ternary(v.routeIndex < len(v.route), entity.VehicleDriving, entity.VehicleIdle)
}

// Update 更新阶段
// 说明：单步中的任何故障都会使车辆回到初始位姿，不影响其他车辆
func (v *Vehicle) Update(dt float64) {
	if err := v.update(dt); err != nil {
		log.Errorf("vehicle %d: %v, reset to initial pose", v.id, err)
		v.ResetToInitialPose()
	}
}

func (v *Vehicle) update(dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrNavigationFault, r)
		}
	}()
	v.mtx.Lock()
	defer v.mtx.Unlock()

	pos, heading := v.body.Position(), v.body.Heading()
	if !isFinite(pos.X(), pos.Y(), heading) {
		return fmt.Errorf("%w: invalid pose (%v, %v, %v)", ErrNavigationFault, pos.X(), pos.Y(), heading)
	}
	var intent motionIntent
	switch v.state {
	case entity.VehicleDriving, entity.VehicleStopped, entity.VehicleTurning:
		intent = v.navigate(pos, heading, dt)
	default:
		// Idle与Waiting不产生运动
	}
	if !isFinite(intent.FX, intent.FY, intent.Turn) {
		return fmt.Errorf("%w: invalid intent %+v", ErrNavigationFault, intent)
	}
	v.body.ApplyMotionIntent(intent.FX, intent.FY, intent.Turn)
	v.publishMarker()
	return nil
}

// clearRoute 清空路径并进入Idle
func (v *Vehicle) clearRoute(marker entity.Marker) {
	v.state = entity.VehicleIdle
	v.route = nil
	v.routeIndex = 0
	v.marker = marker
}

func (v *Vehicle) publishMarker() {
	if sink, ok := v.body.(entity.IMarkerSink); ok {
		sink.SetMarker(v.marker)
	}
}

func (v *Vehicle) String() string {
	p := v.body.Position()
	return fmt.Sprintf("Vehicle{id=%d, state=%v, pos=(%.1f, %.1f)}", v.id, v.State(), p.X(), p.Y())
}
