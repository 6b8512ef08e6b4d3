package entity

import (
	"github.com/paulmach/orb"
)

// 传感器编号
const (
	SensorFront = 0 // 前方
	SensorLeft  = 1 // 左侧
	SensorRight = 2 // 右侧
	SensorRear  = 3 // 后方

	SensorCount = 4
)

// Phase 信号灯相位
type Phase int32

const (
	PhaseRed    Phase = iota // 红灯
	PhaseYellow              // 黄灯
	PhaseGreen               // 绿灯
)

// Next 相位循环中的下一个相位：红→绿→黄→红
func (p Phase) Next() Phase {
	switch p {
	case PhaseRed:
		return PhaseGreen
	case PhaseGreen:
		return PhaseYellow
	default:
		return PhaseRed
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseRed:
		return "red"
	case PhaseYellow:
		return "yellow"
	case PhaseGreen:
		return "green"
	default:
		return "unknown"
	}
}

// FixtureKind 传感器探测到的物体类型
type FixtureKind int32

const (
	FixtureNone    FixtureKind = iota // 未探测到物体
	FixtureStatic                     // 静态物体（墙体等不可移动的几何体）
	FixtureDynamic                    // 动态物体（其他车辆等）
)

func (k FixtureKind) String() string {
	switch k {
	case FixtureStatic:
		return "static"
	case FixtureDynamic:
		return "dynamic"
	default:
		return "none"
	}
}

// VehicleState 车辆导航状态
type VehicleState int32

const (
	VehicleIdle    VehicleState = iota // 空闲
	VehicleDriving                     // 行驶
	VehicleStopped                     // 因障碍或信号灯停车
	VehicleTurning                     // 原地转向
	VehicleWaiting                     // 等待外部条件
)

func (s VehicleState) String() string {
	switch s {
	case VehicleIdle:
		return "idle"
	case VehicleDriving:
		return "driving"
	case VehicleStopped:
		return "stopped"
	case VehicleTurning:
		return "turning"
	case VehicleWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Marker 每步输出给渲染方的语义标记
type Marker int32

const (
	MarkerNone         Marker = iota // 无标记
	MarkerHazard                     // 因障碍或信号灯停车
	MarkerStaticHazard               // 正在规避静态障碍
	MarkerDestination                // 有目的地，正在前往
	MarkerArrived                    // 已到达目的地
)

func (m Marker) String() string {
	switch m {
	case MarkerHazard:
		return "hazard"
	case MarkerStaticHazard:
		return "static_hazard"
	case MarkerDestination:
		return "destination"
	case MarkerArrived:
		return "arrived"
	default:
		return "none"
	}
}

// 依赖倒置，表达核心对外部物理引擎与路网的接口需求

// 物理引擎提供的车辆刚体接口
type IBody interface {
	Position() orb.Point // 当前位置（只读）
	Heading() float64    // 当前朝向（弧度，只读）

	ApplyMotionIntent(forwardX, forwardY, turn float64) // 施加运动意图（单向，不回读）
	Teleport(x, y, heading float64)                     // 瞬移到指定位姿

	Proximity(sensor int) float64       // 传感器读数（距离）
	FixtureKind(sensor int) FixtureKind // 传感器探测到的物体类型
}

// 可选：接收车辆每步语义标记的刚体
type IMarkerSink interface {
	SetMarker(m Marker)
}

// 物理世界接口，负责刚体的创建、移除与积分
type IWorld interface {
	AddBody(x, y, heading float64) IBody
	RemoveBody(b IBody)
	Step(dt float64)
}

// 可插拔的随机数源
type IRandom interface {
	PTrue(p float64) bool
	Intn(n int) int
	Float64() float64
}

// entity/trafficlight/signal.go的依赖倒置，给车辆提供的只读接口
type ISignal interface {
	ID() int32             // 信号灯ID
	IntersectionID() int32 // 所在路口segment ID
	Phase() Phase          // 当前相位（快照）
	IsRed() bool
	IsYellow() bool
	IsGreen() bool
}

// entity/road/graph.go的依赖倒置，给车辆提供的只读接口
type IRoadGraph interface {
	// 将起终点吸附到最近路点并规划路径，返回路径点坐标序列
	PlanRoute(from, to orb.Point) ([]orb.Point, error)
	// 查询点所在的路口segment ID
	IntersectionAt(p orb.Point) (int32, bool)
	// 查询路口上的信号灯，没有则返回nil
	SignalOf(intersectionID int32) ISignal
	// 所有非路口路点的坐标，用于随机目的地
	RoadPoints() []orb.Point
}
