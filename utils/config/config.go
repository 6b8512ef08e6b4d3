package config

import "github.com/samber/lo"

// 默认值
const (
	DefaultWaypointSpacing  = 10.0
	DefaultRoadWidth        = 10.0
	DefaultIntersectionSize = 20.0

	DefaultRedSeconds    = 10.0
	DefaultYellowSeconds = 3.0
	DefaultGreenSeconds  = 10.0

	DefaultDesiredSpeed         = 30.0
	DefaultMaxSpeed             = 50.0
	DefaultMinClearanceDistance = 15.0
	DefaultBrakingDistance      = 30.0
	DefaultTurnThreshold        = 0.1
	DefaultWaypointTolerance    = 5.0
	DefaultEvasiveTicks         = 40
	DefaultTurnGain             = 10.0
	DefaultAlignGain            = 2.0
	DefaultSensorRange          = 100.0

	DefaultInterval = 0.1
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，所有未填写的字段已用默认值补齐
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化全局变量
// 功能：创建运行时配置对象，补齐默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 说明：网格尺寸不在此处校验，由路网构建时返回ErrConfiguration
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	config.Grid = config.Grid.WithDefaults()
	config.Signal = config.Signal.WithDefaults()
	config.Vehicle = config.Vehicle.WithDefaults()
	if config.Control.Step.Interval <= 0 {
		config.Control.Step.Interval = DefaultInterval
	}

	rc.All = config
	rc.C = config.Control
	return rc
}

// WithDefaults 返回补齐默认值后的路网配置
func (g Grid) WithDefaults() Grid {
	g.WaypointSpacing = orDefault(g.WaypointSpacing, DefaultWaypointSpacing)
	g.RoadWidth = orDefault(g.RoadWidth, DefaultRoadWidth)
	g.IntersectionSize = orDefault(g.IntersectionSize, DefaultIntersectionSize)
	return g
}

// WithDefaults 返回补齐默认值后的信号灯配置
func (s Signal) WithDefaults() Signal {
	s.RedSeconds = orDefault(s.RedSeconds, DefaultRedSeconds)
	s.YellowSeconds = orDefault(s.YellowSeconds, DefaultYellowSeconds)
	s.GreenSeconds = orDefault(s.GreenSeconds, DefaultGreenSeconds)
	return s
}

// WithDefaults 返回补齐默认值后的车辆配置
func (v Vehicle) WithDefaults() Vehicle {
	v.DesiredSpeed = orDefault(v.DesiredSpeed, DefaultDesiredSpeed)
	v.MaxSpeed = orDefault(v.MaxSpeed, DefaultMaxSpeed)
	v.MinClearanceDistance = orDefault(v.MinClearanceDistance, DefaultMinClearanceDistance)
	v.BrakingDistance = orDefault(v.BrakingDistance, DefaultBrakingDistance)
	v.TurnThreshold = orDefault(v.TurnThreshold, DefaultTurnThreshold)
	v.WaypointTolerance = orDefault(v.WaypointTolerance, DefaultWaypointTolerance)
	v.EvasiveTicks = lo.Ternary(v.EvasiveTicks > 0, v.EvasiveTicks, DefaultEvasiveTicks)
	v.TurnGain = orDefault(v.TurnGain, DefaultTurnGain)
	v.AlignGain = orDefault(v.AlignGain, DefaultAlignGain)
	v.SensorRange = orDefault(v.SensorRange, DefaultSensorRange)
	return v
}

func orDefault(v, d float64) float64 {
	return lo.Ternary(v > 0, v, d)
}
