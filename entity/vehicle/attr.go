package vehicle

import "github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"

// Attr 车辆控制参数
type Attr struct {
	DesiredSpeed         float64 // 期望速度
	MaxSpeed             float64 // 最大速度
	MinClearanceDistance float64 // 前方传感器读数小于该值视为障碍
	BrakingDistance      float64 // 制动距离，同时用于速度系数与信号灯检测
	TurnThreshold        float64 // 航向误差超过该值时原地转向（弧度）
	WaypointTolerance    float64 // 到达路点的距离阈值
	EvasiveTicks         int32   // 遇到静态障碍时的规避转向步数
	TurnGain             float64 // 原地转向时的转向系数
	AlignGain            float64 // 行驶时的航向修正系数
}

// DefaultAttr 默认车辆控制参数
var DefaultAttr = NewAttr(config.Vehicle{})

// NewAttr 根据配置创建车辆控制参数，未填写的字段使用默认值
func NewAttr(c config.Vehicle) Attr {
	c = c.WithDefaults()
	return Attr{
		DesiredSpeed:         c.DesiredSpeed,
		MaxSpeed:             c.MaxSpeed,
		MinClearanceDistance: c.MinClearanceDistance,
		BrakingDistance:      c.BrakingDistance,
		TurnThreshold:        c.TurnThreshold,
		WaypointTolerance:    c.WaypointTolerance,
		EvasiveTicks:         c.EvasiveTicks,
		TurnGain:             c.TurnGain,
		AlignGain:            c.AlignGain,
	}
}
