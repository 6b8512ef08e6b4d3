package config

// Grid 路网网格配置
// 功能：定义网格道路的尺寸参数
// 说明：size为每边的街区数，block_size为街区边长（世界坐标单位）
type Grid struct {
	Size             int32   `yaml:"size"`                        // 每边街区数
	BlockSize        float64 `yaml:"block_size"`                  // 街区边长
	WaypointSpacing  float64 `yaml:"waypoint_spacing,omitempty"`  // 道路上路点的最大间距
	RoadWidth        float64 `yaml:"road_width,omitempty"`        // 道路宽度
	IntersectionSize float64 `yaml:"intersection_size,omitempty"` // 路口边长
}

// Signal 信号灯配置
// 功能：定义信号灯各相位时长以及需要安装信号灯的路口
type Signal struct {
	RedSeconds    float64 `yaml:"red_seconds,omitempty"`    // 红灯时长（秒）
	YellowSeconds float64 `yaml:"yellow_seconds,omitempty"` // 黄灯时长（秒）
	GreenSeconds  float64 `yaml:"green_seconds,omitempty"`  // 绿灯时长（秒）
	Intersections []int32 `yaml:"intersections,omitempty"`  // 安装信号灯的路口segment id，为空则全部安装
	Disabled      bool    `yaml:"disabled,omitempty"`       // 不安装任何信号灯
}

// Vehicle 车辆控制参数
// 功能：定义车辆控制器的速度、距离和转向参数
type Vehicle struct {
	DesiredSpeed         float64 `yaml:"desired_speed,omitempty"`          // 期望速度
	MaxSpeed             float64 `yaml:"max_speed,omitempty"`              // 最大速度
	MinClearanceDistance float64 `yaml:"min_clearance_distance,omitempty"` // 前方最小净空距离，小于该值视为障碍
	BrakingDistance      float64 `yaml:"braking_distance,omitempty"`       // 制动距离，接近路点时按比例减速
	TurnThreshold        float64 `yaml:"turn_threshold,omitempty"`         // 航向误差阈值（弧度），超过则原地转向
	WaypointTolerance    float64 `yaml:"waypoint_tolerance,omitempty"`     // 到达路点的判定距离
	EvasiveTicks         int32   `yaml:"evasive_ticks,omitempty"`          // 遇到静态障碍时规避转向的步数
	TurnGain             float64 `yaml:"turn_gain,omitempty"`              // 原地转向增益
	AlignGain            float64 `yaml:"align_gain,omitempty"`             // 行驶中航向修正增益
	SensorRange          float64 `yaml:"sensor_range,omitempty"`           // 传感器探测距离
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
type Control struct {
	Step            ControlStep `yaml:"step"`
	Seed            uint64      `yaml:"seed,omitempty"`             // 随机数种子
	InitialVehicles int32       `yaml:"initial_vehicles,omitempty"` // 启动时生成的车辆数
	AutoDestination bool        `yaml:"auto_destination,omitempty"` // 空闲车辆自动选择随机目的地
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Grid    Grid    `yaml:"grid"`              // 路网
	Signal  Signal  `yaml:"signal,omitempty"`  // 信号灯
	Vehicle Vehicle `yaml:"vehicle,omitempty"` // 车辆
	Control Control `yaml:"control"`           // 模拟过程控制
}
