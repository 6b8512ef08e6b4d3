package entity

// Event 协调器接收的广播事件
type Event interface {
	EventName() string
}

// 生成一辆随机位置的车辆
type SpawnVehicleEvent struct{}

// 所有车辆回到初始位姿
type ResetAllEvent struct{}

// 所有信号灯切换到下一相位
type ToggleAllSignalsEvent struct{}

// 开启或关闭所有信号灯（关闭后路口视为绿灯，进入人工指挥模式）
type SignalControlEvent struct {
	Ok bool
}

// 为指定车辆设置目的地
type SetDestinationEvent struct {
	VehicleID int32
	X, Y      float64
}

// 为指定车辆选择随机目的地
type RandomDestinationEvent struct {
	VehicleID int32
}

// 屏幕点击，吸附到道路后生成车辆
type ClickEvent struct {
	X, Y float64
}

func (SpawnVehicleEvent) EventName() string      { return "spawn_vehicle" }
func (ResetAllEvent) EventName() string          { return "reset_all" }
func (ToggleAllSignalsEvent) EventName() string  { return "toggle_all_signals" }
func (SignalControlEvent) EventName() string     { return "signal_control" }
func (SetDestinationEvent) EventName() string    { return "set_destination" }
func (RandomDestinationEvent) EventName() string { return "random_destination" }
func (ClickEvent) EventName() string             { return "click" }
