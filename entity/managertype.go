package entity

// Manager依赖倒置

// entity/trafficlight/manager.go的依赖倒置
type ISignalManager interface {
	Get(id int32) ISignal                 // 输入信号灯ID，查找信号灯，如果不存在则panic
	GetOrError(id int32) (ISignal, error) // 输入信号灯ID，查找信号灯，如果不存在则返回error
	Len() int                             // 信号灯数量

	ToggleAll()        // 所有信号灯切换到下一相位
	Prepare()          // 准备阶段：发布快照
	Update(dt float64) // 更新阶段：推进计时
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Get(id int32) IVehicle                 // 输入车辆ID，查找车辆，如果不存在则panic
	GetOrError(id int32) (IVehicle, error) // 输入车辆ID，查找车辆，如果不存在则返回error
	Len() int                              // 车辆数量（含尚未生效的新车）

	ResetAll()         // 所有车辆回到初始位姿
	Prepare()          // 准备阶段：增删生效
	Update(dt float64) // 更新阶段
}

// entity/vehicle/vehicle.go的依赖倒置
type IVehicle interface {
	ID() int32
	Body() IBody
	State() VehicleState
	Marker() Marker

	SetDestination(x, y float64) error
	SetRandomDestination() error
	ResetToInitialPose()
}
