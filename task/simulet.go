package task

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/trafficlight"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/vehicle"
)

// 心跳日志间隔步数，小于等于0时关闭
var HeartbeatInterval int32 = 100

// Stats 运行统计
type Stats struct {
	Step     int32                       // 当前步
	Time     float64                     // 当前时间（秒）
	Vehicles int                         // 车辆数量
	States   map[entity.VehicleState]int // 各状态的车辆数量
	Phases   map[entity.Phase]int        // 各相位的信号灯数量
	Arrivals int32                       // 累计到达次数
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"vehicles=%d (idle=%d driving=%d stopped=%d turning=%d waiting=%d) signals: red=%d yellow=%d green=%d arrivals=%d",
		s.Vehicles,
		s.States[entity.VehicleIdle], s.States[entity.VehicleDriving], s.States[entity.VehicleStopped],
		s.States[entity.VehicleTurning], s.States[entity.VehicleWaiting],
		s.Phases[entity.PhaseRed], s.Phases[entity.PhaseYellow], s.Phases[entity.PhaseGreen],
		s.Arrivals,
	)
}

// Stats 统计当前车辆状态与信号灯相位
func (ctx *Context) Stats() Stats {
	return Stats{
		Step:     ctx.clock.InternalStep,
		Time:     ctx.clock.T,
		Vehicles: ctx.vehicleManager.Len(),
		States: lo.CountValuesBy(ctx.vehicleManager.Data(), func(v *vehicle.Vehicle) entity.VehicleState {
			return v.State()
		}),
		Phases: lo.CountValuesBy(ctx.graph.Signals().Data(), func(s *trafficlight.Signal) entity.Phase {
			return s.Phase()
		}),
		Arrivals: ctx.vehicleManager.Snapshot().NumArrivals,
	}
}

// prepare 准备阶段，每步执行一次
// 算法说明：
// 1. 更新时钟
// 2. 心跳日志：定期输出运行统计
// 3. 并行准备：信号灯发布快照，车辆增删生效
func (ctx *Context) prepare() {
	ctx.clock.Tick()
	if HeartbeatInterval > 0 && ctx.clock.InternalStep%HeartbeatInterval == 0 {
		ctx.logger().Infof("STEP: %d(%v) %v", ctx.clock.InternalStep, ctx.clock, ctx.Stats())
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ctx.graph.Signals().Prepare()
	}()
	go func() {
		defer wg.Done()
		ctx.vehicleManager.Prepare()
	}()
	wg.Wait()
}

// update 更新阶段，每步执行一次
// 说明：信号灯与车辆并行更新，车辆读取的是Prepare时发布的信号灯快照；
// 两者都完成后物理世界再积分一步
func (ctx *Context) update() {
	dt := ctx.clock.DT
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ctx.graph.Signals().Update(dt)
	}()
	go func() {
		defer wg.Done()
		ctx.vehicleManager.Update(dt)
	}()
	wg.Wait()
	ctx.world.Step(dt)
}

// Step 推进一步：准备、更新、物理积分
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// assignIdleDestinations 为空闲车辆选择随机目的地
func (ctx *Context) assignIdleDestinations() {
	for _, v := range ctx.vehicleManager.Data() {
		if v.State() != entity.VehicleIdle {
			continue
		}
		if err := v.SetRandomDestination(); err != nil {
			log.Warnf("auto destination: %v", err)
		}
	}
}

// Run 运行至结束步或收到关闭指令
func (ctx *Context) Run() error {
	if err := ctx.Init(); err != nil {
		return err
	}
	for !ctx.clock.Done() && !ctx.closed.Load() {
		if ctx.runtimeConfig.C.AutoDestination {
			ctx.assignIdleDestinations()
		}
		ctx.Step()
	}
	ctx.logger().Infof("engine complete at step %d: %v", ctx.clock.InternalStep, ctx.Stats())
	return nil
}
