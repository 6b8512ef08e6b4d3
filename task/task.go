package task

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/clock"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/road"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/vehicle"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/physics"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/randengine"
)

// 围墙厚度
const frameThickness = 1.0

// Context 仿真任务上下文（协调器）
// 功能：包含一次仿真任务的所有变量和状态，持有时钟、路网、信号灯、车辆与物理世界
// 说明：外部事件与单步推进都应在同一个goroutine中调用
type Context struct {
	// 任务名
	job string
	// 本次运行的唯一标识
	runID uuid.UUID
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock
	// 路网（持有信号灯）
	graph *road.Graph
	// 车辆管理器
	vehicleManager *vehicle.Manager
	// 物理世界
	world entity.IWorld
	// 协调器随机数源，用于选择出生点并为每辆车派生随机数源
	random *randengine.Engine

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
}

// NewContext 创建新的仿真任务上下文
// 参数：job-任务名称，c-配置对象，world-物理世界（为nil时创建带围墙的运动学世界）
// 返回：初始化完成的Context实例，路网配置非法时返回错误
// 算法说明：
// 1. 补齐配置默认值，创建时钟与随机数源
// 2. 构建网格路网，并按配置为路口分配信号灯
// 3. 创建物理世界与车辆管理器
func NewContext(job string, c config.Config, world entity.IWorld) (*Context, error) {
	ctx := &Context{
		job:   job,
		runID: uuid.New(),
	}
	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	rc := ctx.runtimeConfig
	ctx.clock = clock.New(rc.C.Step)
	ctx.random = randengine.New(rc.C.Seed)

	graph, err := road.BuildGrid(rc.All.Grid, rc.All.Signal)
	if err != nil {
		return nil, err
	}
	ctx.graph = graph
	if !rc.All.Signal.Disabled {
		ids := lo.Ternary(len(rc.All.Signal.Intersections) > 0, rc.All.Signal.Intersections, graph.Intersections())
		for _, id := range ids {
			if _, err := graph.AssignSignal(id); err != nil {
				return nil, fmt.Errorf("assign signal: %w", err)
			}
		}
	}

	if world == nil {
		w := physics.NewWorld(rc.All.Vehicle.SensorRange, physics.DefaultBodyRadius)
		w.AddFrame(graph.Bound().Pad(rc.All.Grid.BlockSize/2), frameThickness)
		world = w
	}
	ctx.world = world
	ctx.vehicleManager = vehicle.NewManager(ctx)
	return ctx, nil
}

func (ctx *Context) Job() string {
	return ctx.job
}

func (ctx *Context) RunID() uuid.UUID {
	return ctx.runID
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) RoadGraph() entity.IRoadGraph {
	return ctx.graph
}

// Graph 路网实体
func (ctx *Context) Graph() *road.Graph {
	return ctx.graph
}

func (ctx *Context) SignalManager() entity.ISignalManager {
	return ctx.graph.Signals()
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

// Vehicles 车辆管理器实体
func (ctx *Context) Vehicles() *vehicle.Manager {
	return ctx.vehicleManager
}

func (ctx *Context) World() entity.IWorld {
	return ctx.world
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Init 初始化：重置时钟并生成初始车辆
func (ctx *Context) Init() error {
	ctx.clock.Init()
	ctx.logger().Infof("job %s: %v, signals: %d", ctx.job, ctx.graph, ctx.graph.Signals().Len())
	for i := int32(0); i < ctx.runtimeConfig.C.InitialVehicles; i++ {
		if _, err := ctx.SpawnVehicle(); err != nil {
			return err
		}
	}
	// 新车在首个Prepare前已可被感知
	if w, ok := ctx.world.(*physics.World); ok {
		w.Sense()
	}
	ctx.logger().Infof("Vehicle: %v", ctx.vehicleManager.Len())
	return nil
}

func (ctx *Context) logger() *logrus.Entry {
	return log.WithField("run", ctx.runID.String())
}

// Close 停止运行，Run会在当前步结束后返回
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}
