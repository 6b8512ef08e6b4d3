package vehicle

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/container"
)

// GlobalRuntime 全局运行时统计
type GlobalRuntime struct {
	NumArrivals int32 // 到达目的地的次数
}

// Manager 车辆管理器
// 功能：管理所有车辆，提供创建、查找、删除、复位与并行更新
// 说明：新增与删除在下一次Prepare时生效，Update期间车辆集合不变
type Manager struct {
	ctx entity.ITaskContext

	mtx      sync.RWMutex
	data     map[int32]*Vehicle
	vehicles *container.IncrementalArray[*Vehicle]
	nextID   int32

	snapshot, runtime GlobalRuntime
	runtimeMtx        sync.Mutex
}

// NewManager 创建车辆管理器
// 参数：ctx-任务上下文，提供路网与车辆配置
func NewManager(ctx entity.ITaskContext) *Manager {
	return &Manager{
		ctx:      ctx,
		data:     make(map[int32]*Vehicle),
		vehicles: container.NewIncrementalArray[*Vehicle](),
	}
}

// New 为刚体创建一辆新车
// 参数：body-物理刚体，random-车辆使用的随机数源
// 返回：新车，下一次Prepare后参与更新
func (m *Manager) New(body entity.IBody, random entity.IRandom) *Vehicle {
	attr := NewAttr(m.ctx.RuntimeConfig().All.Vehicle)
	m.mtx.Lock()
	defer m.mtx.Unlock()
	v := New(m.nextID, body, m.ctx.RoadGraph(), random, attr)
	m.add(v)
	return v
}

// Add 加入外部创建的车辆，ID重复时panic
func (m *Manager) Add(v *Vehicle) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if _, ok := m.data[v.id]; ok {
		log.Panicf("vehicle ID %v already exists!", v.id)
	}
	m.add(v)
}

func (m *Manager) add(v *Vehicle) {
	v.manager = m
	if v.id >= m.nextID {
		m.nextID = v.id + 1
	}
	m.data[v.id] = v
	m.vehicles.Add(v)
}

// Remove 删除车辆
// 返回：被删除的车辆，不存在时返回错误
func (m *Manager) Remove(id int32) (*Vehicle, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	v, ok := m.data[id]
	if !ok {
		return nil, fmt.Errorf("no id %d in vehicle data", id)
	}
	delete(m.data, id)
	m.vehicles.Remove(v)
	return v, nil
}

// Get 根据ID获取车辆，如果不存在则panic
func (m *Manager) Get(id int32) entity.IVehicle {
	if v, ok := m.getVehicle(id); !ok {
		log.Panicf("no id %d in vehicle data", id)
		return nil
	} else {
		return v
	}
}

// GetOrError 根据ID获取车辆，如果不存在则返回错误
func (m *Manager) GetOrError(id int32) (entity.IVehicle, error) {
	if v, ok := m.getVehicle(id); !ok {
		return nil, fmt.Errorf("no id %d in vehicle data", id)
	} else {
		return v, nil
	}
}

// Vehicle 根据ID获取车辆实体
func (m *Manager) Vehicle(id int32) (*Vehicle, bool) {
	return m.getVehicle(id)
}

func (m *Manager) getVehicle(id int32) (*Vehicle, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	v, ok := m.data[id]
	return v, ok
}

// Data 所有车辆（按ID升序，含尚未生效的新车）
func (m *Manager) Data() []*Vehicle {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	vs := lo.Values(m.data)
	return sortByID(vs)
}

// Len 车辆数量（含尚未生效的新车）
func (m *Manager) Len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.data)
}

// ResetAll 所有车辆回到初始位姿
func (m *Manager) ResetAll() {
	n, _ := m.Reset(nil)
	log.Infof("reset %d vehicles", n)
}

// Reset 指定车辆回到初始位姿，ids为空时处理所有车辆
// 返回：复位的车辆数量与不存在的ID
func (m *Manager) Reset(ids []int32) (int, []int32) {
	vs, failed := utils.Find(m.dataMap(), m.Data(), ids)
	parallel.GoFor(vs, func(v *Vehicle) { v.ResetToInitialPose() })
	if len(failed) > 0 {
		log.Warnf("reset: no vehicles with ids %v", failed)
	}
	return len(vs), failed
}

func (m *Manager) dataMap() map[int32]*Vehicle {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return lo.Assign(m.data)
}

// Prepare 准备阶段：车辆增删生效，发布统计快照
func (m *Manager) Prepare() {
	m.vehicles.Prepare()
	m.runtimeMtx.Lock()
	m.snapshot = m.runtime
	m.runtimeMtx.Unlock()
}

// Update 更新阶段
func (m *Manager) Update(dt float64) {
	parallel.GoFor(m.vehicles.Data(), func(v *Vehicle) { v.Update(dt) })
}

// Snapshot 上一次Prepare时的统计数据
func (m *Manager) Snapshot() GlobalRuntime {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	return m.snapshot
}

func (m *Manager) recordArrival() {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	m.runtime.NumArrivals++
}

func sortByID(vs []*Vehicle) []*Vehicle {
	slices.SortFunc(vs, func(a, b *Vehicle) int { return cmp.Compare(a.id, b.id) })
	return vs
}
