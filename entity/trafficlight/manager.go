package trafficlight

import (
	"fmt"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
)

// 信号灯管理器
// 功能：创建并持有所有信号灯，驱动它们的Prepare/Update，处理广播
type Manager struct {
	durations Durations

	mtx     sync.RWMutex
	data    map[int32]*Signal
	signals []*Signal
	nextID  int32
}

// NewManager 创建信号灯管理器
// 参数：durations-新建信号灯使用的相位时长
func NewManager(durations Durations) *Manager {
	return &Manager{
		durations: durations,
		data:      make(map[int32]*Signal),
		signals:   make([]*Signal, 0),
	}
}

// New 在指定路口新建一个信号灯
// 说明：不检查该路口是否已有信号灯，由调用方负责
func (m *Manager) New(intersectionID int32) *Signal {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	s := NewSignal(m.nextID, intersectionID, m.durations)
	m.nextID++
	m.data[s.id] = s
	m.signals = append(m.signals, s)
	return s
}

// Get 根据ID获取信号灯，如果不存在则panic
func (m *Manager) Get(id int32) entity.ISignal {
	if s, ok := m.getSignal(id); !ok {
		log.Panicf("no id %d in signal data", id)
		return nil
	} else {
		return s
	}
}

// GetOrError 根据ID获取信号灯，如果不存在则返回错误
func (m *Manager) GetOrError(id int32) (entity.ISignal, error) {
	if s, ok := m.getSignal(id); !ok {
		return nil, fmt.Errorf("no id %d in signal data", id)
	} else {
		return s, nil
	}
}

// Signal 根据ID获取信号灯实体（可写）
func (m *Manager) Signal(id int32) (*Signal, bool) {
	return m.getSignal(id)
}

func (m *Manager) getSignal(id int32) (*Signal, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	s, ok := m.data[id]
	return s, ok
}

// Data 所有信号灯（按创建顺序）
func (m *Manager) Data() []*Signal {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return append([]*Signal(nil), m.signals...)
}

func (m *Manager) Len() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.signals)
}

// ToggleAll 所有信号灯切换到下一相位
// 说明：广播不保证各信号灯的处理顺序
func (m *Manager) ToggleAll() {
	signals := m.Data()
	for _, s := range signals {
		s.Toggle()
	}
	log.Infof("toggled %d signals", len(signals))
}

// SetAllOk 设置所有信号灯的开关状态（下一次Prepare时生效）
// 说明：关闭后车辆将所有路口视为绿灯，计时冻结
func (m *Manager) SetAllOk(ok bool) {
	signals := m.Data()
	for _, s := range signals {
		s.SetOk(ok)
	}
	log.Infof("set %d signals ok=%v", len(signals), ok)
}

// Prepare 准备阶段，发布所有信号灯的快照
func (m *Manager) Prepare() {
	parallel.GoFor(m.Data(), func(s *Signal) { s.Prepare() })
}

// Update 更新阶段，推进所有信号灯的计时
func (m *Manager) Update(dt float64) {
	parallel.GoFor(m.Data(), func(s *Signal) { s.Update(dt) })
}
