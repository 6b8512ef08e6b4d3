package trafficlight

import (
	"fmt"
	"math"
	"sync"

	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
)

// Durations 各相位时长（秒）
type Durations struct {
	Red    float64
	Yellow float64
	Green  float64
}

// DefaultDurations 默认相位时长：红10秒、黄3秒、绿10秒
var DefaultDurations = Durations{
	Red:    config.DefaultRedSeconds,
	Yellow: config.DefaultYellowSeconds,
	Green:  config.DefaultGreenSeconds,
}

// NewDurations 从信号灯配置中读取相位时长，未填写的字段使用默认值
func NewDurations(c config.Signal) Durations {
	c = c.WithDefaults()
	return Durations{Red: c.RedSeconds, Yellow: c.YellowSeconds, Green: c.GreenSeconds}
}

// phaseEpsilon 相位计时比较容差，吸收浮点步长累加误差（如100次0.1不等于10）
const phaseEpsilon = 1e-9

// Of 获取指定相位的时长
func (d Durations) Of(p entity.Phase) float64 {
	switch p {
	case entity.PhaseRed:
		return d.Red
	case entity.PhaseYellow:
		return d.Yellow
	case entity.PhaseGreen:
		return d.Green
	default:
		log.Panicf("unknown phase %d", p)
		return 0
	}
}

// signalRuntime 信号灯运行时数据
// 说明：该数据结构需要可以被直接复制
type signalRuntime struct {
	phase    entity.Phase // 当前相位
	elapsed  float64      // 当前相位已持续时间
	duration float64      // 当前相位总时长
}

// Signal 定时信号灯控制器
// 功能：按照 红→绿→黄→红 的顺序循环切换相位，支持外部强制设置相位
// 说明：
// 1. runtime只由自身的Update和显式的SetPhase修改
// 2. 车辆只读取snapshot，snapshot在Prepare时发布（SetPhase立即发布）
type Signal struct {
	id             int32
	intersectionID int32
	durations      Durations

	mtx      sync.RWMutex
	runtime  signalRuntime // 运行时数据
	snapshot signalRuntime // 快照，供车辆读取
	ok       bool          // 信号灯状态，true为开启，false为关闭（视为全绿）
	okBuffer bool          // 信号灯状态buffer，Prepare时生效
}

// NewSignal 创建信号灯，初始为红灯
// 参数：id-信号灯ID，intersectionID-所在路口segment ID，durations-相位时长
func NewSignal(id, intersectionID int32, durations Durations) *Signal {
	rt := signalRuntime{
		phase:    entity.PhaseRed,
		duration: durations.Red,
	}
	return &Signal{
		id:             id,
		intersectionID: intersectionID,
		durations:      durations,
		runtime:        rt,
		snapshot:       rt,
		ok:             true,
		okBuffer:       true,
	}
}

// Prepare 准备阶段，发布快照并应用开关状态
func (s *Signal) Prepare() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.ok = s.okBuffer
	s.snapshot = s.runtime
}

// Update 更新阶段，推进当前相位计时
// 功能：累计当前相位时间，达到时长后切换到下一相位，超出部分计入下一相位
// 参数：dt-时间步长（秒）
// 说明：每次调用最多切换一次相位；信号灯关闭时计时冻结
func (s *Signal) Update(dt float64) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.ok {
		return
	}
	s.runtime.elapsed += dt
	if s.runtime.elapsed >= s.runtime.duration-phaseEpsilon {
		next := s.runtime.phase.Next()
		s.runtime = signalRuntime{
			phase:    next,
			elapsed:  math.Max(0, s.runtime.elapsed-s.runtime.duration),
			duration: s.durations.Of(next),
		}
		log.Debugf("signal %d (intersection %d) -> %v", s.id, s.intersectionID, next)
	}
}

// SetPhase 强制设置相位
// 功能：立即切换到指定相位，清零计时并载入该相位时长
// 说明：用于手动控制、测试以及"切换所有信号灯"广播，修改立即对读取方可见
func (s *Signal) SetPhase(p entity.Phase) error {
	if p < entity.PhaseRed || p > entity.PhaseGreen {
		return fmt.Errorf("signal %d: invalid phase %d", s.id, p)
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.setPhase(p)
	return nil
}

func (s *Signal) setPhase(p entity.Phase) {
	s.runtime = signalRuntime{
		phase:    p,
		elapsed:  0,
		duration: s.durations.Of(p),
	}
	s.snapshot = s.runtime
}

// Toggle 切换到相位循环中的下一相位
// 说明：以runtime中的相位为准（Update后、Prepare前调用也不会丢失刚发生的切换）；
// 信号灯关闭时同样推进内部相位，但对外仍显示绿灯，重新开启后生效
func (s *Signal) Toggle() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.setPhase(s.runtime.phase.Next())
}

// SetOk 设置信号灯开关（Prepare时生效）
// 参数：ok-true表示正常工作，false表示关闭（车辆视为绿灯）
func (s *Signal) SetOk(ok bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.okBuffer != ok {
		log.Debugf("signal %d (intersection %d) ok -> %v", s.id, s.intersectionID, ok)
	}
	s.okBuffer = ok
}

// Ok 获取信号灯开关状态
func (s *Signal) Ok() bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.ok
}

func (s *Signal) ID() int32 {
	return s.id
}

func (s *Signal) IntersectionID() int32 {
	return s.intersectionID
}

// Phase 获取当前相位（快照），信号灯关闭时返回绿灯
func (s *Signal) Phase() entity.Phase {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if !s.ok {
		return entity.PhaseGreen
	}
	return s.snapshot.phase
}

// Elapsed 当前相位已持续时间（快照）
func (s *Signal) Elapsed() float64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.snapshot.elapsed
}

// Duration 当前相位总时长（快照）
func (s *Signal) Duration() float64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.snapshot.duration
}

// RemainingTime 当前相位剩余时长（快照）
func (s *Signal) RemainingTime() float64 {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.snapshot.duration - s.snapshot.elapsed
}

func (s *Signal) IsRed() bool    { return s.Phase() == entity.PhaseRed }
func (s *Signal) IsYellow() bool { return s.Phase() == entity.PhaseYellow }
func (s *Signal) IsGreen() bool  { return s.Phase() == entity.PhaseGreen }

func (s *Signal) String() string {
	return fmt.Sprintf("Signal{id=%d, intersection=%d, phase=%v}", s.id, s.intersectionID, s.Phase())
}
