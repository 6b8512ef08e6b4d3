package road

import (
	"fmt"

	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/trafficlight"
)

// AssignSignal 在路口上新建一个信号灯
// 返回：新信号灯的ID，segment不是路口时返回ErrNotAnIntersection
// 说明：重复分配会再创建一个信号灯，路口映射指向最新的那个
func (g *Graph) AssignSignal(intersectionID int32) (int32, error) {
	seg, err := g.Segment(intersectionID)
	if err != nil {
		return -1, fmt.Errorf("%w: %w", ErrNotAnIntersection, err)
	}
	if seg.Kind != Intersection {
		return -1, fmt.Errorf("%w: segment %d is %v", ErrNotAnIntersection, intersectionID, seg.Kind)
	}
	s := g.signals.New(intersectionID)
	g.mtx.Lock()
	defer g.mtx.Unlock()
	if old, ok := g.intersectionSignals[intersectionID]; ok {
		log.Warnf("intersection %d already has signal %d, replaced by %d", intersectionID, old, s.ID())
	}
	g.intersectionSignals[intersectionID] = s.ID()
	return s.ID(), nil
}

// HasSignal 路口上是否有信号灯
func (g *Graph) HasSignal(intersectionID int32) bool {
	g.mtx.RLock()
	defer g.mtx.RUnlock()
	_, ok := g.intersectionSignals[intersectionID]
	return ok
}

// SignalOf 路口上的信号灯，没有则返回nil
func (g *Graph) SignalOf(intersectionID int32) entity.ISignal {
	if s := g.signal(intersectionID); s != nil {
		return s
	}
	return nil
}

func (g *Graph) signal(intersectionID int32) *trafficlight.Signal {
	g.mtx.RLock()
	id, ok := g.intersectionSignals[intersectionID]
	g.mtx.RUnlock()
	if !ok {
		return nil
	}
	s, _ := g.signals.Signal(id)
	return s
}

// Signals 路网持有的信号灯管理器
func (g *Graph) Signals() *trafficlight.Manager {
	return g.signals
}
