package road

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/trafficlight"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Graph 路网
// 功能：持有全部路点与道路段，提供最近点查询、路径规划、吸附与信号灯分配
// 说明：路点与道路段在构建完成后只读，可被多个车辆并发查询；
// 信号灯由路网持有，路口到信号灯的映射指向最后一次分配的信号灯
type Graph struct {
	waypoints []*Waypoint
	segments  []*Segment

	segmentOf     []int32 // 路点ID -> 所属道路段ID
	intersections []int32 // 路口segment ID，按创建顺序
	roadPoints    []int32 // 非路口路点ID，按ID升序

	ug *simple.UndirectedGraph // 连通性校验用的镜像图

	signals             *trafficlight.Manager
	mtx                 sync.RWMutex
	intersectionSignals map[int32]int32 // 路口segment ID -> 信号灯ID
}

func newGraph(durations trafficlight.Durations) *Graph {
	return &Graph{
		waypoints:           make([]*Waypoint, 0),
		segments:            make([]*Segment, 0),
		segmentOf:           make([]int32, 0),
		intersections:       make([]int32, 0),
		roadPoints:          make([]int32, 0),
		signals:             trafficlight.NewManager(durations),
		intersectionSignals: make(map[int32]int32),
	}
}

// addWaypoint 新增路点，返回路点ID
func (g *Graph) addWaypoint(p orb.Point) int32 {
	id := int32(len(g.waypoints))
	g.waypoints = append(g.waypoints, &Waypoint{ID: id, Position: p, Connections: []int32{}})
	g.segmentOf = append(g.segmentOf, -1)
	return id
}

// connect 无向连接两个路点，重复连接与自连接忽略
func (g *Graph) connect(a, b int32) {
	if a == b || lo.Contains(g.waypoints[a].Connections, b) {
		return
	}
	g.waypoints[a].Connections = append(g.waypoints[a].Connections, b)
	g.waypoints[b].Connections = append(g.waypoints[b].Connections, a)
}

// addSegment 新增道路段并登记其路点的归属
func (g *Graph) addSegment(kind SegmentKind, center orb.Point, width, length, rotation float64, waypoints []int32) *Segment {
	s := &Segment{
		ID:        int32(len(g.segments)),
		Kind:      kind,
		Center:    center,
		Width:     width,
		Length:    length,
		Rotation:  rotation,
		Waypoints: waypoints,
	}
	g.segments = append(g.segments, s)
	for _, wp := range waypoints {
		g.segmentOf[wp] = s.ID
	}
	if kind == Intersection {
		g.intersections = append(g.intersections, s.ID)
	}
	return s
}

// finish 构建索引与连通性镜像图，并校验路网
func (g *Graph) finish() error {
	g.roadPoints = g.roadPoints[:0]
	for _, wp := range g.waypoints {
		if seg := g.segmentOf[wp.ID]; seg >= 0 && g.segments[seg].Kind == Intersection {
			continue
		}
		g.roadPoints = append(g.roadPoints, wp.ID)
	}

	g.ug = simple.NewUndirectedGraph()
	for _, wp := range g.waypoints {
		g.ug.AddNode(simple.Node(wp.ID))
	}
	for _, wp := range g.waypoints {
		for _, to := range wp.Connections {
			if to > wp.ID {
				g.ug.SetEdge(g.ug.NewEdge(simple.Node(wp.ID), simple.Node(to)))
			}
		}
	}
	return g.validate()
}

// validate 校验连接对称性
func (g *Graph) validate() error {
	for _, wp := range g.waypoints {
		for _, to := range wp.Connections {
			if to < 0 || int(to) >= len(g.waypoints) {
				return fmt.Errorf("waypoint %d connects to unknown waypoint %d", wp.ID, to)
			}
			if !lo.Contains(g.waypoints[to].Connections, wp.ID) {
				return fmt.Errorf("connection %d->%d is not reciprocal", wp.ID, to)
			}
		}
	}
	return nil
}

// Connected 路网是否连通（空路网视为连通）
func (g *Graph) Connected() bool {
	if g.ug == nil || len(g.waypoints) == 0 {
		return true
	}
	return len(topo.ConnectedComponents(g.ug)) <= 1
}

// Waypoint 根据ID获取路点
func (g *Graph) Waypoint(id int32) (*Waypoint, error) {
	if id < 0 || int(id) >= len(g.waypoints) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchWaypoint, id)
	}
	return g.waypoints[id], nil
}

// Segment 根据ID获取道路段
func (g *Graph) Segment(id int32) (*Segment, error) {
	if id < 0 || int(id) >= len(g.segments) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchSegment, id)
	}
	return g.segments[id], nil
}

// SegmentOfWaypoint 路点所属的道路段ID
func (g *Graph) SegmentOfWaypoint(id int32) (int32, error) {
	if id < 0 || int(id) >= len(g.segmentOf) {
		return -1, fmt.Errorf("%w: %d", ErrNoSuchWaypoint, id)
	}
	return g.segmentOf[id], nil
}

// Waypoints 所有路点（只读）
func (g *Graph) Waypoints() []*Waypoint {
	return g.waypoints
}

// Segments 所有道路段（只读）
func (g *Graph) Segments() []*Segment {
	return g.segments
}

// Intersections 所有路口segment ID
func (g *Graph) Intersections() []int32 {
	return g.intersections
}

// Bound 路网占据的范围（所有道路段矩形的并）
func (g *Graph) Bound() orb.Bound {
	if len(g.segments) == 0 {
		return orb.Bound{}
	}
	b := g.segments[0].Bound()
	for _, s := range g.segments[1:] {
		b = b.Union(s.Bound())
	}
	return b
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph{waypoints=%d, segments=%d, intersections=%d}",
		len(g.waypoints), len(g.segments), len(g.intersections))
}
