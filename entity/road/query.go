package road

import (
	"fmt"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/samber/lo"
)

// NearestWaypoint 查找距离(x, y)最近的路点
// 返回：路点ID，路网为空时返回ErrEmptyGraph
// 说明：距离相同时取ID最小者
func (g *Graph) NearestWaypoint(x, y float64) (int32, error) {
	if len(g.waypoints) == 0 {
		return -1, ErrEmptyGraph
	}
	p := orb.Point{x, y}
	best, bestDis := int32(-1), mathutil.INF
	for _, wp := range g.waypoints {
		if d := planar.DistanceSquared(p, wp.Position); d < bestDis {
			best, bestDis = wp.ID, d
		}
	}
	return best, nil
}

// NearestSegment 查找距离(x, y)最近的道路段
// 说明：距离按点到道路段矩形计算，点在矩形内时为0；距离相同时取ID最小者
func (g *Graph) NearestSegment(x, y float64) (int32, error) {
	if len(g.segments) == 0 {
		return -1, fmt.Errorf("%w: no segments", ErrEmptyGraph)
	}
	p := orb.Point{x, y}
	best, bestDis := int32(-1), mathutil.INF
	for _, s := range g.segments {
		if d := s.distanceTo(p); d < bestDis {
			best, bestDis = s.ID, d
		}
	}
	return best, nil
}

// SnapToRoad 将点吸附到过原点的两条坐标轴道路上
// 说明：|y|<|x|时吸附到x轴（y=0），否则吸附到y轴（x=0）
func SnapToRoad(x, y float64) (float64, float64) {
	if mathutil.Abs(y) < mathutil.Abs(x) {
		return x, 0
	}
	return 0, y
}

// SnapToRoad 见包级函数SnapToRoad
func (g *Graph) SnapToRoad(x, y float64) (float64, float64) {
	return SnapToRoad(x, y)
}

// IntersectionAt 查询点所在的路口
// 返回：路口segment ID，不在任何路口内时ok为false
func (g *Graph) IntersectionAt(p orb.Point) (int32, bool) {
	for _, id := range g.intersections {
		if g.segments[id].Bound().Contains(p) {
			return id, true
		}
	}
	return -1, false
}

// RoadWaypoints 所有非路口路点的ID
func (g *Graph) RoadWaypoints() []int32 {
	return g.roadPoints
}

// RoadPoints 所有非路口路点的坐标
func (g *Graph) RoadPoints() []orb.Point {
	return lo.Map(g.roadPoints, func(id int32, _ int) orb.Point {
		return g.waypoints[id].Position
	})
}
