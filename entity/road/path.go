package road

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/container"
)

// Path 路径（只能向前遍历，不可重置）
type Path struct {
	points []orb.Point
	ids    []int32
	cursor int
}

// Next 取出下一个路径点
// 返回：路径点坐标，遍历结束时ok为false
func (p *Path) Next() (orb.Point, bool) {
	if p.cursor >= len(p.points) {
		return orb.Point{}, false
	}
	pt := p.points[p.cursor]
	p.cursor++
	return pt, true
}

// Len 剩余的路径点数量
func (p *Path) Len() int {
	return len(p.points) - p.cursor
}

// Edges 路径的边数
func (p *Path) Edges() int {
	return len(p.ids) - 1
}

// IDs 路径上的路点ID（完整路径）
func (p *Path) IDs() []int32 {
	return append([]int32(nil), p.ids...)
}

// Points 取出所有剩余的路径点
func (p *Path) Points() []orb.Point {
	rest := append([]orb.Point(nil), p.points[p.cursor:]...)
	p.cursor = len(p.points)
	return rest
}

// FindPath 按边数最少规划两个路点之间的路径
// 返回：路径，包含起点与终点；起终点相同时只有一个点
// 算法说明：广度优先搜索，邻居按连接建立顺序展开，因此结果确定
func (g *Graph) FindPath(start, end int32) (*Path, error) {
	if _, err := g.Waypoint(start); err != nil {
		return nil, err
	}
	if _, err := g.Waypoint(end); err != nil {
		return nil, err
	}
	parent := make([]int32, len(g.waypoints))
	for i := range parent {
		parent[i] = -1
	}
	visited := make([]bool, len(g.waypoints))
	visited[start] = true
	queue := container.NewQueue[int32](len(g.waypoints))
	queue.Push(start)
	for queue.Len() > 0 {
		cur, _ := queue.Pop()
		if cur == end {
			break
		}
		for _, next := range g.waypoints[cur].Connections {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			queue.Push(next)
		}
	}
	if !visited[end] {
		return nil, fmt.Errorf("%w: from waypoint %d to %d", ErrUnreachable, start, end)
	}
	ids := []int32{end}
	for cur := end; cur != start; {
		cur = parent[cur]
		ids = append(ids, cur)
	}
	ids = lo.Reverse(ids)
	return &Path{
		ids: ids,
		points: lo.Map(ids, func(id int32, _ int) orb.Point {
			return g.waypoints[id].Position
		}),
	}, nil
}

// PlanRoute 将起终点吸附到最近路点后规划路径
// 返回：路径点坐标序列
func (g *Graph) PlanRoute(from, to orb.Point) ([]orb.Point, error) {
	start, err := g.NearestWaypoint(from.X(), from.Y())
	if err != nil {
		return nil, err
	}
	end, err := g.NearestWaypoint(to.X(), to.Y())
	if err != nil {
		return nil, err
	}
	path, err := g.FindPath(start, end)
	if err != nil {
		return nil, err
	}
	return path.Points(), nil
}
