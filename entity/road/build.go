package road

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/entity/trafficlight"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
)

// BuildGrid 构建n×n街区的网格路网
// 功能：在(i-n/2)*block（i=0..n）处布置水平与竖直道路，交叉处为路口
// 参数：grid-路网配置，signal-新建信号灯使用的相位时长
// 返回：路网，参数非法时返回ErrConfiguration
// 算法说明：
// 1. 先按行优先创建所有路口，每个路口只有中心一个路点
// 2. 再按行优先创建水平道路，按列优先创建竖直道路，每条道路填满两个路口之间的空隙
// 3. 道路上的路点等间距排列，首尾路点与两端路口的中心路点相连
// 说明：n/2取整，因此x轴与y轴始终是道路
func BuildGrid(grid config.Grid, signal config.Signal) (*Graph, error) {
	if grid.Size <= 0 || grid.BlockSize <= 0 || grid.WaypointSpacing < 0 {
		return nil, fmt.Errorf("%w: size=%d block_size=%v waypoint_spacing=%v",
			ErrConfiguration, grid.Size, grid.BlockSize, grid.WaypointSpacing)
	}
	grid = grid.WithDefaults()

	g := newGraph(trafficlight.NewDurations(signal))
	n := int(grid.Size)
	block := grid.BlockSize
	half := math.Min(grid.IntersectionSize/2, block/4)
	coord := func(i int) float64 {
		return float64(i-n/2) * block
	}

	junctions := make([][]int32, n+1)
	for r := 0; r <= n; r++ {
		junctions[r] = make([]int32, n+1)
		for c := 0; c <= n; c++ {
			center := orb.Point{coord(c), coord(r)}
			wp := g.addWaypoint(center)
			g.addSegment(Intersection, center, 2*half, 2*half, 0, []int32{wp})
			junctions[r][c] = wp
		}
	}
	for r := 0; r <= n; r++ {
		y := coord(r)
		for c := 0; c < n; c++ {
			from := orb.Point{coord(c) + half, y}
			to := orb.Point{coord(c+1) - half, y}
			g.addRoad(Horizontal, from, to, grid.RoadWidth, grid.WaypointSpacing, junctions[r][c], junctions[r][c+1])
		}
	}
	for c := 0; c <= n; c++ {
		x := coord(c)
		for r := 0; r < n; r++ {
			from := orb.Point{x, coord(r) + half}
			to := orb.Point{x, coord(r+1) - half}
			g.addRoad(Vertical, from, to, grid.RoadWidth, grid.WaypointSpacing, junctions[r][c], junctions[r+1][c])
		}
	}

	if err := g.finish(); err != nil {
		return nil, err
	}
	if !g.Connected() {
		return nil, fmt.Errorf("grid with size=%d is not connected", grid.Size)
	}
	log.Infof("built %dx%d grid: %v", n, n, g)
	return g, nil
}

// addRoad 在from与to之间创建一条道路，并与两端路口的中心路点相连
func (g *Graph) addRoad(kind SegmentKind, from, to orb.Point, width, spacing float64, head, tail int32) *Segment {
	length := math.Hypot(to.X()-from.X(), to.Y()-from.Y())
	count := int(math.Ceil(length/spacing)) + 1
	if count < 2 {
		count = 2
	}
	ids := make([]int32, count)
	for k := 0; k < count; k++ {
		t := float64(k) / float64(count-1)
		ids[k] = g.addWaypoint(orb.Point{
			from.X() + (to.X()-from.X())*t,
			from.Y() + (to.Y()-from.Y())*t,
		})
		if k > 0 {
			g.connect(ids[k-1], ids[k])
		}
	}
	g.connect(head, ids[0])
	g.connect(ids[count-1], tail)

	rotation := 0.0
	if kind == Vertical {
		rotation = math.Pi / 2
	}
	center := orb.Point{(from.X() + to.X()) / 2, (from.Y() + to.Y()) / 2}
	return g.addSegment(kind, center, width, length, rotation, ids)
}
