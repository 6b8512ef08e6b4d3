package road

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// SegmentKind 道路段类型
type SegmentKind int32

const (
	Horizontal   SegmentKind = iota // 水平道路
	Vertical                        // 竖直道路
	Intersection                    // 路口
)

func (k SegmentKind) String() string {
	switch k {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Intersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Waypoint 路点
// 说明：连接关系是无向的，A连接B当且仅当B连接A；构建完成后不再修改
type Waypoint struct {
	ID          int32     // 路点ID
	Position    orb.Point // 坐标
	Connections []int32   // 相邻路点ID（按连接建立顺序）
}

// Segment 道路段（水平道路、竖直道路或路口）
// 说明：道路段上的路点等间距排成一条直线；路口只有中心一个路点，用于衔接水平与竖直道路
type Segment struct {
	ID        int32
	Kind      SegmentKind
	Center    orb.Point // 中心坐标
	Width     float64   // 宽度（垂直于行驶方向）
	Length    float64   // 长度（沿行驶方向）
	Rotation  float64   // 旋转角（弧度），竖直道路为π/2
	Waypoints []int32   // 段上的路点ID（沿行驶方向排序）
}

// Bound 道路段占据的轴对齐矩形
func (s *Segment) Bound() orb.Bound {
	hx, hy := s.Length/2, s.Width/2
	if s.Kind == Vertical {
		hx, hy = hy, hx
	}
	return orb.Bound{
		Min: orb.Point{s.Center.X() - hx, s.Center.Y() - hy},
		Max: orb.Point{s.Center.X() + hx, s.Center.Y() + hy},
	}
}

// distanceTo 点到道路段矩形的距离，点在矩形内时为0
func (s *Segment) distanceTo(p orb.Point) float64 {
	b := s.Bound()
	dx := math.Max(0, math.Max(b.Min.X()-p.X(), p.X()-b.Max.X()))
	dy := math.Max(0, math.Max(b.Min.Y()-p.Y(), p.Y()-b.Max.Y()))
	return math.Hypot(dx, dy)
}

func (s *Segment) String() string {
	return fmt.Sprintf("Segment{id=%d, kind=%v, center=%v, waypoints=%d}", s.ID, s.Kind, s.Center, len(s.Waypoints))
}
