package physics

import (
	"math"

	"github.com/paulmach/orb"
)

const epsilon = 1e-9

// rayCircle 射线与圆的首个交点距离
// 参数：o-射线起点，d-单位方向向量，c-圆心，r-半径
// 说明：起点在圆内时距离为0
func rayCircle(o, d, c orb.Point, r float64) (float64, bool) {
	mx, my := o.X()-c.X(), o.Y()-c.Y()
	b := mx*d.X() + my*d.Y()
	cc := mx*mx + my*my - r*r
	if cc <= 0 {
		return 0, true
	}
	if b > 0 {
		return 0, false
	}
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}

// rayBound 射线与轴对齐矩形的首个交点距离（slab算法）
// 说明：起点在矩形内时距离为0
func rayBound(o, d orb.Point, bound orb.Bound) (float64, bool) {
	tmin, tmax := 0.0, math.Inf(1)
	for axis := 0; axis < 2; axis++ {
		if math.Abs(d[axis]) < epsilon {
			if o[axis] < bound.Min[axis] || o[axis] > bound.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (bound.Min[axis] - o[axis]) / d[axis]
		t2 := (bound.Max[axis] - o[axis]) / d[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}
