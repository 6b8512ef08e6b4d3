package vehicle

import (
	"math"

	"github.com/paulmach/orb"
)

// motionIntent 一步的运动意图
type motionIntent struct {
	FX, FY float64 // 平移速度
	Turn   float64 // 转向角速度
}

// NormalizeAngle 将角度规范到(-π, π]
// 说明：NaN与无穷原样返回，由调用方当作故障处理
func NormalizeAngle(a float64) float64 {
	if !isFinite(a) {
		return a
	}
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// headingError 朝向target的航向误差
func headingError(pos, target orb.Point, heading float64) float64 {
	return NormalizeAngle(math.Atan2(target.Y()-pos.Y(), target.X()-pos.X()) - heading)
}

func isFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
