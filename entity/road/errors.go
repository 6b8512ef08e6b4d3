package road

import "errors"

var (
	// 网格参数非法（grid_size或block_size不为正），构建时致命
	ErrConfiguration = errors.New("invalid road grid configuration")
	// 路网中没有任何路点
	ErrEmptyGraph = errors.New("road graph has no waypoints")
	// 起终点之间不连通
	ErrUnreachable = errors.New("destination unreachable")
	// 目标segment不是路口
	ErrNotAnIntersection = errors.New("segment is not an intersection")
	// 路点ID不存在
	ErrNoSuchWaypoint = errors.New("no such waypoint")
	// segment ID不存在
	ErrNoSuchSegment = errors.New("no such segment")
)
