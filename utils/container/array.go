package container

import (
	"sync"

	"github.com/samber/lo"
)

// IIncrementalItem 支持增量更新的元素接口
// 功能：定义支持增量更新的元素必须实现的方法
// 说明：元素需要记录自己在数组中的位置，-1表示不在数组中
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 功能：提供增量元素的基础实现，可以作为其他结构体的嵌入字段
type IncrementalItemBase struct {
	index int // 元素在数组中的索引
}

// Index 获取元素的索引
func (b *IncrementalItemBase) Index() int {
	return b.index
}

// SetIndex 设置元素的索引
func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组，支持增量维护元素的数组
// 功能：在模拟步中缓存添加和删除操作，在Prepare时统一生效
// 说明：Update阶段遍历Data()时不会看到同一步内新增或删除的元素
type IncrementalArray[T IIncrementalItem] struct {
	data []T // 主数据数组
	add  []T // 待添加的元素列表
	// 待删除的元素列表
	remove []T
	mtx    sync.Mutex
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{
		data:   make([]T, 0),
		add:    make([]T, 0),
		remove: make([]T, 0),
	}
}

// Len 获取当前数组长度（不含待处理的元素）
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取已生效的数据
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Pending 获取待添加与待删除的元素数量
func (a *IncrementalArray[T]) Pending() (add, remove int) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return len(a.add), len(a.remove)
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	value.SetIndex(-1)
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
func (a *IncrementalArray[T]) Remove(value T) {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 功能：统一执行所有待处理的添加和删除操作
// 算法说明：
// 1. 同一步内先添加后删除的元素直接抵消，不进入主数组
// 2. 删除：用数组末尾的元素填补被删除元素的位置（重复删除只处理一次）
// 3. 添加：追加到数组末尾并设置索引
// 说明：删除后元素顺序会改变，调用方不应依赖Data()的顺序
func (a *IncrementalArray[T]) Prepare() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	removed := make(map[IIncrementalItem]struct{}, len(a.remove))
	for _, x := range a.remove {
		removed[x] = struct{}{}
	}
	a.add = lo.Filter(a.add, func(x T, _ int) bool {
		if _, ok := removed[x]; ok {
			delete(removed, x)
			return false
		}
		return true
	})
	for x := range removed {
		ind := x.Index()
		if ind < 0 || ind >= len(a.data) {
			continue
		}
		last := len(a.data) - 1
		a.data[ind] = a.data[last]
		a.data[ind].SetIndex(ind)
		a.data = a.data[:last]
		x.SetIndex(-1)
	}
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}

	a.add = []T{}
	a.remove = []T{}
}
