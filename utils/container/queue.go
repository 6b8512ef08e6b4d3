package container

// Queue 先进先出队列
// 功能：为广度优先搜索提供队列，出队后的空间在队列清空时回收
type Queue[T any] struct {
	data []T
	head int
}

// NewQueue 创建队列，capacity为预分配容量
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{data: make([]T, 0, capacity)}
}

// Len 获取队列中元素数量
func (q *Queue[T]) Len() int {
	return len(q.data) - q.head
}

// Push 入队
func (q *Queue[T]) Push(value T) {
	q.data = append(q.data, value)
}

// Pop 出队，队列为空时ok为false
func (q *Queue[T]) Pop() (value T, ok bool) {
	if q.Len() == 0 {
		return value, false
	}
	value = q.data[q.head]
	var zero T
	q.data[q.head] = zero
	q.head++
	if q.head == len(q.data) {
		q.data = q.data[:0]
		q.head = 0
	}
	return value, true
}
