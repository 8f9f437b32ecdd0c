package sequence

import "container/heap"

type item[T any] struct {
	value    T
	priority float64
	seq      uint64
}

type minHeap[T any] struct {
	items []item[T]
}

func (h *minHeap[T]) Len() int { return len(h.items) }

// Less orders by priority, then by insertion order.
func (h *minHeap[T]) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (h *minHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *minHeap[T]) Push(x any) { h.items = append(h.items, x.(item[T])) }

func (h *minHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	it := old[n-1]
	old[n-1] = item[T]{}
	h.items = old[:n-1]
	return it
}

// PriorityQueue is a min-priority queue. Equal priorities dequeue in the
// order they were enqueued.
type PriorityQueue[T any] struct {
	h   minHeap[T]
	seq uint64
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	pq := &PriorityQueue[T]{}
	heap.Init(&pq.h)
	return pq
}

func (pq *PriorityQueue[T]) Enqueue(value T, priority float64) {
	heap.Push(&pq.h, item[T]{value: value, priority: priority, seq: pq.seq})
	pq.seq++
}

func (pq *PriorityQueue[T]) Dequeue() (T, bool) {
	if pq.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return heap.Pop(&pq.h).(item[T]).value, true
}

func (pq *PriorityQueue[T]) Peek() (T, bool) {
	if pq.h.Len() == 0 {
		var zero T
		return zero, false
	}
	return pq.h.items[0].value, true
}

func (pq *PriorityQueue[T]) Len() int { return pq.h.Len() }

func (pq *PriorityQueue[T]) IsEmpty() bool { return pq.h.Len() == 0 }

// Reset empties the queue, keeping its storage.
func (pq *PriorityQueue[T]) Reset() {
	clear(pq.h.items)
	pq.h.items = pq.h.items[:0]
	pq.seq = 0
}
