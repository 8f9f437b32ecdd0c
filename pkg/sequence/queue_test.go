package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrdersByPriority(t *testing.T) {
	pq := NewPriorityQueue[string]()
	pq.Enqueue("c", 3)
	pq.Enqueue("a", 1)
	pq.Enqueue("b", 2)

	var got []string
	for !pq.IsEmpty() {
		v, ok := pq.Dequeue()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	_, ok := pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueTiesKeepInsertionOrder(t *testing.T) {
	pq := NewPriorityQueue[int]()
	for i := 0; i < 50; i++ {
		pq.Enqueue(i, 1.5)
	}
	pq.Enqueue(-1, 0.5)

	head, _ := pq.Peek()
	assert.Equal(t, -1, head)
	_, _ = pq.Dequeue()
	for i := 0; i < 50; i++ {
		v, _ := pq.Dequeue()
		assert.Equal(t, i, v)
	}
}

func TestPriorityQueueReset(t *testing.T) {
	pq := NewPriorityQueue[int]()
	pq.Enqueue(1, 1)
	pq.Enqueue(2, 2)
	pq.Reset()

	assert.Equal(t, 0, pq.Len())
	pq.Enqueue(3, 0)
	v, ok := pq.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}
