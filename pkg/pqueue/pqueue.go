// Package pqueue provides an updatable min-priority queue over dense integer ids.
//
// Ids are expected in the range [0, capacity). Membership is tracked in a
// position table so Contains is O(1) and Remove/Update are O(log n).
// Equal priorities are served in insertion order.
package pqueue

import "container/heap"

const absent = -1

type item struct {
	id       int
	priority float32
	seq      uint64
}

// entries implements heap.Interface and keeps the position table in sync.
type entries struct {
	items []item
	pos   []int
}

func (e *entries) Len() int { return len(e.items) }

func (e *entries) Less(i, j int) bool {
	a, b := e.items[i], e.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (e *entries) Swap(i, j int) {
	e.items[i], e.items[j] = e.items[j], e.items[i]
	e.pos[e.items[i].id] = i
	e.pos[e.items[j].id] = j
}

func (e *entries) Push(x interface{}) {
	it := x.(item)
	e.pos[it.id] = len(e.items)
	e.items = append(e.items, it)
}

func (e *entries) Pop() interface{} {
	old := e.items
	n := len(old)
	it := old[n-1]
	e.items = old[:n-1]
	e.pos[it.id] = absent
	return it
}

// Queue is a min-priority queue keyed by float32 priority.
// The zero value is not usable; call New.
type Queue struct {
	e   entries
	seq uint64
}

// New creates a queue for ids in [0, capacity).
func New(capacity int) *Queue {
	pos := make([]int, capacity)
	for i := range pos {
		pos[i] = absent
	}
	return &Queue{e: entries{pos: pos}}
}

// Len returns the number of queued ids.
func (q *Queue) Len() int { return q.e.Len() }

// Contains reports whether id is queued.
func (q *Queue) Contains(id int) bool {
	return id >= 0 && id < len(q.e.pos) && q.e.pos[id] != absent
}

// Insert queues id with the given priority. Inserting a queued id updates its priority.
func (q *Queue) Insert(id int, priority float32) {
	if q.Contains(id) {
		q.Update(id, priority)
		return
	}
	q.seq++
	heap.Push(&q.e, item{id: id, priority: priority, seq: q.seq})
}

// ExtractMin removes and returns the id with the smallest priority.
// It panics on an empty queue; check Len first.
func (q *Queue) ExtractMin() int {
	if q.Len() == 0 {
		panic("pqueue: ExtractMin on empty queue")
	}
	return heap.Pop(&q.e).(item).id
}

// Remove drops id from the queue. It reports whether id was queued.
func (q *Queue) Remove(id int) bool {
	if !q.Contains(id) {
		return false
	}
	heap.Remove(&q.e, q.e.pos[id])
	return true
}

// Update changes the priority of a queued id. Unknown ids are ignored.
func (q *Queue) Update(id int, priority float32) {
	if !q.Contains(id) {
		return
	}
	i := q.e.pos[id]
	q.e.items[i].priority = priority
	heap.Fix(&q.e, i)
}

// Reset empties the queue, keeping its capacity.
func (q *Queue) Reset() {
	for _, it := range q.e.items {
		q.e.pos[it.id] = absent
	}
	q.e.items = q.e.items[:0]
	q.seq = 0
}
