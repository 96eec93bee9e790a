package raster

import "sync"

// Queue is the FIFO of draw units shared by the frame orchestrator and the
// workers. All access goes through one mutex.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []DrawUnit
	head   int
	closed bool
}

func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends u and wakes one waiting worker. Pushing to a closed queue
// drops the unit and returns false.
func (q *Queue) Push(u DrawUnit) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, u)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// TryPop removes the head without blocking. ok is false when the queue is
// empty.
func (q *Queue) TryPop() (u DrawUnit, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// Pop blocks until a unit is available or the queue is closed. After Close
// it keeps returning the remaining units, then ok == false.
func (q *Queue) Pop() (u DrawUnit, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}
	return q.popLocked()
}

func (q *Queue) popLocked() (DrawUnit, bool) {
	if q.head == len(q.items) {
		return DrawUnit{}, false
	}
	u := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		// Drained: reuse the backing array for the next frame.
		q.items = q.items[:0]
		q.head = 0
	}
	return u, true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Close wakes every blocked Pop.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
