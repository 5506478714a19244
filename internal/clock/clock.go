// Package clock provides a deterministic timer queue driven by explicit
// elapsed time. The simulation advances it once per tick, so timers fire in
// due order, interleave predictably with the tick, and can be cancelled.
package clock

import (
	"time"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/utils"
)

// TimerID identifies a scheduled timer. The zero value never refers to a timer.
type TimerID uint64

type timer struct {
	id    TimerID
	due   time.Duration
	every time.Duration // 0 for one-shot timers
	seq   uint64        // Enqueue order, breaks ties between equal due times
	fn    func() bool   // Recurring timers stop when fn returns false
}

// Queue holds pending timers against its own monotonic time base.
// Not safe for concurrent use; the owning loop serializes access.
type Queue struct {
	now     time.Duration
	nextID  TimerID
	nextSeq uint64
	pending *priorityqueue.Queue
	live    map[TimerID]*timer
}

// minInterval keeps recurring timers from spinning inside one Advance.
const minInterval = time.Millisecond

// New creates an empty queue at time zero.
func New() *Queue {
	return &Queue{
		pending: priorityqueue.NewWith(byDue),
		live:    make(map[TimerID]*timer),
	}
}

func byDue(a, b interface{}) int {
	ta := a.(*timer)
	tb := b.(*timer)
	if c := utils.Int64Comparator(int64(ta.due), int64(tb.due)); c != 0 {
		return c
	}
	return utils.UInt64Comparator(ta.seq, tb.seq)
}

// Now returns the queue's current time.
func (q *Queue) Now() time.Duration {
	return q.now
}

// Len returns the number of live timers.
func (q *Queue) Len() int {
	return len(q.live)
}

// After schedules fn to run once, d after the current time.
func (q *Queue) After(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	return q.schedule(d, 0, func() bool {
		fn()
		return false
	})
}

// Every schedules fn to run every d until it returns false or is cancelled.
// The first run happens d after the current time.
func (q *Queue) Every(d time.Duration, fn func() bool) TimerID {
	if d < minInterval {
		d = minInterval
	}
	return q.schedule(d, d, fn)
}

func (q *Queue) schedule(delay, every time.Duration, fn func() bool) TimerID {
	q.nextID++
	t := &timer{
		id:    q.nextID,
		due:   q.now + delay,
		every: every,
		fn:    fn,
	}
	q.live[t.id] = t
	q.push(t)
	return t.id
}

func (q *Queue) push(t *timer) {
	q.nextSeq++
	t.seq = q.nextSeq
	q.pending.Enqueue(t)
}

// Cancel stops a timer. Returns false if it already fired or was cancelled.
func (q *Queue) Cancel(id TimerID) bool {
	if _, ok := q.live[id]; !ok {
		return false
	}
	delete(q.live, id)
	return true
}

// Active reports whether the timer is still scheduled.
func (q *Queue) Active(id TimerID) bool {
	_, ok := q.live[id]
	return ok
}

// Remaining returns the time until the timer next fires.
func (q *Queue) Remaining(id TimerID) (time.Duration, bool) {
	t, ok := q.live[id]
	if !ok {
		return 0, false
	}
	return t.due - q.now, true
}

// Advance moves time forward by dt, running every timer that comes due in
// due order. Callbacks observe Now() equal to their own due time and may
// schedule or cancel timers; newly scheduled timers that fall inside the
// window also run. Returns the number of callbacks run.
func (q *Queue) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := q.now + dt
	fired := 0

	for {
		top, ok := q.pending.Peek()
		if !ok {
			break
		}
		t := top.(*timer)
		if q.live[t.id] != t {
			q.pending.Dequeue() // Cancelled
			continue
		}
		if t.due > target {
			break
		}
		q.pending.Dequeue()
		q.now = t.due

		keep := t.fn()
		fired++

		if q.live[t.id] != t {
			continue // Cancelled from inside its own callback
		}
		if keep && t.every > 0 {
			t.due += t.every
			q.push(t)
		} else {
			delete(q.live, t.id)
		}
	}

	q.now = target
	return fired
}

// Reset drops every pending timer. Time does not rewind.
func (q *Queue) Reset() {
	q.pending.Clear()
	clear(q.live)
}
