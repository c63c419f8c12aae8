package button

import (
	"container/heap"
	"time"
)

type timerKind int

const (
	sequenceCompletion timerKind = iota
	longPressEscalation
)

func (k timerKind) String() string {
	if k == longPressEscalation {
		return "long-press"
	}
	return "sequence"
}

type timerEntry struct {
	at     time.Time
	kind   timerKind
	button *Button
	seq    uint64

	// sequenceCompletion
	release time.Time

	// longPressEscalation
	longPress *longPressHandler
	pressedAt time.Time
}

// timerQueue orders pending deadlines by trigger time, and by insertion order
// for equal trigger times.
type timerQueue struct {
	entries timerHeap
	nextSeq uint64
}

// push inserts e and reports whether it became the earliest entry.
func (q *timerQueue) push(e *timerEntry) bool {
	e.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.entries, e)
	return q.entries[0] == e
}

func (q *timerQueue) peek() *timerEntry {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// popDue removes and returns the earliest entry if it is due at now.
func (q *timerQueue) popDue(now time.Time) *timerEntry {
	head := q.peek()
	if head == nil || head.at.After(now) {
		return nil
	}
	return heap.Pop(&q.entries).(*timerEntry)
}

func (q *timerQueue) len() int {
	return len(q.entries)
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) {
	*h = append(*h, x.(*timerEntry))
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
