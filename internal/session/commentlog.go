package session

// CommentLog is an append-only list of comment timestamps with a fixed
// capacity. Pushes beyond capacity are dropped but still counted.
type CommentLog struct {
	capacity int
	values   []int
	total    int
}

// NewCommentLog returns an empty log holding at most capacity entries.
func NewCommentLog(capacity int) *CommentLog {
	if capacity < 0 {
		capacity = 0
	}
	return &CommentLog{
		capacity: capacity,
		values:   make([]int, 0, capacity),
	}
}

// Push stores v if there is room and reports whether it was stored.
func (l *CommentLog) Push(v int) bool {
	l.total++
	if len(l.values) >= l.capacity {
		return false
	}
	l.values = append(l.values, v)
	return true
}

// Len returns the number of stored timestamps.
func (l *CommentLog) Len() int {
	return len(l.values)
}

// Cap returns the capacity.
func (l *CommentLog) Cap() int {
	return l.capacity
}

// Total returns the number of pushes, stored or not.
func (l *CommentLog) Total() int {
	return l.total
}

// Dropped returns the number of pushes that did not fit.
func (l *CommentLog) Dropped() int {
	return l.total - len(l.values)
}

// Values returns a copy of the stored timestamps in recording order.
func (l *CommentLog) Values() []int {
	out := make([]int, len(l.values))
	copy(out, l.values)
	return out
}

// Reset empties the log.
func (l *CommentLog) Reset() {
	l.values = l.values[:0]
	l.total = 0
}
