package session

// Continuation resumes a request that waited for a refresh. Exactly one of
// token and err is meaningful.
type Continuation func(token string, err error)

// RefreshQueue holds the continuations of requests waiting on one refresh.
// It is not safe for concurrent use; the Manager guards it with its mutex.
type RefreshQueue struct {
	pending []Continuation
}

func (q *RefreshQueue) Push(c Continuation) {
	q.pending = append(q.pending, c)
}

func (q *RefreshQueue) Len() int {
	return len(q.pending)
}

// Detach moves every pending continuation into a new queue and leaves q
// empty. The caller can then drain the detached queue without holding the
// lock that guards q.
func (q *RefreshQueue) Detach() *RefreshQueue {
	d := &RefreshQueue{pending: q.pending}
	q.pending = nil
	return d
}

// Drain invokes every continuation in enqueue order and empties the queue.
func (q *RefreshQueue) Drain(token string, err error) {
	pending := q.pending
	q.pending = nil
	for _, c := range pending {
		c(token, err)
	}
}
