package dispatch

// Option is the interface for the options of the Queue.
type Option interface {
	apply(*Queue)
}

type optionFunc func(*Queue)

func (f optionFunc) apply(q *Queue) {
	f(q)
}

// WithPanicHandler sets the function called with a panic recovered from a task.
// The queue keeps running the next tasks after a panic.
func WithPanicHandler(f func(error)) Option {
	return optionFunc(func(q *Queue) {
		q.onPanic = f
	})
}

// WithDropHandler sets the function called for every task that is dropped without running.
func WithDropHandler(f func(error)) Option {
	return optionFunc(func(q *Queue) {
		q.onDrop = f
	})
}
