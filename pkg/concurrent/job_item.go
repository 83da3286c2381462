package concurrent

// Job unit of work handed to a WorkerPool. ID keeps results attributable when they arrive out of order.
type Job[T any] struct {
	ID      int
	JobItem T
}

func NewJob[T any](id int, item T) Job[T] {
	return Job[T]{ID: id, JobItem: item}
}

type JobFunc[T any, G any] func(job Job[T]) G
