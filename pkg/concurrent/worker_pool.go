package concurrent

import "sync"

// WorkerPool fixed number of goroutines draining a job queue into a result channel.
// Start, then AddJob every job, Close, and range over CollectResults.
// Wait closes the result channel once every worker is done.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job)
	}
}

func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(jobFunc)
	}
}

func (wp *WorkerPool[T, G]) AddJob(job Job[T]) {
	wp.jobQueue <- job
}

// Close no more jobs.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan G {
	return wp.results
}

// Run feeds items to jobFunc over numWorkers goroutines and returns the results indexed like items.
func Run[T any, G any](numWorkers int, items []T, jobFunc func(item T) G) []G {
	type indexed struct {
		id  int
		res G
	}

	wp := NewWorkerPool[T, indexed](numWorkers, len(items))
	wp.Start(func(job Job[T]) indexed {
		return indexed{id: job.ID, res: jobFunc(job.JobItem)}
	})
	for i, item := range items {
		wp.AddJob(NewJob(i, item))
	}
	wp.Close()
	go wp.Wait()

	results := make([]G, len(items))
	for r := range wp.CollectResults() {
		results[r.id] = r.res
	}
	return results
}
