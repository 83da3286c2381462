package concurrent

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int32, int32](4, 100)
	wp.Start(func(job Job[int32]) int32 {
		return job.JobItem * 2
	})
	for i := 0; i < 100; i++ {
		wp.AddJob(NewJob(i, int32(i)))
	}
	wp.Close()
	go wp.Wait()

	var sum int32
	count := 0
	for r := range wp.CollectResults() {
		sum += r
		count++
	}
	assert.Equal(t, 100, count)
	assert.Equal(t, int32(2*4950), sum)
}

func TestRunKeepsOrder(t *testing.T) {
	var calls atomic.Int32
	items := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	res := Run(3, items, func(s string) int {
		calls.Add(1)
		return len(s)
	})
	assert.Equal(t, []int{1, 2, 3, 4, 5}, res)
	assert.Equal(t, int32(5), calls.Load())

	assert.Empty(t, Run(2, []string{}, func(s string) int { return 0 }))
}
