package worker_pool

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type squareTask struct {
	i      int
	result *int
}

func (task squareTask) Run(send func(string), abort func()) {
	send(fmt.Sprintf("Squaring %d", task.i))
	*task.result = task.i * task.i
	send(fmt.Sprintf("Squared %d", task.i))
}

func TestPoolRunsEveryTask(t *testing.T) {
	var out bytes.Buffer
	results := make([]int, 20)
	pool := New(4, len(results), &out)
	for i := range results {
		pool.Add(squareTask{i, &results[i]})
	}
	pool.Start()
	<-pool.Wait()

	assert.False(t, pool.IsAborted())
	for i, result := range results {
		assert.Equal(t, i*i, result)
	}
	assert.Contains(t, out.String(), "Squared 19")
}

type abortingTask struct {
	ran *int32
}

func (task abortingTask) Run(send func(string), abort func()) {
	atomic.AddInt32(task.ran, 1)
	abort()
}

func TestPoolStopsPickingTasksAfterAbort(t *testing.T) {
	var out bytes.Buffer
	var ran int32
	pool := New(1, 10, &out)
	for i := 0; i < 10; i++ {
		pool.Add(abortingTask{&ran})
	}
	pool.Start()
	<-pool.Wait()

	assert.True(t, pool.IsAborted())
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
}

func TestPoolWithoutTasks(t *testing.T) {
	var out bytes.Buffer
	pool := New(3, 0, &out)
	pool.Start()
	<-pool.Wait()
	assert.False(t, pool.IsAborted())
}
