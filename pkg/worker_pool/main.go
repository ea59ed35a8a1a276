/*
Package worker_pool
Structure to facilitate with the worker pool pattern
https://gobyexample.com/worker-pools

Usage:

	type Task struct {
		id     string
		result *string
	}

	func (task Task) Run(send func(string), abort func()) {
		send(fmt.Sprintf("Fetching %s", task.id))
		*task.result = fetch(task.id)
		send(fmt.Sprintf("Fetched %s", task.id))
	}

	func main() {
		ids := []string{"1", "2", "3"}
		results := make([]string, len(ids))
		pool := worker_pool.New(2, len(ids), os.Stderr)
		for i, id := range ids {
			pool.Add(Task{id, &results[i]})
		}
		pool.Start()
		<-pool.Wait()
	}

Each task gets a line of an output that gets updated while the workers are
running (using [uilive](https://github.com/gosuri/uilive)). Each invocation of
'send' will replace the line dedicated to the task.

All tasks must be added before 'Start'. 'Wait' returns a channel that is closed
once every task has completed.

Calling 'abort' will make sure the workers will not pick up any new tasks.
However, tasks that are already in progress will continue. After the pool is
done, 'IsAborted' reports whether any of the tasks aborted.
*/
package worker_pool

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gosuri/uilive"
)

type Task interface {
	Run(send func(string), abort func())
}

type taskContainer struct {
	i    int
	task Task
}

type message struct {
	i    int
	body string
}

type Pool struct {
	numWorkers     int
	taskChannel    chan taskContainer
	workers        sync.WaitGroup
	done           chan struct{}
	counter        int
	messages       []string
	messageChannel chan message
	writer         *uilive.Writer
	aborted        atomic.Bool
}

func New(numWorkers, numTasks int, out io.Writer) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	writer := uilive.New()
	writer.Out = out
	return &Pool{
		numWorkers:     numWorkers,
		taskChannel:    make(chan taskContainer, numTasks),
		done:           make(chan struct{}),
		messages:       make([]string, numTasks),
		messageChannel: make(chan message),
		writer:         writer,
	}
}

func (pool *Pool) Add(task Task) {
	pool.taskChannel <- taskContainer{pool.counter, task}
	pool.counter += 1
}

func (pool *Pool) Start() {
	close(pool.taskChannel)
	pool.writer.Start()

	pool.workers.Add(pool.numWorkers)
	for i := 0; i < pool.numWorkers; i++ {
		go func() {
			defer pool.workers.Done()
			for container := range pool.taskChannel {
				if pool.IsAborted() {
					continue
				}
				i := container.i
				send := func(body string) {
					pool.messageChannel <- message{i, body}
				}
				container.task.Run(send, pool.abort)
			}
		}()
	}

	workersDone := make(chan struct{})
	go func() {
		pool.workers.Wait()
		close(workersDone)
	}()

	go func() {
		for {
			select {
			case msg := <-pool.messageChannel:
				pool.messages[msg.i] = msg.body
				var lines []string
				for _, line := range pool.messages {
					if len(line) > 0 {
						lines = append(lines, line)
					}
				}
				fmt.Fprintln(pool.writer, strings.Join(lines, "\n"))
				_ = pool.writer.Flush()
			case <-workersDone:
				pool.writer.Stop()
				close(pool.done)
				return
			}
		}
	}()
}

func (pool *Pool) abort() {
	pool.aborted.Store(true)
}

func (pool *Pool) IsAborted() bool {
	return pool.aborted.Load()
}

func (pool *Pool) Wait() <-chan struct{} {
	return pool.done
}
