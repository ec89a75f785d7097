package tracing

import (
	"sync"
)

// AverageTimeTracer collects the average time spent on a certain type of
// transfer.
type AverageTimeTracer struct {
	timeTeller    TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	totalTime     TimeInSec
	taskCount     uint64
	inflightTasks map[string]Task
}

// NewAverageTimeTracer creates a new AverageTimeTracer.
func NewAverageTimeTracer(
	timeTeller TimeTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	t := &AverageTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}

	return t
}

// AverageTime returns the average duration of the completed filtered tasks.
func (t *AverageTimeTracer) AverageTime() TimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.taskCount == 0 {
		return 0
	}

	return t.totalTime / TimeInSec(t.taskCount)
}

// TaskCount returns the number of completed filtered tasks.
func (t *AverageTimeTracer) TaskCount() uint64 {
	t.lock.Lock()
	count := t.taskCount
	t.lock.Unlock()

	return count
}

// StartTask records the task start time.
func (t *AverageTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// EndTask records the end of the task and folds its duration into the
// average.
func (t *AverageTimeTracer) EndTask(task Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()

	originalTask, ok := t.inflightTasks[task.ID]
	if ok {
		t.totalTime += task.EndTime - originalTask.StartTime
		t.taskCount++
		delete(t.inflightTasks, task.ID)
	}

	t.lock.Unlock()
}
