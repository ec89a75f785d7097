package tracing

import (
	"sync"
)

// TotalTimeTracer collects the total time spent on a certain type of
// transfer. If two transfers overlap, their times simply add up.
type TotalTimeTracer struct {
	timeTeller    TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	totalTime     TimeInSec
	inflightTasks map[string]Task
}

// NewTotalTimeTracer creates a new TotalTimeTracer.
func NewTotalTimeTracer(
	timeTeller TimeTeller,
	filter TaskFilter,
) *TotalTimeTracer {
	t := &TotalTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}

	return t
}

// TotalTime returns the accumulated time of the filtered tasks.
func (t *TotalTimeTracer) TotalTime() TimeInSec {
	t.lock.Lock()
	time := t.totalTime
	t.lock.Unlock()

	return time
}

// StartTask records the task start time.
func (t *TotalTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// EndTask records the end of the task and accumulates its duration.
func (t *TotalTimeTracer) EndTask(task Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()

	originalTask, ok := t.inflightTasks[task.ID]
	if ok {
		t.totalTime += task.EndTime - originalTask.StartTime
		delete(t.inflightTasks, task.ID)
	}

	t.lock.Unlock()
}
