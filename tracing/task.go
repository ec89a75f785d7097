package tracing

// A Task is one traced transfer.
type Task struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	What      string    `json:"what"`
	Where     string    `json:"where"`
	StartTime TimeInSec `json:"start_time"`
	EndTime   TimeInSec `json:"end_time"`
	Detail    any       `json:"-"`
}

// TaskFilter is a function that can filter interesting tasks. If this
// function returns true, the task is considered useful.
type TaskFilter func(t Task) bool

// AllTasks is a TaskFilter that keeps every task.
func AllTasks(Task) bool {
	return true
}

// KindFilter returns a TaskFilter keeping only tasks of the given kind.
func KindFilter(kind string) TaskFilter {
	return func(t Task) bool {
		return t.Kind == kind
	}
}
