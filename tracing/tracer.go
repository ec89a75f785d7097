package tracing

// A Tracer can collect transfer task traces.
type Tracer interface {
	StartTask(task Task)
	EndTask(task Task)
}
