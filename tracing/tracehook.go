package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/tsubame/hooking"
	"github.com/sarchlab/tsubame/mpp"
)

// CollectTrace lets the tracer collect the transfers of a communication
// domain, typically a communicator. Attaching the same tracer to a domain
// twice is a programming error.
func CollectTrace(domain hooking.Hookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain already has tracer %s", reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer}
	domain.AcceptHook(&h)
}

// A traceHook is a hook that turns transfer events into task traces.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	tr, ok := ctx.Item.(mpp.Transfer)
	if !ok {
		return
	}

	switch ctx.Pos {
	case mpp.HookPosTransferStart:
		h.t.StartTask(TaskFromTransfer(tr))
	case mpp.HookPosTransferDone:
		h.t.EndTask(TaskFromTransfer(tr))
	}
}

// TaskFromTransfer converts a transfer into its task representation: the
// task lives where the issuing rank is, and What names the payload shape.
func TaskFromTransfer(tr mpp.Transfer) Task {
	return Task{
		ID:    tr.ID,
		Kind:  tr.Kind,
		What:  fmt.Sprintf("%s x%d", tr.Type, tr.Count),
		Where: fmt.Sprintf("rank-%d", tr.Local),
	}
}
