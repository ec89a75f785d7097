package mpp

import (
	"log"

	"github.com/sarchlab/tsubame/hooking"
)

// A TransferLogger is a hook that writes one line for every transfer event
// of the communicator it is attached to.
type TransferLogger struct {
	hooking.LogHookBase
}

// NewTransferLogger returns a TransferLogger that writes into logger.
func NewTransferLogger(logger *log.Logger) *TransferLogger {
	l := new(TransferLogger)
	l.Logger = logger

	return l
}

// Func writes the transfer information into the logger.
func (l *TransferLogger) Func(ctx hooking.HookCtx) {
	tr, ok := ctx.Item.(Transfer)
	if !ok {
		return
	}

	outcome := "ok"
	if err, failed := ctx.Detail.(error); failed && err != nil {
		outcome = err.Error()
	}

	l.Printf("%s,%s,%s,%d,%d,%d,%s,%d,%s\n",
		ctx.Pos.Name, tr.ID, tr.Kind,
		tr.Local, tr.Peer, tr.Tag,
		tr.Type, tr.Count, outcome)
}
