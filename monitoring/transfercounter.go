package monitoring

import (
	"sync"

	"github.com/sarchlab/tsubame/hooking"
	"github.com/sarchlab/tsubame/mpp"
)

type trafficRsp struct {
	Index     int    `json:"index"`
	Started   uint64 `json:"started"`
	Completed uint64 `json:"completed"`
	Failed    uint64 `json:"failed"`
	Bytes     uint64 `json:"bytes"`
}

// A transferCounter is a hook that counts the transfers of one
// communicator, with payload bytes accumulated over completed operations.
type transferCounter struct {
	mu        sync.Mutex
	started   uint64
	completed uint64
	failed    uint64
	bytes     uint64
}

func (c *transferCounter) Func(ctx hooking.HookCtx) {
	tr, ok := ctx.Item.(mpp.Transfer)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch ctx.Pos {
	case mpp.HookPosTransferStart:
		c.started++
	case mpp.HookPosTransferDone:
		if err, isErr := ctx.Detail.(error); isErr && err != nil {
			c.failed++
			return
		}

		c.completed++
		c.bytes += uint64(tr.Count) * uint64(tr.Type.UnitBytes())
	}
}

func (c *transferCounter) snapshot() trafficRsp {
	c.mu.Lock()
	defer c.mu.Unlock()

	return trafficRsp{
		Started:   c.started,
		Completed: c.completed,
		Failed:    c.failed,
		Bytes:     c.bytes,
	}
}
