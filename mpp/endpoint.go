package mpp

import "github.com/sarchlab/tsubame/hooking"

// HookPosTransferStart fires right before an operation is issued to the
// substrate.
var HookPosTransferStart = &hooking.HookPos{Name: "Transfer Start"}

// HookPosTransferDone fires once an operation's payload movement has
// completed or failed. For asynchronous receives it fires when the request
// observes completion. The hook Detail carries the operation error, if any.
var HookPosTransferDone = &hooking.HookPos{Name: "Transfer Done"}

// Transfer kinds as they appear in hooks and errors.
const (
	KindSend      = "send"
	KindRecv      = "recv"
	KindRecvAsync = "recv-async"
)

// A Transfer describes one point-to-point operation to hooks.
type Transfer struct {
	ID    string
	Kind  string
	Local int
	Peer  int
	Tag   int
	Type  Datatype
	Count int
}

// An Endpoint binds a peer rank to a communicator. It is a small value;
// endpoints for the same rank are interchangeable.
type Endpoint struct {
	rank int
	comm *Communicator
}

// Rank returns the peer rank this endpoint addresses.
func (e Endpoint) Rank() int {
	return e.rank
}

// Send transfers m to the endpoint's rank, blocking until the payload is
// out of the caller's buffer. One substrate operation is issued no matter
// how scattered the wrapped value is.
func (e Endpoint) Send(m Message) error {
	c := e.comm
	tr := c.newTransfer(KindSend, e.rank, m)

	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferStart, Item: tr})

	err := c.substrate.Send(m.Addr(), m.Count(), m.Type(), e.rank, m.Tag(), c.group)
	if err != nil {
		err = &TransferError{Local: c.Rank(), Kind: KindSend, Peer: e.rank, Err: err}
	}

	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferDone, Item: tr, Detail: err})

	return err
}

// Recv blocks until a message with m's tag arrives from the endpoint's rank
// and is delivered into m's buffer. The returned status records the actual
// source, which for wildcard endpoints is how the sender is discovered.
func (e Endpoint) Recv(m Message) (Status, error) {
	c := e.comm
	tr := c.newTransfer(KindRecv, e.rank, m)

	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferStart, Item: tr})

	rec, err := c.substrate.Recv(m.Addr(), m.Count(), m.Type(), e.rank, m.Tag(), c.group)
	if err != nil {
		err = &TransferError{Local: c.Rank(), Kind: KindRecv, Peer: e.rank, Err: err}
	}

	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferDone, Item: tr, Detail: err})

	return newStatus(c, rec, m.Type()), err
}

func (c *Communicator) newTransfer(kind string, peer int, m Message) Transfer {
	return Transfer{
		ID:    GetIDGenerator().Generate(),
		Kind:  kind,
		Local: c.Rank(),
		Peer:  peer,
		Tag:   m.Tag(),
		Type:  m.Type(),
		Count: m.Count(),
	}
}

// Send wraps v in a message and sends it to e. The value is captured by
// value, so the caller's variable is free immediately; slice values still
// share their backing array, which must stay unmutated until Send returns.
func Send[T any](e Endpoint, v T, tag int) error {
	return e.Send(NewValMsg(v, tag))
}

// Recv blocks until a message with tag arrives from e, delivered into the
// buffer at buf.
func Recv[T any](e Endpoint, buf *T, tag int) (Status, error) {
	return e.Recv(NewMsg(buf, tag))
}

// RecvAsync posts a receive for a message with tag from e into the buffer
// at buf and returns immediately with a request tracking it. buf stays
// borrowed until the request completes.
func RecvAsync[T any](e Endpoint, buf *T, tag int) (*Request[T], error) {
	return RecvMsgAsync(e, NewMsg(buf, tag))
}

// RecvMsgAsync posts m as an asynchronous receive from e. A post rejected
// by the substrate fails synchronously with a PostError and produces no
// request.
func RecvMsgAsync[T any](e Endpoint, m *Msg[T]) (*Request[T], error) {
	c := e.comm
	tr := c.newTransfer(KindRecvAsync, e.rank, m)

	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferStart, Item: tr})

	op, err := c.substrate.PostRecv(m.Addr(), m.Count(), m.Type(), e.rank, m.Tag(), c.group)
	if err != nil {
		perr := &PostError{Local: c.Rank(), Peer: e.rank, Err: err}
		c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferDone, Item: tr, Detail: perr})

		return nil, perr
	}

	return &Request[T]{comm: c, op: op, msg: m, tr: tr}, nil
}
