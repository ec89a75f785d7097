package mpp

import "github.com/sarchlab/tsubame/hooking"

// A Request tracks an asynchronous receive. It starts pending and becomes
// complete exactly once; after that every accessor is a pure read and keeps
// returning the same result. A substrate failure observed while completing
// is terminal and surfaces as a TransferError from Poll, Wait, and Status.
//
// A Request is not safe for concurrent use.
type Request[T any] struct {
	comm *Communicator
	op   Op
	msg  *Msg[T]
	tr   Transfer

	done   bool
	status Status
	err    error
}

// Poll checks whether the receive has completed, issuing at most one
// non-blocking substrate test per call while pending.
func (r *Request[T]) Poll() (bool, error) {
	if r.done {
		return true, r.err
	}

	ok, rec, err := r.comm.substrate.Test(r.op)
	if err != nil {
		r.complete(rec, err)
		return true, r.err
	}

	if !ok {
		return false, nil
	}

	r.complete(rec, nil)

	return true, r.err
}

// Wait blocks until the receive completes, then returns the received value.
// Waiting on a complete request returns the same result again without
// touching the substrate.
func (r *Request[T]) Wait() (*T, error) {
	if !r.done {
		rec, err := r.comm.substrate.Wait(r.op)
		r.complete(rec, err)
	}

	if r.err != nil {
		return nil, r.err
	}

	return r.msg.Value(), nil
}

// Status returns the completed receive's status. It fails with ErrNotReady
// while the request is pending, and with the receive's error if it failed.
func (r *Request[T]) Status() (Status, error) {
	if !r.done {
		return Status{}, ErrNotReady
	}

	if r.err != nil {
		return Status{}, r.err
	}

	return r.status, nil
}

// Cancel withdraws a pending receive. It requires a substrate that supports
// cancellation, and an operation that no message has matched yet. After a
// successful cancel the request is complete and Poll, Wait, and Status all
// report ErrCanceled.
func (r *Request[T]) Cancel() error {
	if r.done {
		return ErrRequestDone
	}

	canceler, ok := r.comm.substrate.(Canceler)
	if !ok {
		return ErrCancelNotSupported
	}

	if err := canceler.Cancel(r.op); err != nil {
		return err
	}

	r.complete(Completion{}, ErrCanceled)

	return nil
}

func (r *Request[T]) complete(rec Completion, err error) {
	r.done = true

	if err == nil {
		r.status = newStatus(r.comm, rec, r.msg.Type())
	} else if err != ErrCanceled {
		err = &TransferError{Local: r.comm.Rank(), Kind: KindRecvAsync, Peer: r.tr.Peer, Err: err}
	}
	r.err = err

	c := r.comm
	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosTransferDone, Item: r.tr, Detail: err})
}
