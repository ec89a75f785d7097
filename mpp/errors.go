package mpp

import (
	"errors"
	"fmt"
)

// ErrNotReady reports a status query on a request that has not completed.
var ErrNotReady = errors.New("request is not complete")

// ErrCanceled reports a request withdrawn before a message matched it.
var ErrCanceled = errors.New("request canceled")

// ErrRequestDone reports a cancel attempt on a request that already
// completed.
var ErrRequestDone = errors.New("request already complete")

// ErrCancelNotSupported reports a cancel attempt on a substrate that cannot
// withdraw posted operations.
var ErrCancelNotSupported = errors.New("substrate cannot cancel operations")

// A TransferError reports a point-to-point operation that failed. It names
// the rank that issued the operation, the operation kind, and the peer rank,
// and wraps the substrate's cause.
type TransferError struct {
	Local int
	Kind  string
	Peer  int
	Err   error
}

func (e *TransferError) Error() string {
	if e.Kind == KindSend {
		return fmt.Sprintf("rank %d: failed to send message to destination rank %d: %v",
			e.Local, e.Peer, e.Err)
	}

	return fmt.Sprintf("rank %d: failed to receive message from %s: %v",
		e.Local, sourceName(e.Peer), e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// A PostError reports an asynchronous receive rejected at posting time. The
// receive never went in flight and has no request tracking it.
type PostError struct {
	Local int
	Peer  int
	Err   error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("rank %d: failed to post receive from %s: %v",
		e.Local, sourceName(e.Peer), e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

func sourceName(rank int) string {
	if rank == AnySource {
		return "any source"
	}

	return fmt.Sprintf("source rank %d", rank)
}
