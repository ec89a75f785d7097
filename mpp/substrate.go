package mpp

import "unsafe"

// AnySource is the wildcard source rank. A receive issued with AnySource
// matches a message from any rank in the group; the true source is recorded
// in the resulting status.
const AnySource = -1

// A Group is an opaque handle naming a process group inside a substrate.
// The messaging layer never inspects it, only passes it back to the
// substrate that issued it.
type Group any

// An Op is an opaque handle to an in-flight substrate operation.
type Op any

// A Completion records the outcome of a finished receive as reported by the
// substrate.
type Completion struct {
	// Source is the rank the message actually came from.
	Source int

	// Tag is the tag the message was sent under.
	Tag int

	// Code is the substrate's raw result code for the operation.
	Code int

	// Bytes is the payload size delivered into the receive buffer.
	Bytes int
}

// A Substrate moves raw typed buffers between the ranks of a process group.
// It is the only boundary through which the messaging layer touches an
// underlying transport; matching, ordering, and delivery all happen behind
// it.
//
// Buffer addresses handed to a substrate stay owned by the caller and must
// remain valid until the operation completes.
type Substrate interface {
	// Initialized reports whether the substrate is ready for communication.
	Initialized() bool

	// GroupRank returns the caller's rank within the group.
	GroupRank(g Group) int

	// GroupSize returns the number of ranks in the group.
	GroupSize(g Group) int

	// Send transfers count elements of datatype dt starting at addr to rank
	// dst. It blocks until the payload is out of the caller's buffer.
	Send(addr unsafe.Pointer, count int, dt Datatype, dst int, tag int, g Group) error

	// Recv blocks until a message matching (src, tag) is delivered into the
	// buffer at addr. src may be AnySource.
	Recv(addr unsafe.Pointer, count int, dt Datatype, src int, tag int, g Group) (Completion, error)

	// PostRecv registers a receive buffer for (src, tag) and returns without
	// waiting for a matching message.
	PostRecv(addr unsafe.Pointer, count int, dt Datatype, src int, tag int, g Group) (Op, error)

	// Test reports whether op has completed, without blocking.
	Test(op Op) (bool, Completion, error)

	// Wait blocks until op completes.
	Wait(op Op) (Completion, error)

	// ReceivedCount derives the number of dt elements a completed receive
	// delivered.
	ReceivedCount(rec Completion, dt Datatype) int
}

// A Canceler is a substrate that can withdraw posted operations before they
// match.
type Canceler interface {
	// Cancel withdraws op. It fails if the operation already matched.
	Cancel(op Op) error
}
