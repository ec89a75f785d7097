package inproc

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/sarchlab/tsubame/mpp"
)

// A Node is one rank's connection to a fabric. It implements mpp.Substrate
// and mpp.Canceler, so posted receives can be withdrawn.
type Node struct {
	fabric *Fabric
	rank   int
}

var _ mpp.Substrate = (*Node)(nil)
var _ mpp.Canceler = (*Node)(nil)

// Initialized reports whether the node can communicate. A node taken from a
// fabric is always ready.
func (n *Node) Initialized() bool {
	return n.fabric != nil
}

// GroupRank returns this node's rank. The fabric carries a single group, so
// the handle is ignored.
func (n *Node) GroupRank(mpp.Group) int {
	return n.rank
}

// GroupSize returns the fabric size.
func (n *Node) GroupSize(mpp.Group) int {
	return n.fabric.Size()
}

// Send gathers the payload at addr and delivers it to dst's mailbox. Sends
// are buffered: Send returns as soon as the payload is captured, whether or
// not dst has a matching receive outstanding.
func (n *Node) Send(
	addr unsafe.Pointer, count int, dt mpp.Datatype,
	dst int, tag int, _ mpp.Group,
) error {
	if err := n.peerInFabric(dst); err != nil {
		return err
	}

	env := &envelope{src: n.rank, tag: tag, payload: gather(addr, count, dt)}
	n.fabric.mailboxes[dst].deliver(env)

	return nil
}

// Recv blocks until a message matching (src, tag) arrives, then scatters
// its payload into the buffer at addr. src may be mpp.AnySource.
func (n *Node) Recv(
	addr unsafe.Pointer, count int, dt mpp.Datatype,
	src int, tag int, _ mpp.Group,
) (mpp.Completion, error) {
	if err := n.sourceInFabric(src); err != nil {
		return mpp.Completion{}, err
	}

	env := n.fabric.mailboxes[n.rank].awaitMatch(src, tag)
	delivered := scatter(addr, count, dt, env.payload)

	return mpp.Completion{Source: env.src, Tag: env.tag, Bytes: delivered}, nil
}

// PostRecv registers a receive buffer for (src, tag) and returns without
// waiting. A message already queued completes the operation immediately.
func (n *Node) PostRecv(
	addr unsafe.Pointer, count int, dt mpp.Datatype,
	src int, tag int, _ mpp.Group,
) (mpp.Op, error) {
	if err := n.sourceInFabric(src); err != nil {
		return nil, err
	}

	p := &posted{
		src:   src,
		tag:   tag,
		addr:  addr,
		count: count,
		dt:    dt,
		done:  make(chan struct{}),
	}
	n.fabric.mailboxes[n.rank].post(p)

	return p, nil
}

// Test reports whether op has completed, without blocking.
func (n *Node) Test(op mpp.Op) (bool, mpp.Completion, error) {
	p := opMustBePosted(op)

	select {
	case <-p.done:
		return true, p.rec, nil
	default:
		return false, mpp.Completion{}, nil
	}
}

// Wait blocks until op completes.
func (n *Node) Wait(op mpp.Op) (mpp.Completion, error) {
	p := opMustBePosted(op)
	<-p.done

	return p.rec, nil
}

// Cancel withdraws a posted receive that no message has matched yet.
func (n *Node) Cancel(op mpp.Op) error {
	p := opMustBePosted(op)

	if !n.fabric.mailboxes[n.rank].withdraw(p) {
		return errors.New("operation already matched")
	}

	return nil
}

// ReceivedCount derives how many dt elements a completed receive delivered.
func (n *Node) ReceivedCount(rec mpp.Completion, dt mpp.Datatype) int {
	unit := dt.UnitBytes()
	if unit == 0 {
		return 0
	}

	return rec.Bytes / unit
}

func (n *Node) peerInFabric(rank int) error {
	if rank < 0 || rank >= n.fabric.Size() {
		return fmt.Errorf("rank %d outside fabric of size %d", rank, n.fabric.Size())
	}

	return nil
}

func (n *Node) sourceInFabric(rank int) error {
	if rank == mpp.AnySource {
		return nil
	}

	return n.peerInFabric(rank)
}

func opMustBePosted(op mpp.Op) *posted {
	p, ok := op.(*posted)
	if !ok {
		panic("operation does not belong to an inproc fabric")
	}

	return p
}
