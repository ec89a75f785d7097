// Package inproc provides an in-process messaging substrate: a fixed set of
// ranks connected by in-memory mailboxes. It backs tests, demos, and
// single-process benchmarks with real matching and ordering semantics.
//
// Sends are buffered and never block on the receiver. Receives posted ahead
// of their message match in post order and take precedence over blocking
// receives waiting on the same pattern; queued messages are matched in
// arrival order, so traffic on one (source, destination, tag) channel stays
// first-in first-out.
package inproc

import (
	"fmt"
	"sync"

	"github.com/sarchlab/tsubame/mpp"
)

// A Fabric wires a fixed set of ranks together, one mailbox per rank. Each
// rank talks to the fabric through its own Node.
type Fabric struct {
	mailboxes []*mailbox
}

// NewFabric creates a fabric connecting size ranks, ready for
// communication.
func NewFabric(size int) *Fabric {
	fabricSizeMustBeValid(size)

	f := &Fabric{}
	for i := 0; i < size; i++ {
		f.mailboxes = append(f.mailboxes, newMailbox())
	}

	return f
}

func fabricSizeMustBeValid(size int) {
	if size <= 0 {
		panic("fabric must connect at least one rank")
	}
}

// Size returns the number of ranks the fabric connects.
func (f *Fabric) Size() int {
	return len(f.mailboxes)
}

// Node returns rank's view of the fabric.
func (f *Fabric) Node(rank int) *Node {
	f.rankMustBeValid(rank)

	return &Node{fabric: f, rank: rank}
}

func (f *Fabric) rankMustBeValid(rank int) {
	if rank < 0 || rank >= len(f.mailboxes) {
		panic(fmt.Sprintf("rank %d outside fabric of size %d", rank, len(f.mailboxes)))
	}
}

// Communicator returns a fresh communicator for rank over the whole fabric.
func (f *Fabric) Communicator(rank int) *mpp.Communicator {
	return mpp.NewCommunicator(f.Node(rank), nil)
}

// Run launches body once per rank, each on its own goroutine with its own
// communicator, and waits for all of them to return.
func (f *Fabric) Run(body func(c *mpp.Communicator)) {
	var wg sync.WaitGroup

	for rank := range f.mailboxes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body(f.Communicator(rank))
		}()
	}

	wg.Wait()
}
