// Package mpp provides typed point-to-point message passing between the
// ranks of a process group, over a pluggable substrate that does the actual
// moving of bytes.
//
// A Communicator names the group and hands out Endpoints for peers.
// Messages wrap caller values without copying them: the descriptor derived
// from a value records real addresses, so the wrapped value must stay alive
// and unmutated from the moment an operation is issued until it completes.
// For asynchronous receives that means until the Request reports
// completion.
//
// Communicators may be shared across goroutines once configured. Messages
// and requests belong to one goroutine at a time.
package mpp

import (
	"sync"

	"github.com/sarchlab/tsubame/hooking"
)

// A Communicator is a process-group view: it knows this process's rank and
// the group size, and hands out endpoints for peer ranks. It raises
// transfer hooks for every operation issued through its endpoints.
//
// Rank and size are read from the substrate once, on first use. Using a
// communicator whose substrate is not initialized is a programming error
// and panics.
type Communicator struct {
	*hooking.HookableBase

	substrate Substrate
	group     Group

	initOnce sync.Once
	rank     int
	size     int
}

// NewCommunicator creates a communicator over group g of substrate s.
func NewCommunicator(s Substrate, g Group) *Communicator {
	substrateMustBeValid(s)

	return &Communicator{
		HookableBase: hooking.NewHookableBase(),
		substrate:    s,
		group:        g,
	}
}

func substrateMustBeValid(s Substrate) {
	if s == nil {
		panic("communicator must have a substrate")
	}
}

func substrateMustBeInitialized(s Substrate) {
	if !s.Initialized() {
		panic("messaging substrate is not initialized")
	}
}

// Rank returns this process's rank within the group.
func (c *Communicator) Rank() int {
	c.lazyInit()
	return c.rank
}

// Size returns the number of ranks in the group.
func (c *Communicator) Size() int {
	c.lazyInit()
	return c.size
}

// Peer returns the endpoint for the given rank. Peer(AnySource) is the
// wildcard endpoint for receives.
func (c *Communicator) Peer(rank int) Endpoint {
	return Endpoint{rank: rank, comm: c}
}

func (c *Communicator) lazyInit() {
	c.initOnce.Do(func() {
		substrateMustBeInitialized(c.substrate)
		c.rank = c.substrate.GroupRank(c.group)
		c.size = c.substrate.GroupSize(c.group)
	})
}

var worldMutex sync.Mutex
var world *Communicator

// InitWorld installs the process-wide default communicator. Call it once
// during startup, before anything uses World.
func InitWorld(s Substrate, g Group) {
	worldMutex.Lock()
	defer worldMutex.Unlock()

	if world != nil {
		panic("world communicator already initialized")
	}

	world = NewCommunicator(s, g)
}

// World returns the communicator installed by InitWorld.
func World() *Communicator {
	worldMutex.Lock()
	defer worldMutex.Unlock()

	if world == nil {
		panic("world communicator is not initialized")
	}

	return world
}
