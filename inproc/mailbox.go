package inproc

import (
	"sync"
	"unsafe"

	"github.com/sarchlab/tsubame/mpp"
)

// An envelope is one in-flight message, payload captured by value at send
// time.
type envelope struct {
	src     int
	tag     int
	payload []byte
}

func (e *envelope) matches(src, tag int) bool {
	return (src == mpp.AnySource || src == e.src) && tag == e.tag
}

// A posted is a receive buffer registered ahead of its message. Completion
// closes done; rec is only read after done is closed.
type posted struct {
	src   int
	tag   int
	addr  unsafe.Pointer
	count int
	dt    mpp.Datatype

	done chan struct{}
	rec  mpp.Completion
}

func (p *posted) matches(src, tag int) bool {
	return (p.src == mpp.AnySource || p.src == src) && p.tag == tag
}

func (p *posted) complete(env *envelope) {
	delivered := scatter(p.addr, p.count, p.dt, env.payload)
	p.rec = mpp.Completion{Source: env.src, Tag: env.tag, Bytes: delivered}
	close(p.done)
}

// A mailbox holds one rank's incoming traffic: messages that arrived before
// a matching receive, in arrival order, and receives posted before their
// message, in post order.
type mailbox struct {
	mu   sync.Mutex
	cond *sync.Cond

	arrived []*envelope
	posted  []*posted
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mu)

	return m
}

// deliver hands an incoming envelope to the oldest matching posted receive,
// or queues it in arrival order and wakes blocked receivers.
func (m *mailbox) deliver(env *envelope) {
	m.mu.Lock()

	for i, p := range m.posted {
		if p.matches(env.src, env.tag) {
			m.posted = append(m.posted[:i], m.posted[i+1:]...)
			m.mu.Unlock()
			p.complete(env)

			return
		}
	}

	m.arrived = append(m.arrived, env)
	m.cond.Broadcast()
	m.mu.Unlock()
}

// awaitMatch blocks until an envelope matching (src, tag) is queued, then
// removes and returns it. Queued envelopes are examined in arrival order.
func (m *mailbox) awaitMatch(src, tag int) *envelope {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		for i, env := range m.arrived {
			if env.matches(src, tag) {
				m.arrived = append(m.arrived[:i], m.arrived[i+1:]...)
				return env
			}
		}

		m.cond.Wait()
	}
}

// post registers p, first draining the arrived queue so a message that beat
// the receive completes it immediately.
func (m *mailbox) post(p *posted) {
	m.mu.Lock()

	for i, env := range m.arrived {
		if env.matches(p.src, p.tag) {
			m.arrived = append(m.arrived[:i], m.arrived[i+1:]...)
			m.mu.Unlock()
			p.complete(env)

			return
		}
	}

	m.posted = append(m.posted, p)
	m.mu.Unlock()
}

// withdraw removes p if it is still waiting. It fails once p has matched.
func (m *mailbox) withdraw(p *posted) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, q := range m.posted {
		if q == p {
			m.posted = append(m.posted[:i], m.posted[i+1:]...)
			return true
		}
	}

	return false
}
