package mpp

// A Status reports the outcome of a completed receive. It is immutable:
// reading it never touches the substrate, except for Count, which derives
// the element count on demand from the recorded completion.
type Status struct {
	comm *Communicator
	rec  Completion
	dt   Datatype
}

func newStatus(c *Communicator, rec Completion, dt Datatype) Status {
	return Status{comm: c, rec: rec, dt: dt}
}

// Source returns an endpoint bound to the rank the message came from, on
// the same communicator the receive used. After a wildcard receive this is
// how the sender is answered.
func (s Status) Source() Endpoint {
	return s.comm.Peer(s.rec.Source)
}

// Tag returns the tag of the received message.
func (s Status) Tag() int {
	return s.rec.Tag
}

// ErrorCode returns the substrate's raw result code for the receive.
func (s Status) ErrorCode() int {
	return s.rec.Code
}

// Count returns the number of elements of the receive's datatype that were
// delivered. It is computed from the completion record on every call, never
// cached.
func (s Status) Count() int {
	return s.comm.substrate.ReceivedCount(s.rec, s.dt)
}
