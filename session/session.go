// Package session wires a complete messaging run together: an in-process
// fabric, a data recorder, a transfer tracer, and a monitor, built through
// one builder.
package session

import (
	"sync"

	"github.com/sarchlab/tsubame/datarecording"
	"github.com/sarchlab/tsubame/inproc"
	"github.com/sarchlab/tsubame/monitoring"
	"github.com/sarchlab/tsubame/mpp"
	"github.com/sarchlab/tsubame/tracing"
)

// A Session is one configured messaging run.
type Session struct {
	id string

	fabric       *inproc.Fabric
	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	tracer       *tracing.DBTracer
	timeTeller   tracing.TimeTeller
}

// ID returns the unique ID of the session.
func (s *Session) ID() string {
	return s.id
}

// Fabric returns the fabric connecting the session's ranks.
func (s *Session) Fabric() *inproc.Fabric {
	return s.fabric
}

// DataRecorder returns the data recorder used in the session.
func (s *Session) DataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Monitor returns the monitor used in the session, nil when monitoring is
// disabled.
func (s *Session) Monitor() *monitoring.Monitor {
	return s.monitor
}

// Tracer returns the transfer tracer used in the session, nil when tracing
// is disabled.
func (s *Session) Tracer() *tracing.DBTracer {
	return s.tracer
}

// TimeTeller returns the clock the session's tracers read.
func (s *Session) TimeTeller() tracing.TimeTeller {
	return s.timeTeller
}

// Run builds one communicator per rank, attaches the session's tracer and
// monitor to each, and launches body once per rank on its own goroutine.
// It returns when every rank's body has returned.
func (s *Session) Run(body func(c *mpp.Communicator)) {
	comms := make([]*mpp.Communicator, s.fabric.Size())
	for i := range comms {
		c := s.fabric.Communicator(i)

		if s.tracer != nil {
			tracing.CollectTrace(c, s.tracer)
		}

		if s.monitor != nil {
			s.monitor.RegisterCommunicator(c)
		}

		comms[i] = c
	}

	var wg sync.WaitGroup
	for _, c := range comms {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body(c)
		}()
	}

	wg.Wait()
}

// Terminate ends the session, flushing the tracer and closing the recorder.
func (s *Session) Terminate() {
	if s.tracer != nil {
		s.tracer.Terminate()
	}

	s.dataRecorder.Close()
}
