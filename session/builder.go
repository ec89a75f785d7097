package session

import (
	"github.com/rs/xid"

	"github.com/sarchlab/tsubame/datarecording"
	"github.com/sarchlab/tsubame/inproc"
	"github.com/sarchlab/tsubame/monitoring"
	"github.com/sarchlab/tsubame/tracing"
)

// Builder can be used to build a session.
type Builder struct {
	ranks          int
	monitorOn      bool
	monitorPort    int
	browserOn      bool
	tracingOn      bool
	outputFileName string
}

// MakeBuilder creates a new builder with two ranks and monitoring on.
func MakeBuilder() Builder {
	return Builder{
		ranks:     2,
		monitorOn: true,
	}
}

// WithRanks sets the number of ranks the session connects.
func (b Builder) WithRanks(n int) Builder {
	b.ranks = n
	return b
}

// WithoutMonitoring sets the session to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowserLaunch makes the monitor open the dashboard in the local
// browser.
func (b Builder) WithBrowserLaunch() Builder {
	b.browserOn = true
	return b
}

// WithTracing records every transfer into the session's database.
func (b Builder) WithTracing() Builder {
	b.tracingOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data
// recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.ranks < 1 {
		panic("session must have at least one rank")
	}

	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.browserOn {
		panic("browser cannot be launched when monitoring is disabled")
	}
}

// Build builds the session.
func (b Builder) Build() *Session {
	b.parametersMustBeValid()

	s := &Session{}
	s.id = xid.New().String()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "tsubame_run_" + s.id
	}
	s.dataRecorder = datarecording.NewDataRecorder(outputPath)

	s.fabric = inproc.NewFabric(b.ranks)
	s.timeTeller = tracing.NewWallTimeTeller()

	if b.tracingOn {
		s.tracer = tracing.NewDBTracer(s.timeTeller, s.dataRecorder)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}

		if b.browserOn {
			s.monitor.WithBrowserLaunch()
		}

		s.monitor.StartServer()
	}

	return s
}
