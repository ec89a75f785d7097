package cmd

import "github.com/sarchlab/tsubame/session"

func buildSession(
	ranks int,
	noMonitor bool,
	monitorPort int,
	trace bool,
	output string,
) *session.Session {
	builder := session.MakeBuilder().WithRanks(ranks)

	if noMonitor {
		builder = builder.WithoutMonitoring()
	} else if monitorPort > 0 {
		builder = builder.WithMonitorPort(monitorPort)
	}

	if trace {
		builder = builder.WithTracing()
	}

	if output != "" {
		builder = builder.WithOutputFileName(output)
	}

	return builder.Build()
}
