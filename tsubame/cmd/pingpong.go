package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tsubame/monitoring"
	"github.com/sarchlab/tsubame/mpp"
)

var pingPongFlags = struct {
	rounds      int
	noMonitor   bool
	monitorPort int
	trace       bool
	output      string
}{}

const (
	pingTag = 1
	pongTag = 2
)

// pingPongSummary is one row of the "pingpong" table in the output database.
type pingPongSummary struct {
	Rounds       int
	TotalSeconds float64
	AvgLatencyUS float64
}

var pingPongCmd = &cobra.Command{
	Use:   "pingpong",
	Short: "Measure the round-trip latency between two ranks",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		runPingPong()
	},
}

func init() {
	pingPongCmd.Flags().IntVar(&pingPongFlags.rounds,
		"rounds", 1000, "number of round trips to measure")
	pingPongCmd.Flags().BoolVar(&pingPongFlags.noMonitor,
		"no-monitor", false, "disable the monitoring server")
	pingPongCmd.Flags().IntVar(&pingPongFlags.monitorPort,
		"monitor-port", 0, "port of the monitoring server, 0 for random")
	pingPongCmd.Flags().BoolVar(&pingPongFlags.trace,
		"trace", false, "record every transfer in the output database")
	pingPongCmd.Flags().StringVar(&pingPongFlags.output,
		"output", "", "name of the output database file")

	rootCmd.AddCommand(pingPongCmd)
}

func runPingPong() {
	rounds := pingPongFlags.rounds
	if rounds <= 0 {
		log.Fatalf("rounds must be positive, got %d", rounds)
	}

	s := buildSession(2,
		pingPongFlags.noMonitor, pingPongFlags.monitorPort,
		pingPongFlags.trace, pingPongFlags.output)
	defer s.Terminate()

	var bar *monitoring.ProgressBar
	if s.Monitor() != nil {
		bar = s.Monitor().CreateProgressBar("Ping-pong rounds", uint64(rounds))
	}

	var elapsed time.Duration

	s.Run(func(c *mpp.Communicator) {
		switch c.Rank() {
		case 0:
			elapsed = pingPongInitiator(c, rounds, bar)
		case 1:
			pingPongResponder(c, rounds)
		}
	})

	if s.Monitor() != nil {
		s.Monitor().CompleteProgressBar(bar)
	}

	summary := pingPongSummary{
		Rounds:       rounds,
		TotalSeconds: elapsed.Seconds(),
		AvgLatencyUS: elapsed.Seconds() / float64(rounds) * 1e6,
	}
	s.DataRecorder().CreateTable("pingpong", summary)
	s.DataRecorder().InsertData("pingpong", summary)

	fmt.Printf("%d round trips in %.3f s, %.2f us each\n",
		summary.Rounds, summary.TotalSeconds, summary.AvgLatencyUS)
}

func pingPongInitiator(
	c *mpp.Communicator,
	rounds int,
	bar *monitoring.ProgressBar,
) time.Duration {
	peer := c.Peer(1)
	start := time.Now()

	for i := 0; i < rounds; i++ {
		token := i

		err := mpp.Send(peer, token, pingTag)
		if err != nil {
			log.Fatalf("ping failed: %v", err)
		}

		_, err = mpp.Recv(c.Peer(mpp.AnySource), &token, pongTag)
		if err != nil {
			log.Fatalf("pong failed: %v", err)
		}

		if token != i {
			log.Fatalf("round %d returned token %d", i, token)
		}

		if bar != nil {
			bar.IncrementFinished(1)
		}
	}

	return time.Since(start)
}

func pingPongResponder(c *mpp.Communicator, rounds int) {
	for i := 0; i < rounds; i++ {
		var token int

		status, err := mpp.Recv(c.Peer(mpp.AnySource), &token, pingTag)
		if err != nil {
			log.Fatalf("receive failed: %v", err)
		}

		err = mpp.Send(status.Source(), token, pongTag)
		if err != nil {
			log.Fatalf("reply failed: %v", err)
		}
	}
}
