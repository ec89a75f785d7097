package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/tsubame/monitoring"
	"github.com/sarchlab/tsubame/mpp"
)

var benchFlags = struct {
	ranks       int
	minSize     int
	maxSize     int
	messages    int
	noMonitor   bool
	monitorPort int
	trace       bool
	output      string
}{}

const benchTag = 7

// benchEntry is one row of the "bench" table in the output database. Each
// row reports the bandwidth of a single sender-receiver pair at one message
// size.
type benchEntry struct {
	SizeBytes int
	Messages  int
	Seconds   float64
	MBPerSec  float64
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Sweep message sizes and record the bandwidth of each",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		runBench()
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchFlags.ranks,
		"ranks", 2, "number of ranks, must be even")
	benchCmd.Flags().IntVar(&benchFlags.minSize,
		"min-size", 8, "smallest message size in bytes")
	benchCmd.Flags().IntVar(&benchFlags.maxSize,
		"max-size", 1<<20, "largest message size in bytes")
	benchCmd.Flags().IntVar(&benchFlags.messages,
		"messages", 100, "messages to send at each size")
	benchCmd.Flags().BoolVar(&benchFlags.noMonitor,
		"no-monitor", false, "disable the monitoring server")
	benchCmd.Flags().IntVar(&benchFlags.monitorPort,
		"monitor-port", 0, "port of the monitoring server, 0 for random")
	benchCmd.Flags().BoolVar(&benchFlags.trace,
		"trace", false, "record every transfer in the output database")
	benchCmd.Flags().StringVar(&benchFlags.output,
		"output", "", "name of the output database file")

	rootCmd.AddCommand(benchCmd)
}

func runBench() {
	validateBenchFlags()

	sizes := benchSizes()

	s := buildSession(benchFlags.ranks,
		benchFlags.noMonitor, benchFlags.monitorPort,
		benchFlags.trace, benchFlags.output)
	defer s.Terminate()

	var bar *monitoring.ProgressBar
	if s.Monitor() != nil {
		total := uint64(len(sizes) * benchFlags.messages)
		bar = s.Monitor().CreateProgressBar("Bandwidth sweep", total)
	}

	entries := make([]benchEntry, len(sizes))

	s.Run(func(c *mpp.Communicator) {
		if c.Rank()%2 == 0 {
			benchSender(c, sizes, bar, entries)
		} else {
			benchReceiver(c, sizes)
		}
	})

	if s.Monitor() != nil {
		s.Monitor().CompleteProgressBar(bar)
	}

	s.DataRecorder().CreateTable("bench", benchEntry{})
	for _, e := range entries {
		s.DataRecorder().InsertData("bench", e)
		fmt.Printf("%10d B x %d: %8.2f MB/s\n",
			e.SizeBytes, e.Messages, e.MBPerSec)
	}
}

func validateBenchFlags() {
	if benchFlags.ranks < 2 || benchFlags.ranks%2 != 0 {
		log.Fatalf("ranks must be a positive even number, got %d",
			benchFlags.ranks)
	}

	if benchFlags.minSize < 8 || benchFlags.maxSize < benchFlags.minSize {
		log.Fatalf("invalid size range [%d, %d]",
			benchFlags.minSize, benchFlags.maxSize)
	}

	if benchFlags.messages <= 0 {
		log.Fatalf("messages must be positive, got %d", benchFlags.messages)
	}
}

func benchSizes() []int {
	var sizes []int

	for size := benchFlags.minSize; size <= benchFlags.maxSize; size *= 2 {
		sizes = append(sizes, size)
	}

	return sizes
}

// benchSender pushes the sweep to the next higher rank. Only rank 0 writes
// its measurements into entries, so the reported bandwidth is that of a
// single pair.
func benchSender(
	c *mpp.Communicator,
	sizes []int,
	bar *monitoring.ProgressBar,
	entries []benchEntry,
) {
	peer := c.Peer(c.Rank() + 1)

	for i, size := range sizes {
		payload := make([]float64, size/8)
		for j := range payload {
			payload[j] = float64(j)
		}

		start := time.Now()

		for m := 0; m < benchFlags.messages; m++ {
			err := peer.Send(mpp.NewMsg(&payload, benchTag))
			if err != nil {
				log.Fatalf("send of %d bytes failed: %v", size, err)
			}

			if bar != nil && c.Rank() == 0 {
				bar.IncrementFinished(1)
			}
		}

		elapsed := time.Since(start).Seconds()

		if c.Rank() == 0 {
			bytes := float64(size) * float64(benchFlags.messages)
			entries[i] = benchEntry{
				SizeBytes: size,
				Messages:  benchFlags.messages,
				Seconds:   elapsed,
				MBPerSec:  bytes / elapsed / 1e6,
			}
		}
	}
}

// benchReceiver drains the sweep with asynchronous receives.
func benchReceiver(c *mpp.Communicator, sizes []int) {
	peer := c.Peer(c.Rank() - 1)

	for _, size := range sizes {
		buf := make([]float64, size/8)

		for m := 0; m < benchFlags.messages; m++ {
			req, err := mpp.RecvAsync(peer, &buf, benchTag)
			if err != nil {
				log.Fatalf("post of %d bytes failed: %v", size, err)
			}

			_, err = req.Wait()
			if err != nil {
				log.Fatalf("receive of %d bytes failed: %v", size, err)
			}
		}
	}
}
