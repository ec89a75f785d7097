package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sarchlab/tsubame/inproc"
	"github.com/sarchlab/tsubame/mpp"
)

var rounds = flag.Int("rounds", 4, "number of round trips")
var verbose = flag.Bool("v", false, "log every transfer")

const (
	pingTag = 1
	pongTag = 2
)

func main() {
	flag.Parse()

	fabric := inproc.NewFabric(2)

	fabric.Run(func(c *mpp.Communicator) {
		if *verbose {
			logger := log.New(os.Stderr, fmt.Sprintf("rank%d ", c.Rank()), 0)
			c.AcceptHook(mpp.NewTransferLogger(logger))
		}

		switch c.Rank() {
		case 0:
			initiate(c)
		case 1:
			respond(c)
		}
	})
}

func initiate(c *mpp.Communicator) {
	peer := c.Peer(1)

	for i := 0; i < *rounds; i++ {
		err := mpp.Send(peer, i, pingTag)
		if err != nil {
			panic(err)
		}

		var reply int
		_, err = mpp.Recv(c.Peer(mpp.AnySource), &reply, pongTag)
		if err != nil {
			panic(err)
		}

		fmt.Printf("round %d: got %d back\n", i, reply)
	}
}

func respond(c *mpp.Communicator) {
	for i := 0; i < *rounds; i++ {
		var token int

		status, err := mpp.Recv(c.Peer(mpp.AnySource), &token, pingTag)
		if err != nil {
			panic(err)
		}

		err = mpp.Send(status.Source(), token, pongTag)
		if err != nil {
			panic(err)
		}
	}
}
