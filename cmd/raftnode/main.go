package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/oriolgt/raftkv/pkg/raft"
	"github.com/oriolgt/raftkv/pkg/transport"
)

// raftnode's startup contract is spec §6's three positional arguments
// (broker port, own id, peer ids), not named flags — unlike raftbroker
// and raftclient below, which have no such constraint.
func main() {
	if len(os.Args) < 4 {
		fmt.Fprintf(os.Stderr, "usage: raftnode <broker-port> <id> <peer-id> [peer-id...]\n")
		os.Exit(1)
	}

	brokerPort, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid broker port %q: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	id := os.Args[2]
	peers := os.Args[3:]

	tr, err := transport.NewUDPTransport(brokerPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening transport: %v\n", err)
		os.Exit(1)
	}
	defer tr.Close()

	replica := raft.NewReplica(id, peers, tr)

	done := make(chan error, 1)
	go func() { done <- replica.Run() }()

	fmt.Printf("raft node %s started, broker port %d, peers: %s\n", id, brokerPort, strings.Join(peers, ","))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nshutting down...")
		replica.Stop()
		<-done
	case err := <-done:
		if err != nil {
			fmt.Fprintf(os.Stderr, "replica exited: %v\n", err)
			os.Exit(1)
		}
	}
}
