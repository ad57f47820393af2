package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/oriolgt/raftkv/pkg/broker"
	"github.com/oriolgt/raftkv/pkg/config"
)

func main() {
	var (
		port       = flag.Int("port", 9000, "UDP port to listen on")
		configPath = flag.String("config", "", "optional cluster topology YAML file")
	)
	flag.Parse()

	if *configPath != "" {
		cluster, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("expecting nodes: %v\n", cluster.IDs())
	}

	b, err := broker.Listen(*port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error starting broker: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	fmt.Printf("broker listening on %s\n", b.Addr())

	done := make(chan error, 1)
	go func() { done <- b.Run() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		fmt.Println("\nshutting down...")
		b.Close()
		<-done
	case err := <-done:
		if err != nil {
			fmt.Fprintf(os.Stderr, "broker exited: %v\n", err)
			os.Exit(1)
		}
	}
}
