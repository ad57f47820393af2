package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oriolgt/raftkv/pkg/client"
)

func main() {
	var (
		brokerPort = flag.Int("broker-port", 9000, "broker UDP port")
		id         = flag.String("id", "client", "this client's id")
		dst        = flag.String("dst", "", "node id to send the first request to")
		command    = flag.String("command", "", "put | get")
		key        = flag.String("key", "", "key")
		value      = flag.String("value", "", "value, for put")
	)
	flag.Parse()

	if *dst == "" || *command == "" || *key == "" {
		fmt.Fprintf(os.Stderr, "usage: raftclient -dst <node-id> -command put|get -key <key> [-value <value>]\n")
		os.Exit(1)
	}

	c, err := client.New(*id, *brokerPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	switch *command {
	case "put":
		if err := c.Put(*dst, *key, *value); err != nil {
			fmt.Fprintf(os.Stderr, "put failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("OK")
	case "get":
		v, err := c.Get(*dst, *key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "get failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(v)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *command)
		os.Exit(1)
	}
}
