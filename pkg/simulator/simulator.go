// Package simulator builds an in-process Raft cluster over
// transport.SimNetwork for tests — no real sockets, no real time
// beyond the driver loop's own timers. Adapted from the teacher
// repo's Cluster, which wired its mutex/goroutine Server over
// InProcTransport; this version wires the single-threaded Replica
// over SimNetwork instead.
package simulator

import (
	"time"

	"github.com/oriolgt/raftkv/pkg/raft"
	"github.com/oriolgt/raftkv/pkg/transport"
)

type Cluster struct {
	net      *transport.SimNetwork
	replicas map[string]*raft.Replica
	done     map[string]chan error
}

// NewCluster wires one Replica per id, each with every other id as a
// peer, all sharing one SimNetwork.
func NewCluster(ids []string) *Cluster {
	c := &Cluster{
		net:      transport.NewSimNetwork(),
		replicas: make(map[string]*raft.Replica, len(ids)),
		done:     make(map[string]chan error, len(ids)),
	}
	for _, id := range ids {
		peers := make([]string, 0, len(ids)-1)
		for _, other := range ids {
			if other != id {
				peers = append(peers, other)
			}
		}
		tr := transport.NewSimTransport(c.net, id)
		c.replicas[id] = raft.NewReplica(id, peers, tr)
	}
	return c
}

// Start launches every replica's driver loop in its own goroutine.
// Within a given replica nothing runs concurrently; across replicas,
// only the shared SimNetwork is concurrently touched, and it guards
// itself with a mutex.
func (c *Cluster) Start() {
	for id, r := range c.replicas {
		done := make(chan error, 1)
		c.done[id] = done
		go func(r *raft.Replica, done chan error) { done <- r.Run() }(r, done)
	}
}

func (c *Cluster) Stop() {
	for _, r := range c.replicas {
		r.Stop()
	}
	for _, done := range c.done {
		<-done
	}
}

func (c *Cluster) Replica(id string) *raft.Replica {
	return c.replicas[id]
}

func (c *Cluster) Partition(id string, isolated bool) {
	c.net.Partition(id, isolated)
}

func (c *Cluster) SetDropRate(rate float64) {
	c.net.SetDropRate(rate)
}

func (c *Cluster) SetDelay(min, max time.Duration) {
	c.net.SetDelay(min, max)
}

// WaitForLeader polls every replica until one reports itself as
// leader, or timeout elapses.
func (c *Cluster) WaitForLeader(timeout time.Duration) string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for id, r := range c.replicas {
			if r.IsLeader() {
				return id
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return ""
}
