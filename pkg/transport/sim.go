package transport

import (
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	sync "github.com/sasha-s/go-deadlock"
)

// envelopeHeader is the minimal slice of the wire format SimNetwork
// needs to route a datagram, mirroring what a real broker reads off
// the dst field without understanding the rest of the message.
type envelopeHeader struct {
	Dst string `json:"dst"`
}

// SimNetwork is an in-process stand-in for the broker and the wire: it
// hands byte blobs between registered nodes, optionally dropping,
// delaying, or partitioning them, and fanning broadcast datagrams out
// to every node but the sender. It is adapted from the teacher repo's
// InProcTransport and exists purely for tests — no production cmd/
// binary uses it.
type SimNetwork struct {
	mu       sync.Mutex
	nodes    map[string]chan []byte
	dropRate float64
	delayMin time.Duration
	delayMax time.Duration
	isolated map[string]bool
}

// NewSimNetwork builds an empty network; call NewSimTransport per node
// id to attach replicas to it.
func NewSimNetwork() *SimNetwork {
	return &SimNetwork{
		nodes:    make(map[string]chan []byte),
		isolated: make(map[string]bool),
	}
}

func (n *SimNetwork) SetDropRate(rate float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dropRate = rate
}

func (n *SimNetwork) SetDelay(min, max time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delayMin, n.delayMax = min, max
}

// Partition isolates id from every other node when isolated is true.
func (n *SimNetwork) Partition(id string, isolated bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.isolated[id] = isolated
}

func (n *SimNetwork) register(id string) chan []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan []byte, 256)
	n.nodes[id] = ch
	return ch
}

func (n *SimNetwork) route(from string, data []byte) error {
	var hdr envelopeHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		// malformed datagram: the real broker would drop it silently
		// too (spec §7).
		return nil
	}
	if hdr.Dst == "" {
		return errors.New("sim: datagram missing dst")
	}
	if hdr.Dst == "FFFF" {
		n.broadcast(from, data)
		return nil
	}
	return n.deliver(from, hdr.Dst, data)
}

func (n *SimNetwork) deliver(from, to string, data []byte) error {
	n.mu.Lock()
	ch, ok := n.nodes[to]
	dropped := n.isolated[from] || n.isolated[to]
	dropRate := n.dropRate
	delayMin, delayMax := n.delayMin, n.delayMax
	n.mu.Unlock()

	if !ok {
		return errors.New("sim: unknown destination node")
	}
	if dropped || rand.Float64() < dropRate {
		return nil
	}

	delay := delayMin
	if delayMax > delayMin {
		delay += time.Duration(rand.Int63n(int64(delayMax - delayMin)))
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	select {
	case ch <- data:
	default:
		// full buffer: drop, same as a congested real link would.
	}
	return nil
}

func (n *SimNetwork) broadcast(from string, data []byte) {
	n.mu.Lock()
	targets := make([]string, 0, len(n.nodes))
	for id := range n.nodes {
		if id != from {
			targets = append(targets, id)
		}
	}
	n.mu.Unlock()
	for _, id := range targets {
		n.deliver(from, id, data)
	}
}

// SimTransport is the Transport one node holds against a SimNetwork.
type SimTransport struct {
	id  string
	net *SimNetwork
	ch  chan []byte
}

func NewSimTransport(net *SimNetwork, id string) *SimTransport {
	return &SimTransport{id: id, net: net, ch: net.register(id)}
}

func (t *SimTransport) Send(data []byte) error {
	return t.net.route(t.id, data)
}

func (t *SimTransport) TryRecv() ([]byte, bool, error) {
	select {
	case data := <-t.ch:
		return data, true, nil
	default:
		return nil, false, nil
	}
}

func (t *SimTransport) Close() error {
	return nil
}
