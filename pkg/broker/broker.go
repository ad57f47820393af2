// Package broker implements the external collaborator spec §1/§6 name
// but explicitly place out of scope for the Raft core: the single
// well-known UDP port every replica sends to, which learns each
// sender's ephemeral endpoint from the src field of every datagram it
// receives (a replica's startup "hello" is its first) and forwards by
// the envelope's dst field, fanning broadcast datagrams ("FFFF") out
// to every endpoint it has seen except the sender's.
package broker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"

	sync "github.com/sasha-s/go-deadlock"
)

const maxDatagram = 65535

// envelope is the minimal slice of the wire format the broker needs to
// route — it never interprets anything beyond src/dst.
type envelope struct {
	Src string `json:"src"`
	Dst string `json:"dst"`
}

// Broker listens on a single UDP port and forwards by dst. It has no
// notion of terms, roles, or log entries — just addresses.
type Broker struct {
	conn *net.UDPConn

	mu        sync.Mutex
	endpoints map[string]*net.UDPAddr
}

// Listen opens the broker's well-known port.
func Listen(port int) (*Broker, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	if err != nil {
		return nil, fmt.Errorf("broker: listen: %w", err)
	}
	return &Broker{conn: conn, endpoints: make(map[string]*net.UDPAddr)}, nil
}

func (b *Broker) Addr() *net.UDPAddr {
	return b.conn.LocalAddr().(*net.UDPAddr)
}

// Run forwards datagrams until the connection is closed.
func (b *Broker) Run() error {
	buf := make([]byte, maxDatagram)
	for {
		n, from, err := b.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("broker: read error: %v", err)
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		b.route(data, from)
	}
}

func (b *Broker) route(data []byte, from *net.UDPAddr) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return // malformed datagram: drop silently per spec §7.
	}
	if env.Src != "" {
		b.mu.Lock()
		b.endpoints[env.Src] = from
		b.mu.Unlock()
	}
	if env.Dst == "" {
		return
	}
	if env.Dst == "FFFF" {
		b.broadcast(data, env.Src)
		return
	}
	b.forward(data, env.Dst)
}

func (b *Broker) forward(data []byte, dst string) {
	b.mu.Lock()
	addr, ok := b.endpoints[dst]
	b.mu.Unlock()
	if !ok {
		return // unknown destination: best-effort channel, drop.
	}
	if _, err := b.conn.WriteToUDP(data, addr); err != nil {
		log.Printf("broker: forward to %s: %v", dst, err)
	}
}

func (b *Broker) broadcast(data []byte, from string) {
	b.mu.Lock()
	targets := make([]*net.UDPAddr, 0, len(b.endpoints))
	for id, addr := range b.endpoints {
		if id != from {
			targets = append(targets, addr)
		}
	}
	b.mu.Unlock()
	for _, addr := range targets {
		if _, err := b.conn.WriteToUDP(data, addr); err != nil {
			log.Printf("broker: broadcast: %v", err)
		}
	}
}

func (b *Broker) Close() error {
	return b.conn.Close()
}
