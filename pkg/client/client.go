// Package client implements the client side of spec §4.5: send a
// put/get, follow redirects to the believed leader, and retry on
// failure or timeout. The core spec leaves this implicit ("the client
// is expected to back off and retry"); this package makes it concrete.
package client

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

const (
	maxDatagram  = 65535
	replyTimeout = 500 * time.Millisecond
	maxRetries   = 10
)

// message mirrors the wire fields a client needs; it is a deliberately
// smaller view than raft.Message since the client only ever sends put/
// get and reads ok/redirect/fail.
type message struct {
	Src    string `json:"src"`
	Dst    string `json:"dst"`
	Leader string `json:"leader"`
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
	MID    string `json:"MID,omitempty"`
}

// Client sends put/get requests to a Raft cluster through the broker.
type Client struct {
	id         string
	conn       *net.UDPConn
	brokerAddr *net.UDPAddr
}

// New opens an ephemeral local endpoint and remembers the broker.
func New(id string, brokerPort int) (*Client, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		return nil, fmt.Errorf("client: listen: %w", err)
	}
	return &Client{
		id:         id,
		conn:       conn,
		brokerAddr: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: brokerPort},
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// NewMID generates an opaque request identifier (spec §3's "client-
// supplied request identifier"); callers that need idempotent retries
// should generate one MID and reuse it across attempts.
func NewMID() string {
	return uuid.NewString()
}

// Put sends a put request to dst (initially any known node; any
// replica that isn't the leader redirects) and blocks until it
// commits, is redirected and retried against the new leader, or
// maxRetries is exhausted.
func (c *Client) Put(dst, key, value string) error {
	mid := NewMID()
	msg := message{Type: "put", Key: key, Value: value, MID: mid}
	_, err := c.send(dst, msg)
	return err
}

// Get sends a get request and returns the value once a replica answers
// with "ok", following redirects along the way.
func (c *Client) Get(dst, key string) (string, error) {
	msg := message{Type: "get", Key: key, MID: NewMID()}
	reply, err := c.send(dst, msg)
	if err != nil {
		return "", err
	}
	return reply.Value, nil
}

func (c *Client) send(dst string, msg message) (message, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		msg.Src = c.id
		msg.Dst = dst
		data, err := json.Marshal(msg)
		if err != nil {
			return message{}, fmt.Errorf("client: encode: %w", err)
		}
		if _, err := c.conn.WriteToUDP(data, c.brokerAddr); err != nil {
			return message{}, fmt.Errorf("client: send: %w", err)
		}

		reply, ok := c.awaitReply(msg.MID)
		if !ok {
			continue // timed out: retry against the same node.
		}
		switch reply.Type {
		case "ok":
			return reply, nil
		case "redirect":
			dst = reply.Leader
			continue
		case "fail":
			time.Sleep(replyTimeout) // no leader known yet: back off before retrying.
			continue
		}
	}
	return message{}, fmt.Errorf("client: no reply for MID %s after %d attempts", msg.MID, maxRetries)
}

func (c *Client) awaitReply(mid string) (message, bool) {
	buf := make([]byte, maxDatagram)
	deadline := time.Now().Add(replyTimeout)
	for {
		if time.Now().After(deadline) {
			return message{}, false
		}
		c.conn.SetReadDeadline(deadline)
		n, _, err := c.conn.ReadFromUDP(buf)
		if err != nil {
			return message{}, false
		}
		var reply message
		if err := json.Unmarshal(buf[:n], &reply); err != nil {
			continue
		}
		if reply.MID != mid {
			continue
		}
		return reply, true
	}
}
