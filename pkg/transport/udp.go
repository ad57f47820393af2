package transport

import (
	"fmt"
	"net"
	"time"
)

// maxDatagram matches the 65,535 byte ceiling spec §6 allows for a
// single datagram.
const maxDatagram = 65535

// pollTimeout is the "effectively zero timeout" spec §4.1 calls for on
// the non-blocking drain. It is not literally zero so the read syscall
// doesn't spin the CPU when the socket is idle.
const pollTimeout = time.Millisecond

// UDPTransport sends every outbound datagram to a single broker port
// and polls its own ephemeral local socket for inbound ones. It is the
// production Transport: the broker (package broker, out of scope for
// the core) does all addressing by dst.
type UDPTransport struct {
	conn       *net.UDPConn
	brokerAddr *net.UDPAddr
}

// NewUDPTransport opens an ephemeral local UDP endpoint and remembers
// the broker's address for subsequent Sends.
func NewUDPTransport(brokerPort int) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	if err != nil {
		return nil, fmt.Errorf("transport: listen: %w", err)
	}
	brokerAddr := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: brokerPort}
	return &UDPTransport{conn: conn, brokerAddr: brokerAddr}, nil
}

func (t *UDPTransport) Send(data []byte) error {
	_, err := t.conn.WriteToUDP(data, t.brokerAddr)
	if err != nil {
		return fmt.Errorf("transport: send: %w", err)
	}
	return nil
}

// TryRecv polls the socket with a short read deadline so the driver
// loop never blocks waiting for a datagram that may never arrive.
func (t *UDPTransport) TryRecv() ([]byte, bool, error) {
	buf := make([]byte, maxDatagram)
	if err := t.conn.SetReadDeadline(time.Now().Add(pollTimeout)); err != nil {
		return nil, false, fmt.Errorf("transport: set deadline: %w", err)
	}
	n, _, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("transport: recv: %w", err)
	}
	return buf[:n], true, nil
}

func (t *UDPTransport) Close() error {
	return t.conn.Close()
}

// LocalAddr reports the ephemeral endpoint the broker should learn
// about via this node's hello broadcast.
func (t *UDPTransport) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr)
}
