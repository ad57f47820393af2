// Package transport implements the narrow, best-effort datagram channel
// the Raft core is defined against (spec §6): something that can send a
// byte blob to the broker and, polled non-blockingly, return whatever
// blobs have arrived since the last poll. The core never sees sockets
// or routing — only this interface.
package transport

// Transport is the external collaborator the raft core consumes. It
// does not know about message semantics: encoding and routing happen
// above (package raft) and below (package broker) it.
type Transport interface {
	// Send hands a datagram to the broker for delivery. Best-effort:
	// an error here means the local send failed, not that delivery is
	// guaranteed on success.
	Send(data []byte) error

	// TryRecv returns the next buffered inbound datagram without
	// blocking. ok is false when nothing is currently available.
	TryRecv() (data []byte, ok bool, err error)

	Close() error
}
