package raft

import "sync"

// fakeTransport is a Transport double that records every send and lets
// tests feed in datagrams without touching a real socket or the
// simulator's goroutines.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []Message
	inbound [][]byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{}
}

func (t *fakeTransport) Send(data []byte) error {
	msg, err := decodeMessage(data)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.sent = append(t.sent, msg)
	t.mu.Unlock()
	return nil
}

func (t *fakeTransport) TryRecv() ([]byte, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.inbound) == 0 {
		return nil, false, nil
	}
	data := t.inbound[0]
	t.inbound = t.inbound[1:]
	return data, true, nil
}

func (t *fakeTransport) Close() error { return nil }

func (t *fakeTransport) deliver(msg Message) {
	data, _ := msg.encode()
	t.mu.Lock()
	t.inbound = append(t.inbound, data)
	t.mu.Unlock()
}

func (t *fakeTransport) sentMessages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.sent))
	copy(out, t.sent)
	return out
}

func (t *fakeTransport) lastSent() (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.sent) == 0 {
		return Message{}, false
	}
	return t.sent[len(t.sent)-1], true
}
