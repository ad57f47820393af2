package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSimNetworkDirectDelivery(t *testing.T) {
	net := NewSimNetwork()
	a := NewSimTransport(net, "A")
	b := NewSimTransport(net, "B")

	require.NoError(t, a.Send([]byte(`{"dst":"B","type":"hello"}`)))

	data, ok, err := b.TryRecv()
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, string(data), `"type":"hello"`)

	_, ok, _ = a.TryRecv()
	require.False(t, ok, "a message addressed to B must never reach A")
}

func TestSimNetworkBroadcastFansOutExceptSender(t *testing.T) {
	net := NewSimNetwork()
	a := NewSimTransport(net, "A")
	b := NewSimTransport(net, "B")
	c := NewSimTransport(net, "C")

	require.NoError(t, a.Send([]byte(`{"dst":"FFFF","type":"hello"}`)))

	_, ok, _ := b.TryRecv()
	require.True(t, ok)
	_, ok, _ = c.TryRecv()
	require.True(t, ok)
	_, ok, _ = a.TryRecv()
	require.False(t, ok)
}

func TestSimNetworkPartitionIsolatesBothDirections(t *testing.T) {
	net := NewSimNetwork()
	a := NewSimTransport(net, "A")
	b := NewSimTransport(net, "B")
	net.Partition("A", true)

	require.NoError(t, a.Send([]byte(`{"dst":"B","type":"hello"}`)))
	_, ok, _ := b.TryRecv()
	require.False(t, ok)

	require.NoError(t, b.Send([]byte(`{"dst":"A","type":"hello"}`)))
	_, ok, _ = a.TryRecv()
	require.False(t, ok)
}

func TestSimNetworkDropRateDropsEverything(t *testing.T) {
	net := NewSimNetwork()
	net.SetDropRate(1.0)
	a := NewSimTransport(net, "A")
	b := NewSimTransport(net, "B")

	require.NoError(t, a.Send([]byte(`{"dst":"B","type":"hello"}`)))
	_, ok, _ := b.TryRecv()
	require.False(t, ok)
}

func TestSimNetworkDelayDefersDelivery(t *testing.T) {
	net := NewSimNetwork()
	net.SetDelay(20*time.Millisecond, 30*time.Millisecond)
	a := NewSimTransport(net, "A")
	b := NewSimTransport(net, "B")

	start := time.Now()
	require.NoError(t, a.Send([]byte(`{"dst":"B","type":"hello"}`)))
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 20*time.Millisecond)

	_, ok, _ := b.TryRecv()
	require.True(t, ok)
}

func TestSimNetworkUnknownDestinationErrors(t *testing.T) {
	net := NewSimNetwork()
	a := NewSimTransport(net, "A")
	err := a.Send([]byte(`{"dst":"ghost","type":"hello"}`))
	require.Error(t, err)
}

func TestSimNetworkMalformedDatagramDroppedSilently(t *testing.T) {
	net := NewSimNetwork()
	a := NewSimTransport(net, "A")
	err := a.Send([]byte(`not json`))
	require.NoError(t, err)
}
