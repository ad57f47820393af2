package raft

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatchIntakeDefersUnhandledInOrder(t *testing.T) {
	r, tr := newTestReplica("A", "B")
	r.role = Follower
	// A follower has no handler for append_entries_response; it must
	// be retained, in order, for a future role that does.
	r.intake = []Message{
		{Type: MsgAppendEntriesResponse, Src: "B", Term: 0},
		{Type: MsgGet, Src: "X", Key: "missing", MID: "m1"},
	}
	r.currentLeader = "B"

	r.dispatchIntake()

	require.Len(t, r.intake, 1)
	require.Equal(t, MsgAppendEntriesResponse, r.intake[0].Type)

	reply, ok := tr.lastSent()
	require.True(t, ok)
	require.Equal(t, MsgRedirect, reply.Type)
}

func TestDispatchIntakeHigherTermReprocessesUnderNewRole(t *testing.T) {
	r, tr := newTestReplica("A", "B")
	r.role = Leader
	r.currentTerm = 1
	r.currentLeader = "A"
	r.leader = newLeaderState(r.peers, r.log.LastIndex())
	r.intake = []Message{
		{Type: MsgAppendEntries, Src: "B", Term: 5, PrevLogIndex: 0, PrevLogTerm: 0,
			Entries: []LogEntry{{Term: 5, Key: "k", Value: "v"}}},
	}

	r.dispatchIntake()

	require.Equal(t, Follower, r.role)
	require.Equal(t, uint64(5), r.currentTerm)
	require.Empty(t, r.intake, "the reinserted AppendEntries is fully handled as a follower within the same pass")

	reply, ok := tr.lastSent()
	require.True(t, ok)
	require.Equal(t, MsgAppendEntriesResponse, reply.Type)
	require.True(t, reply.Success)
}

func TestDispatchCandidateStepsDownOnCurrentTermAppendEntries(t *testing.T) {
	r, _ := newTestReplica("A", "B")
	r.startElection()
	term := r.currentTerm
	r.intake = []Message{
		{Type: MsgAppendEntries, Src: "B", Term: term, PrevLogIndex: 0, PrevLogTerm: 0},
	}

	r.dispatchIntake()

	require.Equal(t, Follower, r.role)
	require.Equal(t, "B", r.currentLeader)
}

func TestDispatchCandidateDefersClientMessages(t *testing.T) {
	r, _ := newTestReplica("A", "B")
	r.startElection()
	r.intake = []Message{{Type: MsgPut, Src: "X", Key: "k", Value: "v", MID: "m"}}

	r.dispatchIntake()

	require.Len(t, r.intake, 1, "a candidate has no put handler; the client retries once a leader emerges")
}

func TestDispatchLeaderHandlesClientAndReplicationMessages(t *testing.T) {
	r, tr := newTestReplica("A", "B")
	r.role = Leader
	r.currentLeader = "A"
	r.leader = newLeaderState(r.peers, r.log.LastIndex())
	r.intake = []Message{{Type: MsgPut, Src: "X", Key: "k", Value: "v", MID: "m"}}

	r.dispatchIntake()

	require.Empty(t, r.intake)
	require.Equal(t, 1, r.log.LastIndex())
	sent := tr.sentMessages()
	require.NotEmpty(t, sent)
}

func TestIsProtocolMessageClassification(t *testing.T) {
	for _, ty := range []string{MsgRequestVote, MsgRequestVoteResponse, MsgAppendEntries, MsgAppendEntriesResponse} {
		require.True(t, isProtocolMessage(ty), ty)
	}
	for _, ty := range []string{MsgPut, MsgGet, MsgHello, MsgGetState, MsgOK, MsgRedirect, MsgFail} {
		require.False(t, isProtocolMessage(ty), ty)
	}
}
