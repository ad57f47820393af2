package raft

// handlePut implements the Leader side of §4.5 put: append the entry to
// the log and immediately push it toward any peer that is behind. The
// client only gets a reply once the entry commits (handled in
// replication.go's applyCommitted/replyToClient).
func (r *Replica) handlePut(msg Message) {
	entry := LogEntry{Term: r.currentTerm, Key: msg.Key, Value: msg.Value, MID: msg.MID, Src: msg.Src}
	idx := r.log.Append(entry)
	for _, p := range r.peers {
		if idx >= r.leader.nextIndex[p] {
			r.sendAppendEntries(p)
		}
	}
}

// handleGet implements §4.5 get, served identically regardless of role:
// a local hit answers immediately (even stale, per the Open Questions
// section's "follower get served locally"); otherwise redirect to the
// known leader, or fail if none is known.
func (r *Replica) handleGet(msg Message) {
	if v, ok := r.kv.Get(msg.Key); ok {
		r.send(Message{Dst: msg.Src, Type: MsgOK, MID: msg.MID, Value: v})
		return
	}
	r.redirectOrFail(msg)
}

// handleGetState answers the get_state tooling RPC (SPEC_FULL
// "Supplemented features"): every role replies with its own view of
// term/role/leader, so raftctl-style tooling never needs to guess who
// to ask.
func (r *Replica) handleGetState(msg Message) {
	r.send(Message{
		Dst:  msg.Src,
		Type: MsgGetStateResponse,
		MID:  msg.MID,
		Term: r.currentTerm,
		Role: r.role.String(),
	})
}

// redirectOrFail implements §4.5 "put on non-leader" and, per REDESIGN
// FLAG #4, applies the same leader-known check uniformly to get misses
// and to puts received by a non-leader, rather than the source's
// operator-precedence accident that only guarded get.
func (r *Replica) redirectOrFail(msg Message) {
	if r.currentLeader != "" && r.currentLeader != Broadcast {
		r.send(Message{Dst: msg.Src, Type: MsgRedirect, MID: msg.MID})
		return
	}
	r.send(Message{Dst: msg.Src, Type: MsgFail, MID: msg.MID})
}
