package raft

// broadcastHeartbeat sends every peer its due AppendEntries (driver
// loop step (b), and also called directly on election win per §4.3).
func (r *Replica) broadcastHeartbeat() {
	for _, p := range r.peers {
		r.sendAppendEntries(p)
	}
}

// sendAppendEntries implements the leader side of §4.4: build the
// batch for peer p from its next_index, capped at appendEntriesBatch
// entries, and send it.
func (r *Replica) sendAppendEntries(p string) {
	next := r.leader.nextIndex[p]
	prevLogIndex := next - 1
	prevLogTerm := r.log.At(prevLogIndex).Term
	entries := r.log.Slice(next, next+appendEntriesBatch)

	r.send(Message{
		Dst:          p,
		Type:         MsgAppendEntries,
		Term:         r.currentTerm,
		PrevLogIndex: prevLogIndex,
		PrevLogTerm:  prevLogTerm,
		Entries:      entries,
		LeaderCommit: r.commitIndex,
	})
}

// handleAppendEntries implements the follower side of §4.4, steps 1-6.
func (r *Replica) handleAppendEntries(msg Message) {
	r.resetElectionDeadline()

	if msg.Term < r.currentTerm {
		r.send(Message{Dst: msg.Src, Type: MsgAppendEntriesResponse, Term: r.currentTerm, Success: false, MatchIndex: 0})
		return
	}
	r.currentLeader = msg.Src

	if !r.log.Has(msg.PrevLogIndex) || r.log.At(msg.PrevLogIndex).Term != msg.PrevLogTerm {
		r.send(Message{Dst: msg.Src, Type: MsgAppendEntriesResponse, Term: r.currentTerm, Success: false, MatchIndex: 0})
		return
	}

	r.reconcileEntries(msg.PrevLogIndex, msg.Entries)

	r.advanceFollowerCommit(msg.LeaderCommit)

	if len(msg.Entries) == 0 {
		return // heartbeats carry no new information; no reply (§4.4 step 6)
	}
	r.send(Message{Dst: msg.Src, Type: MsgAppendEntriesResponse, Term: r.currentTerm, Success: true, MatchIndex: r.log.LastIndex()})
}

// reconcileEntries implements §4.4 step 4: walk forward from
// prevLogIndex+1, truncate at the first mismatch (or past-end), then
// append whatever of entries lies beyond the (possibly truncated)
// local tail.
func (r *Replica) reconcileEntries(prevLogIndex int, entries []LogEntry) {
	i := prevLogIndex + 1
	j := 0
	for j < len(entries) {
		if !r.log.Has(i) {
			break
		}
		if r.log.At(i).Term != entries[j].Term {
			r.log.TruncateAt(i)
			break
		}
		i++
		j++
	}
	for ; j < len(entries); j++ {
		r.log.Append(entries[j])
	}
}

// advanceFollowerCommit implements §4.4 step 5.
func (r *Replica) advanceFollowerCommit(leaderCommit int) {
	if leaderCommit < r.commitIndex {
		return
	}
	newCommit := leaderCommit
	if r.log.LastIndex() < newCommit {
		newCommit = r.log.LastIndex()
	}
	r.commitIndex = newCommit
	r.applyCommitted(nil)
}

// handleAppendEntriesResponse implements the leader side of §4.4:
// advance match_index/next_index on success, decrement-and-retry on
// failure, then recompute the commit index.
func (r *Replica) handleAppendEntriesResponse(msg Message) {
	if r.role != Leader {
		return
	}
	if msg.Success {
		r.leader.matchIndex[msg.Src] = msg.MatchIndex
		r.leader.nextIndex[msg.Src] = msg.MatchIndex + 1
	} else {
		if r.leader.nextIndex[msg.Src] > 1 {
			r.leader.nextIndex[msg.Src]--
		}
		r.sendAppendEntries(msg.Src)
	}
	r.advanceLeaderCommit()
}

// advanceLeaderCommit implements the "Commit advance" scan in §4.4.
// As the Open Questions section documents, this deliberately omits the
// Raft paper's current-term guard, matching the source's behavior.
func (r *Replica) advanceLeaderCommit() {
	quorum := r.quorumSize()
	for i := r.log.LastIndex(); i > r.commitIndex; i-- {
		count := 1
		for _, m := range r.leader.matchIndex {
			if m >= i {
				count++
			}
		}
		if count >= quorum {
			r.commitIndex = i
			break
		}
	}
	r.applyCommitted(r.replyToClient)
}

// applyCommitted folds newly committed entries into the kv map in
// index order (§4.4 step 5 / §8 invariant #5). notify, when non-nil, is
// called once per applied entry so the leader can reply to the
// originating client; followers pass nil.
func (r *Replica) applyCommitted(notify func(LogEntry)) {
	for r.lastApplied < r.commitIndex {
		r.lastApplied++
		entry := r.log.At(r.lastApplied)
		r.kv.Apply(entry.Key, entry.Value)
		if notify != nil {
			notify(entry)
		}
	}
}

// replyToClient sends the durability acknowledgment §4.4 promises: an
// "ok" reply to the client that originated a now-committed entry.
func (r *Replica) replyToClient(entry LogEntry) {
	r.send(Message{Dst: entry.Src, Type: MsgOK, MID: entry.MID})
}
