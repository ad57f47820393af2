package raft

// startElection implements §4.3 "Starting an election": bump the term,
// become Candidate, vote for self, and broadcast RequestVote to every
// peer.
func (r *Replica) startElection() {
	r.currentTerm++
	r.role = Candidate
	r.votedFor = r.id
	r.candidate = newCandidateState(r.id)
	r.leader = nil
	r.logger.Printf("starting election for term %d", r.currentTerm)

	for _, p := range r.peers {
		r.send(Message{
			Dst:          p,
			Type:         MsgRequestVote,
			Term:         r.currentTerm,
			LastLogIndex: r.log.LastIndex(),
			LastLogTerm:  r.log.LastTerm(),
		})
	}
	r.resetElectionDeadline()
}

// handleRequestVote implements §4.3 "Receiving RequestVote". The
// caller has already applied the higher-term pre-rule, so currentTerm
// here already reflects msg.term if it was higher.
func (r *Replica) handleRequestVote(msg Message) {
	grant := msg.Term == r.currentTerm &&
		(r.votedFor == "" || r.votedFor == msg.Src) &&
		r.log.IsAtLeastAsUpToDateAs(msg.LastLogTerm, msg.LastLogIndex)

	if grant {
		r.votedFor = msg.Src
		r.resetElectionDeadline()
		r.logger.Printf("granted vote to %s for term %d", msg.Src, r.currentTerm)
	}

	r.send(Message{
		Dst:  msg.Src,
		Type: MsgRequestVoteResponse,
		Term: r.currentTerm,
		Vote: grant,
	})
}

// handleRequestVoteResponse implements §4.3 "Receiving
// RequestVoteResponse": tally votes while Candidate, and become Leader
// on reaching quorum.
func (r *Replica) handleRequestVoteResponse(msg Message) {
	if r.role != Candidate || msg.Term != r.currentTerm {
		return
	}
	if msg.Vote {
		r.candidate.votesReceived[msg.Src] = true
	}
	if len(r.candidate.votesReceived) >= r.quorumSize() {
		r.becomeLeader()
	}
}

// quorumSize is ⌈(N+1)/2⌉ where N is the total replica count (self + peers).
func (r *Replica) quorumSize() int {
	n := len(r.peers) + 1
	return (n + 2) / 2
}

func (r *Replica) becomeLeader() {
	r.role = Leader
	r.currentLeader = r.id
	r.candidate = nil
	r.leader = newLeaderState(r.peers, r.log.LastIndex())
	r.resetHeartbeatDeadline()
	r.resetElectionDeadline()
	r.logger.Printf("became leader for term %d", r.currentTerm)
	r.broadcastHeartbeat()
}

// becomeFollower applies the higher-term pre-rule shared by all three
// dispatchers (§4.2): step down, adopt the new term, clear the vote,
// and remember who claimed leadership.
func (r *Replica) becomeFollower(term uint64, leaderHint string) {
	r.currentTerm = term
	r.votedFor = ""
	r.role = Follower
	r.currentLeader = leaderHint
	r.candidate = nil
	r.leader = nil
	r.resetElectionDeadline()
}

// applyHigherTermRule implements the common pre-rule in §4.2. It
// returns true if the replica stepped down as a result, which the
// dispatcher uses to decide whether the message needs reprocessing
// under the new role this same iteration.
func (r *Replica) applyHigherTermRule(msg Message) bool {
	if !isProtocolMessage(msg.Type) {
		return false
	}
	if msg.Term <= r.currentTerm {
		return false
	}
	r.becomeFollower(msg.Term, msg.Src)
	return true
}

func isProtocolMessage(t string) bool {
	switch t {
	case MsgRequestVote, MsgRequestVoteResponse, MsgAppendEntries, MsgAppendEntriesResponse:
		return true
	default:
		return false
	}
}
