package raft

// dispatchIntake implements §4.2: pop every message currently queued,
// in order, and hand it to the role-specific handler. Unhandled
// messages are retained in FIFO order for the next iteration (§5
// ordering guarantees); a role transition triggered by the common
// higher-term pre-rule reinserts the triggering message at the head so
// it is re-dispatched under the new role within the same pass.
func (r *Replica) dispatchIntake() {
	queue := r.intake
	r.intake = nil
	var deferred []Message

	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]

		if r.applyHigherTermRule(msg) {
			queue = append([]Message{msg}, queue...)
			continue
		}

		var handled bool
		switch r.role {
		case Follower:
			handled = r.dispatchFollower(msg)
		case Candidate:
			handled = r.dispatchCandidate(&queue, msg)
		case Leader:
			handled = r.dispatchLeader(msg)
		}
		if !handled {
			deferred = append(deferred, msg)
		}
	}

	r.intake = deferred
}

// dispatchFollower implements §4.2's Follower dispatch rules.
func (r *Replica) dispatchFollower(msg Message) bool {
	switch msg.Type {
	case MsgRequestVote:
		r.handleRequestVote(msg)
		return true
	case MsgAppendEntries:
		r.handleAppendEntries(msg)
		return true
	case MsgPut:
		r.redirectOrFail(msg)
		return true
	case MsgGet:
		r.handleGet(msg)
		return true
	case MsgGetState:
		r.handleGetState(msg)
		return true
	default:
		return false
	}
}

// dispatchCandidate implements §4.2's Candidate dispatch rules. An
// AppendEntries at term ≥ currentTerm means another candidate already
// won this term's election; the candidate steps down and processes it
// as a Follower would, by reinserting it at the head of queue.
func (r *Replica) dispatchCandidate(queue *[]Message, msg Message) bool {
	switch msg.Type {
	case MsgRequestVote:
		r.handleRequestVote(msg)
		return true
	case MsgRequestVoteResponse:
		r.handleRequestVoteResponse(msg)
		return true
	case MsgGetState:
		r.handleGetState(msg)
		return true
	case MsgAppendEntries:
		if msg.Term >= r.currentTerm {
			r.becomeFollower(msg.Term, msg.Src)
			*queue = append([]Message{msg}, *queue...)
			return true
		}
		return false
	default:
		return false
	}
}

// dispatchLeader implements §4.2's Leader dispatch rules.
func (r *Replica) dispatchLeader(msg Message) bool {
	switch msg.Type {
	case MsgAppendEntriesResponse:
		r.handleAppendEntriesResponse(msg)
		return true
	case MsgPut:
		r.handlePut(msg)
		return true
	case MsgGet:
		r.handleGet(msg)
		return true
	case MsgGetState:
		r.handleGetState(msg)
		return true
	default:
		return false
	}
}
