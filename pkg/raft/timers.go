package raft

import (
	"math/rand"
	"time"
)

// Election timeouts are drawn uniformly from [electionMin, electionMax)
// on every reset (§4.3). heartbeatPeriod is fixed and strictly below
// electionMin so a healthy leader's heartbeats suppress elections under
// normal operation.
const (
	electionMin     = 450 * time.Millisecond
	electionMax     = 600 * time.Millisecond
	heartbeatPeriod = 400 * time.Millisecond
)

func randomElectionTimeout() time.Duration {
	span := electionMax - electionMin
	return electionMin + time.Duration(rand.Int63n(int64(span)))
}

func (r *Replica) resetElectionDeadline() {
	r.electionDeadline = r.now().Add(randomElectionTimeout())
}

func (r *Replica) resetHeartbeatDeadline() {
	r.heartbeatDeadline = r.now().Add(heartbeatPeriod)
}

func (r *Replica) now() time.Time {
	if r.clock != nil {
		return r.clock()
	}
	return time.Now()
}
