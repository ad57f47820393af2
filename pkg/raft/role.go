package raft

// Role is the replica's current position in the ternary Raft state
// machine.
type Role int

const (
	Follower Role = iota
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Follower:
		return "follower"
	case Candidate:
		return "candidate"
	case Leader:
		return "leader"
	default:
		return "unknown"
	}
}

// candidateState holds the data that is only meaningful while a
// replica is a Candidate. It is nil whenever role != Candidate, so
// there is no way to read a stale vote tally after stepping down
// (design notes §9, "role as tagged variant").
type candidateState struct {
	votesReceived map[string]bool
}

func newCandidateState(self string) *candidateState {
	return &candidateState{votesReceived: map[string]bool{self: true}}
}

// leaderState holds the per-peer replication index, meaningful only
// while role == Leader.
type leaderState struct {
	nextIndex  map[string]int
	matchIndex map[string]int
}

func newLeaderState(peers []string, lastLogIndex int) *leaderState {
	ls := &leaderState{
		nextIndex:  make(map[string]int, len(peers)),
		matchIndex: make(map[string]int, len(peers)),
	}
	for _, p := range peers {
		ls.nextIndex[p] = lastLogIndex + 1
		ls.matchIndex[p] = 0
	}
	return ls
}
