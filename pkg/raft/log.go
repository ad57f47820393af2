package raft

// Log is the ordered sequence of LogEntry a replica holds. entries[0]
// is always the sentinel (L1). Every mutation goes through Append or
// TruncateAt; terms stay non-decreasing along the slice (L2) only as
// long as callers append them in that order, since Append does not
// check.
type Log struct {
	entries []LogEntry
}

// NewLog builds a log holding only the sentinel entry, as invariant
// #7 requires: term 0, key/value "0", attributed to self.
func NewLog(selfID string) *Log {
	return &Log{entries: []LogEntry{{Term: 0, Key: "0", Value: "0", MID: "0", Src: selfID}}}
}

// LastIndex is len(log)-1 in spec terms: the highest populated index.
func (l *Log) LastIndex() int {
	return len(l.entries) - 1
}

func (l *Log) LastTerm() uint64 {
	return l.entries[len(l.entries)-1].Term
}

// At returns the entry at index i. i must be in [0, LastIndex()]; the
// caller is expected to have checked bounds already, matching the
// source's treatment of prev_log_index as always defined thanks to the
// sentinel.
func (l *Log) At(i int) LogEntry {
	return l.entries[i]
}

func (l *Log) Has(i int) bool {
	return i >= 0 && i < len(l.entries)
}

// Append adds an entry strictly at the tail, on the leader for a new
// put and on a follower after reconcileEntries has resolved conflicts.
func (l *Log) Append(e LogEntry) int {
	l.entries = append(l.entries, e)
	return l.LastIndex()
}

// TruncateAt discards everything at or after index i, used by a
// follower resolving a conflict (§4.4 step 4). i must be ≥ 1: the
// sentinel is never truncated (L1, invariant #7).
func (l *Log) TruncateAt(i int) {
	if i < 1 {
		i = 1
	}
	if i < len(l.entries) {
		l.entries = l.entries[:i]
	}
}

// Slice returns entries[from:to], clamped to the log's current length,
// used to build a bounded AppendEntries batch.
func (l *Log) Slice(from, to int) []LogEntry {
	if from < 0 {
		from = 0
	}
	if from > len(l.entries) {
		from = len(l.entries)
	}
	if to > len(l.entries) {
		to = len(l.entries)
	}
	if to < from {
		to = from
	}
	out := make([]LogEntry, to-from)
	copy(out, l.entries[from:to])
	return out
}

// IsAtLeastAsUpToDateAs implements the RequestVote up-to-date check
// (§4.3): the candidate's (lastLogTerm, lastLogIndex) must be ≥ this
// log's own last entry under the usual (term, then index) ordering.
func (l *Log) IsAtLeastAsUpToDateAs(lastLogTerm uint64, lastLogIndex int) bool {
	myTerm := l.LastTerm()
	if lastLogTerm != myTerm {
		return lastLogTerm > myTerm
	}
	return lastLogIndex >= l.LastIndex()
}
