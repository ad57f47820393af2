package raft

// Broadcast is the literal destination/leader sentinel meaning "all
// replicas" (as a dst) or "no known leader" (as a leader field).
const Broadcast = "FFFF"

// Message types exchanged over the transport. The wire representation
// lives in message.go; these constants are the vocabulary both sides
// agree on.
const (
	MsgHello                 = "hello"
	MsgRequestVote           = "request_vote"
	MsgRequestVoteResponse   = "request_vote_response"
	MsgAppendEntries         = "append_entries"
	MsgAppendEntriesResponse = "append_entries_response"
	MsgPut                   = "put"
	MsgGet                   = "get"
	MsgOK                    = "ok"
	MsgRedirect              = "redirect"
	MsgFail                  = "fail"

	// MsgGetState and MsgGetStateResponse are a supplemented tooling
	// RPC (SPEC_FULL "Supplemented features"), grounded on the
	// teacher's Server.GetState/GetLeader: any replica answers
	// regardless of role, so raftctl-style tooling can poll cluster
	// state without knowing who the leader is in advance.
	MsgGetState         = "get_state"
	MsgGetStateResponse = "get_state_response"
)

// LogEntry is an immutable record appended to the log. Index 0 of a Log
// is always the sentinel entry {Term: 0, Key: "0", Value: "0"}.
type LogEntry struct {
	Term  uint64 `json:"term"`
	Key   string `json:"key"`
	Value string `json:"value"`
	MID   string `json:"MID"`
	Src   string `json:"src"`
}

// appendEntriesBatch bounds per-RPC replication work (spec §4.4).
const appendEntriesBatch = 50
