package raft

import (
	"sync/atomic"
	"time"

	"github.com/oriolgt/raftkv/pkg/fsm"
	"github.com/oriolgt/raftkv/pkg/transport"
)

// observableState is the slice of replica state safe to read from a
// goroutine other than the one running Run — tooling and tests poll a
// replica's role/term/leader from outside the driver loop (e.g.
// simulator.Cluster.WaitForLeader), which would otherwise race with
// every field access §5 says only Run may touch. Run publishes a fresh
// copy after every iteration; nothing outside Run ever looks at the
// raw fields directly.
type observableState struct {
	role   Role
	term   uint64
	leader string
	kv     map[string]string
}

// pollInterval is how often Run wakes up when there is nothing else to
// do. It is not part of the protocol — just how a single cooperative
// loop avoids busy-spinning while still polling the transport at close
// to the "effectively zero timeout" spec §4.1 asks for.
const pollInterval = 2 * time.Millisecond

// Replica is the single-threaded, event-driven Raft core spec §2
// describes. Nothing inside it is touched from more than one
// goroutine: Run owns every field once started.
type Replica struct {
	id    string
	peers []string

	// Role State (§3 RoleState)
	currentTerm   uint64
	votedFor      string
	role          Role
	currentLeader string
	candidate     *candidateState // non-nil only while role == Candidate
	leader        *leaderState    // non-nil only while role == Leader

	// Log & State Machine (§3)
	log *Log
	kv  fsm.FSM

	// CommitState (§3)
	commitIndex int
	lastApplied int

	// Timers (§4.3)
	electionDeadline  time.Time
	heartbeatDeadline time.Time

	// Message Intake (§2, §4.2, §9 "message intake as bounded FIFO")
	intake []Message

	tr     transport.Transport
	logger replicaLogger

	stopCh chan struct{}

	// clock is overridable by tests that want deterministic timer
	// behavior; nil means time.Now.
	clock func() time.Time

	observable atomic.Value // holds observableState
}

// NewReplica constructs a replica in the Follower role at term 0 with
// an empty (sentinel-only) log, as §3's Lifecycle section requires.
func NewReplica(id string, peers []string, tr transport.Transport) *Replica {
	r := &Replica{
		id:     id,
		peers:  peers,
		role:   Follower,
		log:    NewLog(id),
		kv:     fsm.NewKVStore(),
		tr:     tr,
		logger: replicaLogger{id: id},
		stopCh: make(chan struct{}),
	}
	r.currentLeader = Broadcast
	r.resetElectionDeadline()
	r.publishObservable()
	return r
}

// publishObservable refreshes the atomic snapshot IsLeader/CurrentTerm/
// CurrentRole/Leader/Snapshot read from. Called once at construction
// and once per Run iteration — never from inside a protocol handler,
// so it always sees a fully settled state.
func (r *Replica) publishObservable() {
	r.observable.Store(observableState{
		role:   r.role,
		term:   r.currentTerm,
		leader: r.currentLeader,
		kv:     r.kv.Snapshot(),
	})
}

// Stop signals Run to exit after its current iteration.
func (r *Replica) Stop() {
	close(r.stopCh)
}

// Run is the driver loop (§4.1). It never blocks: each iteration drains
// whatever datagrams are currently available, fires whichever timer has
// elapsed, and dispatches the intake FIFO against the current role.
func (r *Replica) Run() error {
	if err := r.sendHello(); err != nil {
		return err
	}
	for {
		select {
		case <-r.stopCh:
			return nil
		default:
		}

		r.drainTransport()

		now := r.now()
		if r.role == Leader && !now.Before(r.heartbeatDeadline) {
			r.broadcastHeartbeat()
			r.resetHeartbeatDeadline()
		}
		if r.role != Leader && !now.Before(r.electionDeadline) {
			r.startElection()
		}

		r.dispatchIntake()
		r.publishObservable()

		time.Sleep(pollInterval)
	}
}

// drainTransport implements driver-loop step (a): read every datagram
// currently available without blocking, decode it, and append it to
// the intake FIFO in arrival order. Malformed datagrams are dropped
// silently per spec §7.
func (r *Replica) drainTransport() {
	for {
		data, ok, err := r.tr.TryRecv()
		if err != nil {
			r.logger.Printf("transport recv error: %v", err)
			return
		}
		if !ok {
			return
		}
		msg, err := decodeMessage(data)
		if err != nil {
			continue
		}
		r.intake = append(r.intake, msg)
	}
}

func (r *Replica) send(msg Message) {
	msg.Src = r.id
	msg.Leader = r.currentLeader
	data, err := msg.encode()
	if err != nil {
		r.logger.Printf("encode error: %v", err)
		return
	}
	if err := r.tr.Send(data); err != nil {
		r.logger.Printf("send error: %v", err)
	}
}

func (r *Replica) sendHello() error {
	r.send(Message{Dst: Broadcast, Type: MsgHello})
	return nil
}

// IsLeader, CurrentTerm, CurrentRole, and Leader are read-only
// in-process introspection for tests and the simulator; the get_state
// RPC (SPEC_FULL "Supplemented features") is answered separately by
// handleGetState from the live fields. They read the atomic snapshot
// publishObservable maintains rather than the live fields, so they are
// safe to call from a goroutine other than the one running Run — the
// live fields themselves remain single-threaded per §5.
func (r *Replica) snapshot() observableState {
	return r.observable.Load().(observableState)
}

func (r *Replica) IsLeader() bool      { return r.snapshot().role == Leader }
func (r *Replica) CurrentTerm() uint64 { return r.snapshot().term }
func (r *Replica) CurrentRole() Role   { return r.snapshot().role }
func (r *Replica) Leader() string      { return r.snapshot().leader }

// Snapshot returns a defensive copy of the committed kv state as of
// the last completed Run iteration, for tests. The get_state RPC does
// not carry kv state.
func (r *Replica) Snapshot() map[string]string {
	return r.snapshot().kv
}
