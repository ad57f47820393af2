package raft

import "log"

// replicaLogger centralizes the "[id] message" prefix the teacher repo
// sprinkles through server.go, so call sites stay one line.
type replicaLogger struct {
	id string
}

func (l replicaLogger) Printf(format string, args ...interface{}) {
	log.Printf("[%s] "+format, append([]interface{}{l.id}, args...)...)
}
