package models

import "strings"

// Status is a Download state reported by the gateway. The full value set is
// owned by the server and may grow; clients must not assume a closed list.
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusPaused    Status = "PAUSED"
	StatusPreparing Status = "PREPARING"
	StatusRestoring Status = "RESTORING"
	StatusComplete  Status = "COMPLETE"
	StatusExpired   Status = "EXPIRED"
)

// StatusClassifier decides whether a Download status is terminal. It holds
// the non-terminal set, so statuses the server introduces later count as
// terminal instead of wedging a monitoring loop forever.
type StatusClassifier struct {
	nonTerminal map[Status]struct{}
}

func NewStatusClassifier(nonTerminal ...Status) *StatusClassifier {
	c := &StatusClassifier{nonTerminal: make(map[Status]struct{}, len(nonTerminal))}
	for _, s := range nonTerminal {
		c.nonTerminal[s] = struct{}{}
	}
	return c
}

// DefaultStatusClassifier treats the states a Download passes through before
// the gateway finishes staging data as non-terminal.
func DefaultStatusClassifier() *StatusClassifier {
	return NewStatusClassifier(StatusQueued, StatusPaused, StatusPreparing, StatusRestoring)
}

// ParseStatusClassifier builds a classifier from a comma-separated list of
// non-terminal statuses. An empty list yields the default classifier.
func ParseStatusClassifier(raw string) *StatusClassifier {
	var statuses []Status
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			statuses = append(statuses, Status(part))
		}
	}
	if len(statuses) == 0 {
		return DefaultStatusClassifier()
	}
	return NewStatusClassifier(statuses...)
}

func (c *StatusClassifier) IsTerminal(s Status) bool {
	_, ok := c.nonTerminal[s]
	return !ok
}
