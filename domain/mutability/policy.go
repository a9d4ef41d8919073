// Package mutability decides whether a message may still be edited or deleted.
package mutability

import (
	"fmt"
	"time"
)

type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// DefaultWindow is the period after creation during which a message stays mutable.
const DefaultWindow = 1800 * time.Second

type Policy struct {
	Window time.Duration
}

// NewPolicy falls back to DefaultWindow when window is not positive.
func NewPolicy(window time.Duration) Policy {
	if window <= 0 {
		window = DefaultWindow
	}
	return Policy{Window: window}
}

// Decide allows a mutation while now - createdAt <= Window.
// The boundary itself is inclusive.
func (p Policy) Decide(createdAt, now time.Time) Decision {
	if now.Sub(createdAt) <= p.Window {
		return Allow
	}
	return Deny
}

// Reason is the caller-facing explanation of a Deny decision.
func (p Policy) Reason() string {
	if p.Window%time.Minute == 0 {
		return fmt.Sprintf("Message older than %d min", int(p.Window/time.Minute))
	}
	return fmt.Sprintf("Message older than %s", p.Window)
}
