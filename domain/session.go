package domain

import (
	"sort"
	"strings"
	"time"
)

// Session is a single two-party conversation. Its identity is derived
// from the participant pair, so both sides always compute the same id
// and a concurrent create by the counterpart lands on the same record.
type Session struct {
	ID               string
	Participants     []string
	ParticipantNames map[string]string
	LastMessage      string
	UpdatedAt        time.Time
}

// SessionID derives the session identity for an unordered uid pair.
// The two uids are sorted lexicographically and joined, which makes the
// result commutative and collision-free for exactly one session per pair.
func SessionID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "__")
}

// NewSession builds the initial session record for the given pair.
// LastMessage starts empty; it is a display hint updated on each send.
func NewSession(self, other Profile, at time.Time) Session {
	return Session{
		ID:           SessionID(self.UID, other.UID),
		Participants: []string{self.UID, other.UID},
		ParticipantNames: map[string]string{
			self.UID:  self.Name,
			other.UID: other.Name,
		},
		LastMessage: "",
		UpdatedAt:   at,
	}
}

// Contains reports whether uid participates in the session.
func (s Session) Contains(uid string) bool {
	for _, p := range s.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// OtherParticipant returns the counterpart of self, or "" if self is not
// a participant.
func (s Session) OtherParticipant(self string) string {
	for _, p := range s.Participants {
		if p != self {
			return p
		}
	}
	return ""
}
