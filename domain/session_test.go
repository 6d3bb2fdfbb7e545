package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SessionID_Is_Commutative(t *testing.T) {
	req := require.New(t)
	req.Equal(SessionID("alice", "bob"), SessionID("bob", "alice"))
	req.Equal("alice__bob", SessionID("bob", "alice"))
}

func Test_SessionID_Distinct_Pairs_Get_Distinct_IDs(t *testing.T) {
	req := require.New(t)
	pairs := [][2]string{
		{"alice", "bob"},
		{"alice", "clara"},
		{"bob", "clara"},
		{"alice", "dan"},
	}
	seen := make(map[string]struct{})
	for _, p := range pairs {
		id := SessionID(p[0], p[1])
		_, duplicate := seen[id]
		req.False(duplicate, "id %s produced twice", id)
		seen[id] = struct{}{}
	}
}

func Test_Session_Participants(t *testing.T) {
	req := require.New(t)
	self := Profile{UID: "u1", Name: "Alice"}
	other := Profile{UID: "u2", Name: "Bob"}
	session := NewSession(self, other, time.Now().UTC())

	req.Equal(SessionID("u1", "u2"), session.ID)
	req.True(session.Contains("u1"))
	req.True(session.Contains("u2"))
	req.False(session.Contains("u3"))
	req.Equal("u2", session.OtherParticipant("u1"))
	req.Equal("u1", session.OtherParticipant("u2"))
	req.Equal("Alice", session.ParticipantNames["u1"])
	req.Equal("Bob", session.ParticipantNames["u2"])
	req.Empty(session.LastMessage)
}
