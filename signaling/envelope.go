// Package signaling drives a peer audio connection through the
// offer/answer/ICE exchange, carried over a relay channel.
package signaling

import "github.com/pion/webrtc/v4"

type EnvelopeType string

const (
	TypeHello        EnvelopeType = "hello"
	TypeOffer        EnvelopeType = "offer"
	TypeAnswer       EnvelopeType = "answer"
	TypeICECandidate EnvelopeType = "ice-candidate"
	TypeHangup       EnvelopeType = "hangup"
)

// Envelope is the wire message exchanged through the relay. It is
// transient: nothing about it is ever persisted. SDP and Candidate are
// present only for the envelope types that carry them.
type Envelope struct {
	Type      EnvelopeType               `json:"type"`
	From      string                     `json:"from"`
	To        string                     `json:"to,omitempty"`
	ChatID    string                     `json:"chatId,omitempty"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}
