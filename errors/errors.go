package errors

import "fmt"

var (
	ErrIncompleteProfile = fmt.Errorf("profile is incomplete")
	ErrPeerUnavailable   = fmt.Errorf("peer is not online")
	ErrNoOpenSession     = fmt.Errorf("no session is open")
	ErrRelayClosed       = fmt.Errorf("relay channel is closed")
	ErrNotFound          = fmt.Errorf("record not found")
)
