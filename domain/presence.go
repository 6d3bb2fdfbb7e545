package domain

import "time"

// Presence is a user's published online/offline status. Only the owner
// writes their own record, so last-write-wins needs no conflict handling.
type Presence struct {
	Online   bool
	LastSeen time.Time
}
