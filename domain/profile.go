// Package domain contains core concepts of the communication system.
// Profiles are created and updated elsewhere in the portal; this core
// only reads them to decide who may chat.
package domain

type Role string

const (
	RoleStudent   Role = "Student"
	RoleProfessor Role = "Professor"
	RolePlacement Role = "Placement"
)

// Profile is the directory record of one portal user.
type Profile struct {
	UID         string
	Name        string
	Description string
	Role        Role
	USN         string
	Phone       string
}
