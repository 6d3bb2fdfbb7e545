package gate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"glue-connect/domain"
	apperrors "glue-connect/errors"
)

func Test_Complete(t *testing.T) {
	tests := []struct {
		name     string
		profile  domain.Profile
		complete bool
	}{
		{
			name: "professor with name, description and role is complete",
			profile: domain.Profile{
				UID:         "p1",
				Name:        "Dr. Rao",
				Description: "Distributed systems",
				Role:        domain.RoleProfessor,
			},
			complete: true,
		},
		{
			name: "placement officer without student fields is complete",
			profile: domain.Profile{
				UID:         "p2",
				Name:        "Meera",
				Description: "Placement cell",
				Role:        domain.RolePlacement,
			},
			complete: true,
		},
		{
			name: "student with USN and 10-digit phone is complete",
			profile: domain.Profile{
				UID:         "s1",
				Name:        "Asha",
				Description: "Final year",
				Role:        domain.RoleStudent,
				USN:         "1MS21CS001",
				Phone:       "9876543210",
			},
			complete: true,
		},
		{
			name: "missing name",
			profile: domain.Profile{
				UID:         "p3",
				Description: "Anonymous",
				Role:        domain.RoleProfessor,
			},
			complete: false,
		},
		{
			name: "missing description",
			profile: domain.Profile{
				UID:  "p4",
				Name: "Ghost",
				Role: domain.RoleProfessor,
			},
			complete: false,
		},
		{
			name: "missing role",
			profile: domain.Profile{
				UID:         "p5",
				Name:        "Ghost",
				Description: "No role",
			},
			complete: false,
		},
		{
			name: "student without phone",
			profile: domain.Profile{
				UID:         "s2",
				Name:        "Ravi",
				Description: "Second year",
				Role:        domain.RoleStudent,
				USN:         "1MS22CS002",
			},
			complete: false,
		},
		{
			name: "student with 9-digit phone",
			profile: domain.Profile{
				UID:         "s3",
				Name:        "Ravi",
				Description: "Second year",
				Role:        domain.RoleStudent,
				USN:         "1MS22CS002",
				Phone:       "987654321",
			},
			complete: false,
		},
		{
			name: "student with non-numeric phone",
			profile: domain.Profile{
				UID:         "s4",
				Name:        "Ravi",
				Description: "Second year",
				Role:        domain.RoleStudent,
				USN:         "1MS22CS002",
				Phone:       "98765o3210",
			},
			complete: false,
		},
		{
			name: "student without USN",
			profile: domain.Profile{
				UID:         "s5",
				Name:        "Ravi",
				Description: "Second year",
				Role:        domain.RoleStudent,
				Phone:       "9876543210",
			},
			complete: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := Complete(tt.profile)
			if tt.complete {
				req.NoError(err)
				req.True(CompleteOK(tt.profile))
			} else {
				req.ErrorIs(err, apperrors.ErrIncompleteProfile)
				req.False(CompleteOK(tt.profile))
			}
		})
	}
}
