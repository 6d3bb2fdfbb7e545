// Package gate decides whether a profile is complete enough to chat.
package gate

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"glue-connect/domain"
	apperrors "glue-connect/errors"
)

var validate = validator.New()

// shape covers the unconditional part of the completeness rule. The
// Student-specific fields are conditional on Role and are checked by hand.
type shape struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Role        string `validate:"required,oneof=Student Professor Placement"`
}

// Complete returns nil when the profile satisfies the completeness
// invariant: name, description and role present; if the role is Student,
// a USN and a phone of exactly 10 digits as well.
func Complete(p domain.Profile) error {
	s := shape{
		Name:        p.Name,
		Description: p.Description,
		Role:        string(p.Role),
	}
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrIncompleteProfile, err)
	}

	if p.Role == domain.RoleStudent {
		if p.USN == "" {
			return fmt.Errorf("%w: student without USN", apperrors.ErrIncompleteProfile)
		}
		if !isTenDigitPhone(p.Phone) {
			return fmt.Errorf("%w: student phone must be exactly 10 digits", apperrors.ErrIncompleteProfile)
		}
	}
	return nil
}

// CompleteOK is the boolean convenience used where only the verdict matters.
func CompleteOK(p domain.Profile) bool {
	return Complete(p) == nil
}

func isTenDigitPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
