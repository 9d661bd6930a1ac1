package chat

import (
	"github.com/google/uuid"

	chat_errors "salon-chat/pkg/errors"
)

// Role labels supplied by the identity collaborator.
const (
	RoleCustomer   = "CUSTOMER"
	RoleUser       = "USER"
	RoleSalonOwner = "SALON_OWNER"
)

// Participant pairs a user id with the capability labels the identity
// collaborator reports for it.
type Participant struct {
	ID    uuid.UUID
	Roles []string
}

// HasCustomerRole reports whether the capability set includes the customer
// capability. Plain USER accounts count as customers.
func HasCustomerRole(roles []string) bool {
	for _, r := range roles {
		if r == RoleCustomer || r == RoleUser {
			return true
		}
	}
	return false
}

// HasSalonOwnerRole reports whether the capability set includes the salon
// owner capability.
func HasSalonOwnerRole(roles []string) bool {
	for _, r := range roles {
		if r == RoleSalonOwner {
			return true
		}
	}
	return false
}

// ResolvePair classifies two users into (customer, salon owner). Exactly one
// assignment must be resolvable; the owner/customer branch is checked first so
// a user holding both capabilities resolves the same way every time.
func ResolvePair(current, other Participant) (customerID, salonOwnerID uuid.UUID, err error) {
	if current.ID == other.ID {
		return uuid.Nil, uuid.Nil, chat_errors.ErrInvalidInput
	}

	switch {
	case HasSalonOwnerRole(current.Roles) && HasCustomerRole(other.Roles):
		return other.ID, current.ID, nil
	case HasCustomerRole(current.Roles) && HasSalonOwnerRole(other.Roles):
		return current.ID, other.ID, nil
	default:
		return uuid.Nil, uuid.Nil, chat_errors.ErrInvalidInput
	}
}
