package chat

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	chat_errors "salon-chat/pkg/errors"
)

func TestResolvePair(t *testing.T) {
	customer := Participant{ID: uuid.New(), Roles: []string{RoleCustomer}}
	owner := Participant{ID: uuid.New(), Roles: []string{RoleSalonOwner}}
	plainUser := Participant{ID: uuid.New(), Roles: []string{RoleUser}}
	both := Participant{ID: uuid.New(), Roles: []string{RoleCustomer, RoleSalonOwner}}

	tests := []struct {
		name         string
		current      Participant
		other        Participant
		wantCustomer uuid.UUID
		wantOwner    uuid.UUID
		wantErr      bool
	}{
		{"customer starts", customer, owner, customer.ID, owner.ID, false},
		{"owner starts", owner, customer, customer.ID, owner.ID, false},
		{"plain user counts as customer", plainUser, owner, plainUser.ID, owner.ID, false},
		{"both customers", customer, plainUser, uuid.Nil, uuid.Nil, true},
		{"both owners", owner, owner2(), uuid.Nil, uuid.Nil, true},
		{"dual capability resolves as owner first", both, customer, customer.ID, both.ID, false},
		{"no roles", Participant{ID: uuid.New()}, owner, uuid.Nil, uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCustomer, gotOwner, err := ResolvePair(tt.current, tt.other)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, chat_errors.ErrInvalidInput) {
					t.Fatalf("want ErrInvalidInput, got %v", err)
				}
				return
			}
			if gotCustomer != tt.wantCustomer || gotOwner != tt.wantOwner {
				t.Fatalf("got (%s, %s), want (%s, %s)", gotCustomer, gotOwner, tt.wantCustomer, tt.wantOwner)
			}
		})
	}
}

func TestResolvePairRejectsSelf(t *testing.T) {
	id := uuid.New()
	self := Participant{ID: id, Roles: []string{RoleCustomer, RoleSalonOwner}}

	if _, _, err := ResolvePair(self, self); !errors.Is(err, chat_errors.ErrInvalidInput) {
		t.Fatalf("self conversation must fail with ErrInvalidInput, got %v", err)
	}
}

func owner2() Participant {
	return Participant{ID: uuid.New(), Roles: []string{RoleSalonOwner}}
}
