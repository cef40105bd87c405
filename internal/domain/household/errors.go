package household

import "errors"

var (
	ErrHouseholdNotFound  = errors.New("household not found")
	ErrAlreadyOwner       = errors.New("already owns a household")
	ErrAlreadyMember      = errors.New("already a member")
	ErrHasOtherMembers    = errors.New("household has other members")
	ErrNotOwner           = errors.New("not owner")
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrInviteeMismatch    = errors.New("invitation addressed to a different email")
	ErrDuplicateInvite    = errors.New("pending invitation already exists")
)
