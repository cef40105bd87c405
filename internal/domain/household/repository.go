package household

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetHousehold(ctx context.Context, householdID string) (*Household, error)
	GetHouseholdByUser(ctx context.Context, userID string) (*Household, error)
	GetHouseholdByOwner(ctx context.Context, ownerID string) (*Household, error)
	CreateHousehold(ctx context.Context, h *Household) error
	UpdateHouseholdName(ctx context.Context, householdID, name string) error
	DeleteHousehold(ctx context.Context, householdID string) error
	OwnsHousehold(ctx context.Context, userID string) (bool, error)

	GetMember(ctx context.Context, householdID, userID string) (*Member, error)
	GetMemberByUser(ctx context.Context, userID string) (*Member, error)
	ListMemberProfiles(ctx context.Context, householdID string) ([]MemberProfile, error)
	AddMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, householdID, userID string) error
	DeleteMembersByHousehold(ctx context.Context, householdID string) error
	CountMembers(ctx context.Context, householdID string) (int64, error)
	IsUserInHousehold(ctx context.Context, userID string) (bool, error)
	IsEmailMember(ctx context.Context, householdID, email string) (bool, error)

	CreateInvitation(ctx context.Context, invitation *Invitation) error
	GetInvitation(ctx context.Context, householdID, invitationID string) (*Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*Invitation, error)
	ListInvitations(ctx context.Context, householdID string) ([]Invitation, error)
	DeleteInvitation(ctx context.Context, invitationID string) error
	HasPendingInvitation(ctx context.Context, householdID, email string, now time.Time) (bool, error)
	ConsumeInvitation(ctx context.Context, invitationID string, at time.Time) error
}
