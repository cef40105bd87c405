package household

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Provisioner creates the per-household resources (pantry, shopping list)
// after a household is created.
type Provisioner interface {
	Provision(ctx context.Context, householdID string) error
}

type Service struct {
	repo        Repository
	provisioner Provisioner
	cache       Cache
	cacheTTL    time.Duration
	inviteTTL   time.Duration
}

func NewService(repo Repository, provisioner Provisioner, cache Cache, cacheTTL, inviteTTL time.Duration) *Service {
	if cache == nil {
		cache = NoopCache()
	}
	if inviteTTL <= 0 {
		inviteTTL = DefaultInviteTTL
	}
	return &Service{
		repo:        repo,
		provisioner: provisioner,
		cache:       cache,
		cacheTTL:    cacheTTL,
		inviteTTL:   inviteTTL,
	}
}

// Get returns the household the user belongs to.
func (s *Service) Get(ctx context.Context, userID string) (*Household, error) {
	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	h, err := s.repo.GetHouseholdByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.SetByUserID(userID, h, s.cacheTTL)
	return h, nil
}

func (s *Service) GetWithMembers(ctx context.Context, userID, householdID string) (*HouseholdWithMembers, error) {
	if _, err := s.requireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	h, err := s.repo.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	members, err := s.repo.ListMemberProfiles(ctx, householdID)
	if err != nil {
		return nil, err
	}

	return &HouseholdWithMembers{Household: *h, Members: members}, nil
}

// Create makes the user owner of a new household. A user who already owns
// one gets ErrAlreadyOwner; a plain membership in another household is
// dropped, since nobody can belong to two households at once.
func (s *Service) Create(ctx context.Context, userID, name string) (*Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		owns, err := tx.OwnsHousehold(ctx, userID)
		if err != nil {
			return err
		}
		if owns {
			return ErrAlreadyOwner
		}

		member, err := tx.GetMemberByUser(ctx, userID)
		if err != nil && !errors.Is(err, ErrMemberNotFound) {
			return err
		}
		if member != nil {
			if err := tx.DeleteMember(ctx, member.HouseholdID, userID); err != nil {
				return err
			}
		}

		h := Household{
			ID:      uuid.NewString(),
			Name:    name,
			OwnerID: userID,
		}
		if err := tx.CreateHousehold(ctx, &h); err != nil {
			return err
		}

		if err := tx.AddMember(ctx, &Member{
			HouseholdID: h.ID,
			UserID:      userID,
			Role:        RoleOwner,
		}); err != nil {
			return err
		}

		result = h
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.provisioner != nil {
		if err := s.provisioner.Provision(ctx, result.ID); err != nil {
			return nil, err
		}
	}

	s.cache.DeleteByUserID(userID)
	return &result, nil
}

func (s *Service) Rename(ctx context.Context, userID, householdID, name string) (*Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	if _, err := s.requireOwner(ctx, householdID, userID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateHouseholdName(ctx, householdID, name); err != nil {
		return nil, err
	}

	// Members other than the owner may hold a stale cached name.
	s.cache.Clear()

	return s.repo.GetHousehold(ctx, householdID)
}

// Delete removes the household. Only the owner may delete, and only once
// every other member has left.
func (s *Service) Delete(ctx context.Context, userID, householdID string) error {
	if _, err := s.requireOwner(ctx, householdID, userID); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		count, err := tx.CountMembers(ctx, householdID)
		if err != nil {
			return err
		}
		if count > 1 {
			return ErrHasOtherMembers
		}

		if err := tx.DeleteMembersByHousehold(ctx, householdID); err != nil {
			return err
		}
		return tx.DeleteHousehold(ctx, householdID)
	})
	if err != nil {
		return err
	}

	s.cache.Clear()
	return nil
}

func (s *Service) ListMembers(ctx context.Context, userID, householdID string) ([]MemberProfile, error) {
	if _, err := s.requireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberProfiles(ctx, householdID)
}

// Invite creates a pending invitation for the email. Owner only. Emails
// that already belong to a member, or already have a pending invitation,
// are rejected.
func (s *Service) Invite(ctx context.Context, actorID, householdID, email string) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email is invalid")
	}

	if _, err := s.requireOwner(ctx, householdID, actorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var result Invitation
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		isMember, err := tx.IsEmailMember(ctx, householdID, email)
		if err != nil {
			return err
		}
		if isMember {
			return ErrAlreadyMember
		}

		pending, err := tx.HasPendingInvitation(ctx, householdID, email, now)
		if err != nil {
			return err
		}
		if pending {
			return ErrDuplicateInvite
		}

		token, err := newInviteToken()
		if err != nil {
			return err
		}

		invitation := Invitation{
			ID:           uuid.NewString(),
			HouseholdID:  householdID,
			InvitedEmail: email,
			Token:        token,
			ExpiresAt:    now.Add(s.inviteTTL),
		}
		if err := tx.CreateInvitation(ctx, &invitation); err != nil {
			return err
		}

		result = invitation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) ListInvitations(ctx context.Context, actorID, householdID string) ([]Invitation, error) {
	if _, err := s.requireOwner(ctx, householdID, actorID); err != nil {
		return nil, err
	}
	return s.repo.ListInvitations(ctx, householdID)
}

func (s *Service) RevokeInvitation(ctx context.Context, actorID, householdID, invitationID string) error {
	if _, err := s.requireOwner(ctx, householdID, actorID); err != nil {
		return err
	}

	if _, err := s.repo.GetInvitation(ctx, householdID, invitationID); err != nil {
		return err
	}

	return s.repo.DeleteInvitation(ctx, invitationID)
}

// Accept resolves the token to a pending invitation addressed to the user
// and joins them to the household. Consumed invitations behave as unknown
// tokens; they are never reusable.
func (s *Service) Accept(ctx context.Context, user UserSnapshot, token string) (*Household, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}

	now := time.Now().UTC()

	var result Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		invitation, err := tx.GetInvitationByToken(ctx, token)
		if err != nil {
			return err
		}
		if invitation.ConsumedAt != nil {
			return ErrInvitationNotFound
		}
		if !strings.EqualFold(invitation.InvitedEmail, user.Email) {
			return ErrInviteeMismatch
		}
		if invitation.Expired(now) {
			return ErrInvitationExpired
		}

		inHousehold, err := tx.IsUserInHousehold(ctx, user.ID)
		if err != nil {
			return err
		}
		if inHousehold {
			return ErrAlreadyMember
		}

		if err := tx.AddMember(ctx, &Member{
			HouseholdID: invitation.HouseholdID,
			UserID:      user.ID,
			Role:        RoleMember,
		}); err != nil {
			return err
		}

		if err := tx.ConsumeInvitation(ctx, invitation.ID, now); err != nil {
			return err
		}

		h, err := tx.GetHousehold(ctx, invitation.HouseholdID)
		if err != nil {
			return err
		}

		result = *h
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByUserID(user.ID)
	return &result, nil
}

// IsMember reports whether the user belongs to the household. Used by the
// pantry, shopping and recipe services for access checks.
func (s *Service) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	_, err := s.repo.GetMember(ctx, householdID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HouseholdIDForUser resolves the caller's household id, reporting found
// instead of an error so consumers can map absence to their own types.
func (s *Service) HouseholdIDForUser(ctx context.Context, userID string) (string, bool, error) {
	h, err := s.Get(ctx, userID)
	if errors.Is(err, ErrHouseholdNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return h.ID, true, nil
}

func (s *Service) requireMember(ctx context.Context, householdID, userID string) (*Member, error) {
	member, err := s.repo.GetMember(ctx, householdID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		// Not-found and not-a-member deliberately look the same to the
		// caller so household existence never leaks.
		return nil, ErrHouseholdNotFound
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) requireOwner(ctx context.Context, householdID, userID string) (*Member, error) {
	member, err := s.requireMember(ctx, householdID, userID)
	if err != nil {
		return nil, err
	}
	if member.Role != RoleOwner {
		return nil, ErrNotOwner
	}
	return member, nil
}

func newInviteToken() (string, error) {
	var b [24]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
