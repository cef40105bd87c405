package household

import (
	"context"
	"errors"
	"time"

	domain "pantry-pilot/internal/domain/household"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, householdID string) (*domain.Household, error) {
	var h domain.Household
	if err := r.db.WithContext(ctx).Where("id = ?", householdID).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) GetHouseholdByUser(ctx context.Context, userID string) (*domain.Household, error) {
	var h domain.Household
	err := r.db.WithContext(ctx).
		Table("households").
		Joins("join household_members on household_members.household_id = households.id").
		Where("household_members.user_id = ?", userID).
		Limit(1).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrHouseholdNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) GetHouseholdByOwner(ctx context.Context, ownerID string) (*domain.Household, error) {
	var h domain.Household
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) CreateHousehold(ctx context.Context, h *domain.Household) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *PostgresRepository) UpdateHouseholdName(ctx context.Context, householdID, name string) error {
	return r.db.WithContext(ctx).Model(&domain.Household{}).Where("id = ?", householdID).Update("name", name).Error
}

func (r *PostgresRepository) DeleteHousehold(ctx context.Context, householdID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Household{}, "id = ?", householdID).Error
}

func (r *PostgresRepository) OwnsHousehold(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Household{}).Where("owner_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, householdID, userID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).Where("household_id = ? AND user_id = ?", householdID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberByUser(ctx context.Context, userID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMemberProfiles(ctx context.Context, householdID string) ([]domain.MemberProfile, error) {
	type memberRow struct {
		UserID    string    `gorm:"column:user_id"`
		Role      string    `gorm:"column:role"`
		JoinedAt  time.Time `gorm:"column:joined_at"`
		Email     *string   `gorm:"column:email"`
		AvatarURL *string   `gorm:"column:avatar_url"`
	}

	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Table("household_members").
		Select("household_members.user_id, household_members.role, household_members.joined_at, user_profiles.email, user_profiles.avatar_url").
		Joins("left join user_profiles on user_profiles.user_id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	members := make([]domain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.MemberProfile{
			UserID:    row.UserID,
			Role:      row.Role,
			JoinedAt:  row.JoinedAt,
			Email:     row.Email,
			AvatarURL: row.AvatarURL,
		})
	}
	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, householdID, userID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Member{}, "household_id = ? AND user_id = ?", householdID, userID).Error
}

func (r *PostgresRepository) DeleteMembersByHousehold(ctx context.Context, householdID string) error {
	return r.db.WithContext(ctx).Where("household_id = ?", householdID).Delete(&domain.Member{}).Error
}

func (r *PostgresRepository) CountMembers(ctx context.Context, householdID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Member{}).Where("household_id = ?", householdID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IsUserInHousehold(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Member{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) IsEmailMember(ctx context.Context, householdID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("household_members").
		Joins("join user_profiles on user_profiles.user_id = household_members.user_id").
		Where("household_members.household_id = ? AND LOWER(user_profiles.email) = LOWER(?)", householdID, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateInvitation(ctx context.Context, invitation *domain.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *PostgresRepository) GetInvitation(ctx context.Context, householdID, invitationID string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	if err := r.db.WithContext(ctx).Where("id = ? AND household_id = ?", invitationID, householdID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) GetInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *PostgresRepository) ListInvitations(ctx context.Context, householdID string) ([]domain.Invitation, error) {
	var invitations []domain.Invitation
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at asc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (r *PostgresRepository) DeleteInvitation(ctx context.Context, invitationID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Invitation{}, "id = ?", invitationID).Error
}

func (r *PostgresRepository) HasPendingInvitation(ctx context.Context, householdID, email string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Invitation{}).
		Where("household_id = ? AND LOWER(invited_email) = LOWER(?) AND consumed_at IS NULL AND expires_at > ?", householdID, email, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ConsumeInvitation(ctx context.Context, invitationID string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Invitation{}).
		Where("id = ?", invitationID).
		Update("consumed_at", at).Error
}
