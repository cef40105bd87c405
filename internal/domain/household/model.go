package household

import "time"

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

const DefaultInviteTTL = 7 * 24 * time.Hour

type Household struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	OwnerID   string    `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Member is the (household, user) membership row. The unique index on
// UserID enforces one household per user.
type Member struct {
	HouseholdID string    `gorm:"type:uuid;primaryKey"`
	UserID      string    `gorm:"type:uuid;primaryKey;uniqueIndex"`
	Role        string    `gorm:"type:varchar(16);not null"`
	JoinedAt    time.Time `gorm:"autoCreateTime"`

	Household Household `gorm:"foreignKey:HouseholdID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Member) TableName() string {
	return "household_members"
}

type Invitation struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	HouseholdID  string     `gorm:"type:uuid;not null;index"`
	InvitedEmail string     `gorm:"not null"`
	Token        string     `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt    time.Time  `gorm:"not null"`
	ConsumedAt   *time.Time `gorm:"column:consumed_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`

	Household Household `gorm:"foreignKey:HouseholdID;references:ID;constraint:OnDelete:CASCADE"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

func (i *Invitation) Pending(now time.Time) bool {
	return i.ConsumedAt == nil && !i.Expired(now)
}

// MemberProfile is a membership row joined with the member's profile.
type MemberProfile struct {
	UserID    string
	Role      string
	JoinedAt  time.Time
	Email     *string
	AvatarURL *string
}

type HouseholdWithMembers struct {
	Household Household
	Members   []MemberProfile
}

// UserSnapshot carries the identity fields the invitation flow needs from
// the authenticated user.
type UserSnapshot struct {
	ID    string
	Email string
}
