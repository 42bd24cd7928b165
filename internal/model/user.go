package model

import "time"

type Role string

const (
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// ValidRole reports whether s is one of the two account roles.
func ValidRole(s string) bool {
	return Role(s) == RoleProfessor || Role(s) == RoleStudent
}

type User struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                Role      `json:"role"`
	Bio                 *string   `json:"bio,omitempty"`
	Nationality         *string   `json:"nationality,omitempty"`
	Timezone            *string   `json:"timezone,omitempty"` // stored verbatim, never interpreted
	AvatarURL           *string   `json:"avatar_url,omitempty"`
	VideoURL            *string   `json:"video_url,omitempty"`
	Price               *int      `json:"price,omitempty"` // cents per lesson
	Level               *string   `json:"level,omitempty"`
	StripeAccountID     *string   `json:"-"`
	StripeAccountStatus *string   `json:"stripe_account_status,omitempty"`
	StripePayoutReady   bool      `json:"stripe_payout_ready"`
	CreatedAt           time.Time `json:"created_at"`
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
