package users

import "time"

const RoleOwner = "owner"

// User is the portfolio owner. Only owners can sign in.
type User struct {
	ID           uint `gorm:"primaryKey"`
	Name         string
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password     *string `gorm:""`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`
	Role         string  `gorm:"type:varchar(20);not null;default:'owner'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}
