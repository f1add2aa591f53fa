package models

import (
	"time"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login
	Email    string `gorm:"unique;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`

	Name *string `gorm:"size:100" json:"name"`
	Role string  `gorm:"default:'USER';size:20;not null" json:"role"` // USER, ADMIN

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
