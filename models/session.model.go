package models

import "time"

// CartSession backs the anonymous "sid" cookie.
type CartSession struct {
	Token     string    `gorm:"primaryKey;size:64" json:"token"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *CartSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
