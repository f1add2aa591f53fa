package models

import "time"

type OutboxEvent struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	EventID   string     `gorm:"size:36;uniqueIndex;not null" json:"eventId"`
	Topic     string     `gorm:"size:100;not null" json:"topic"`
	Key       string     `gorm:"size:100" json:"key"`
	Payload   string     `gorm:"type:text;not null" json:"payload"`
	CreatedAt time.Time  `json:"createdAt"`
	SentAt    *time.Time `gorm:"index" json:"sentAt"`
}
