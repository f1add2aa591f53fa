package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront_backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enqueue stores an event in the outbox. Pass the transaction that makes
// the change the event describes so both commit or neither does.
func Enqueue(tx *gorm.DB, topic, key, eventType string, data interface{}) error {
	eventID := uuid.NewString()
	payload, err := json.Marshal(Envelope{EventID: eventID, Type: eventType, Data: data})
	if err != nil {
		return err
	}
	return tx.Create(&models.OutboxEvent{
		EventID: eventID,
		Topic:   topic,
		Key:     key,
		Payload: string(payload),
	}).Error
}

func FetchPending(ctx context.Context, db *gorm.DB, limit int) ([]models.OutboxEvent, error) {
	var out []models.OutboxEvent
	err := db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("id").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func MarkSent(ctx context.Context, db *gorm.DB, id uint, at time.Time) error {
	return db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Update("sent_at", at).Error
}
