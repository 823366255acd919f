package services

import (
	"encoding/json"
	"log"

	"github.com/sirdesai22/event-site/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddOutboxEvent records a change in the same transaction as the write, so the
// feed worker sees exactly the committed changes.
func AddOutboxEvent(tx *gorm.DB, entityType string, entityID string, op string, payload any) error {
	var data []byte
	if payload != nil {
		data, _ = json.Marshal(payload)
	}

	event := models.Outbox{
		EntityType: entityType,
		EntityID:   entityID,
		Op:         op,
		Payload:    datatypes.JSON(data),
	}

	if err := tx.Create(&event).Error; err != nil {
		log.Printf("❌ Failed to create outbox event: %v", err)
		return err
	}
	return nil
}
