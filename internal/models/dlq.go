package models

import "time"

// DLQ holds outbox events whose search indexing failed.
type DLQ struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	OutboxID   int64 `gorm:"index"`
	EntityType string
	EntityID   string
	Op         string
	ErrorMsg   string
	Payload    []byte
	CreatedAt  time.Time
	RetriedAt  *time.Time
	Resolved   bool `gorm:"default:false"`
}
