// internal/workers/repo.go
// claims outbox events for the feed worker and parks failed ones in the DLQ
package workers

import (
	"context"
	"log"
	"time"

	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxBatch struct{ Events []models.Outbox }

// FetchOutboxBatch claims up to limit unprocessed events, oldest first, and
// marks them processed in the same transaction.
func FetchOutboxBatch(ctx context.Context, db *gorm.DB, limit int) (OutboxBatch, error) {
	var evts []models.Outbox
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("processed = ?", false).Order("id asc").Limit(limit)
		// FOR UPDATE SKIP LOCKED to allow multiple workers
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Find(&evts).Error; err != nil {
			return err
		}
		if len(evts) == 0 {
			return nil
		}
		ids := make([]int64, len(evts))
		for i, e := range evts {
			ids[i] = e.ID
		}
		return tx.Model(&models.Outbox{}).Where("id IN ?", ids).Update("processed", true).Error
	})
	return OutboxBatch{Events: evts}, err
}

// PutDLQ inserts a failed outbox event into the DLQ table.
func PutDLQ(db *gorm.DB, ob models.Outbox, msg string) {
	metrics.DLQEvents.Inc()
	dlq := models.DLQ{
		OutboxID:   ob.ID,
		EntityType: ob.EntityType,
		EntityID:   ob.EntityID,
		Op:         ob.Op,
		ErrorMsg:   msg,
		Payload:    ob.Payload,
		CreatedAt:  time.Now(),
		Resolved:   false,
	}
	if err := db.Create(&dlq).Error; err != nil {
		log.Printf("❌ Failed to insert into DLQ: %v", err)
	} else {
		log.Printf("💀 DLQ record created for outbox_id=%d", ob.ID)
	}
}

// MarkResolved flags a DLQ entry as successfully retried.
func MarkResolved(db *gorm.DB, id int64) error {
	now := time.Now()
	return db.Model(&models.DLQ{}).Where("id = ?", id).Updates(map[string]any{
		"resolved":   true,
		"retried_at": &now,
	}).Error
}
