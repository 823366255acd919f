package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
)

func (w *FeedWorker) RetryDLQ(ctx context.Context) {
	if w.ES == nil {
		return
	}
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var dlqs []models.DLQ
			if err := w.DB.WithContext(ctx).Where("resolved = ?", false).Limit(50).Find(&dlqs).Error; err != nil {
				log.Printf("DLQ fetch error: %v", err)
				continue
			}
			for _, d := range dlqs {
				if err := w.Retry(ctx, d); err != nil {
					log.Printf("DLQ id=%d still failing: %v", d.ID, err)
				}
			}
		}
	}
}

// Retry re-applies one DLQ entry and marks it resolved on success.
func (w *FeedWorker) Retry(ctx context.Context, d models.DLQ) error {
	if w.ES == nil {
		return fmt.Errorf("search index is not configured")
	}
	log.Printf("♻️ Retrying DLQ id=%d entity=%s op=%s", d.ID, d.EntityType, d.Op)
	ob := models.Outbox{
		ID:         d.OutboxID,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Op:         d.Op,
		Payload:    d.Payload,
	}
	bi, err := w.newBulkIndexer()
	if err != nil {
		return err
	}
	if err := w.applyEvent(ctx, bi, ob); err != nil {
		_ = bi.Close(ctx)
		return err
	}
	if err := bi.Close(ctx); err != nil {
		return err
	}
	if bi.Stats().NumFailed > 0 {
		return fmt.Errorf("bulk retry failed")
	}
	if err := MarkResolved(w.DB, d.ID); err != nil {
		return err
	}
	metrics.ProcessedEvents.Inc()
	log.Printf("✅ DLQ id=%d resolved", d.ID)
	return nil
}
