// internal/workers/feed_worker.go
package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/sirdesai22/event-site/internal/elastic"
	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/realtime"
	"gorm.io/gorm"
)

const batchSize = 200

// FeedWorker drains the outbox: every committed change is pushed to realtime
// subscribers of its path, and submissions are mirrored into Elasticsearch
// when ES is set.
type FeedWorker struct {
	DB  *gorm.DB
	ES  *es.Client
	Hub *realtime.Hub
}

func (w *FeedWorker) Run(ctx context.Context) {
	if w.ES != nil {
		if err := elastic.EnsureIndexes(ctx, w.ES); err != nil {
			log.Printf("❌ ensure indexes: %v", err)
		}
	}
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessOnce(ctx); err != nil {
				log.Printf("worker error: %v", err)
			}
		}
	}
}

// ProcessOnce handles one outbox batch.
func (w *FeedWorker) ProcessOnce(ctx context.Context) error {
	batch, err := FetchOutboxBatch(ctx, w.DB, batchSize)
	if err != nil {
		return err
	}
	if len(batch.Events) == 0 {
		return nil
	}

	var bi esutil.BulkIndexer
	if w.ES != nil {
		bi, err = w.newBulkIndexer()
		if err != nil {
			return err
		}
	}

	changed := map[string]bool{}
	var order []string
	for _, e := range batch.Events {
		if path := PathFor(e.EntityType); path != "" && !changed[path] {
			changed[path] = true
			order = append(order, path)
		}
		if bi == nil {
			metrics.ProcessedEvents.Inc()
			continue
		}
		if err := w.applyEvent(ctx, bi, e); err != nil {
			// already marked processed, park it in the DLQ
			metrics.FailedEvents.Inc()
			PutDLQ(w.DB, e, err.Error())
			log.Printf("DLQ outbox_id=%d: %v", e.ID, err)
			continue
		}
		metrics.ProcessedEvents.Inc()
	}

	if bi != nil {
		if err := bi.Close(ctx); err != nil {
			return err
		}
		stats := bi.Stats()
		log.Printf("bulk ok=%d failed=%d", stats.NumFlushed, stats.NumFailed)
	}

	if w.Hub != nil {
		for _, path := range order {
			if err := w.Hub.Notify(ctx, path); err != nil {
				log.Printf("❌ notify %s: %v", path, err)
			}
		}
	}
	return nil
}

// PathFor maps an outbox entity type to the realtime path it changes.
func PathFor(entityType string) string {
	switch entityType {
	case models.EntityContact:
		return realtime.PathContacts
	case models.EntityRegistration:
		return realtime.PathRegistrations
	case models.EntityAnnouncement:
		return realtime.PathAnnouncements
	case models.EntitySetting:
		return realtime.PathRegisterLink
	case models.EntityAccount:
		return realtime.PathUsers
	}
	return ""
}

func (w *FeedWorker) newBulkIndexer() (esutil.BulkIndexer, error) {
	return esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: w.ES, Index: "", FlushBytes: 5 << 20, NumWorkers: 2,
	})
}

// applyEvent indexes submissions; other entities have nothing to mirror.
func (w *FeedWorker) applyEvent(ctx context.Context, bi esutil.BulkIndexer, e models.Outbox) error {
	switch e.EntityType {
	case models.EntityContact:
		if e.Op == models.OpDelete {
			return w.add(ctx, bi, elastic.IdxContacts, e, "delete", nil)
		}
		var c models.ContactSubmission
		if err := w.DB.WithContext(ctx).First(&c, "id = ?", e.EntityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // deleted before we got here; the DELETE event follows
			}
			return err
		}
		doc, err := elastic.BuildContactDoc(c)
		if err != nil {
			return err
		}
		return w.add(ctx, bi, elastic.IdxContacts, e, "index", doc)

	case models.EntityRegistration:
		var r models.Registration
		if err := w.DB.WithContext(ctx).First(&r, "id = ?", e.EntityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		doc, err := elastic.BuildRegistrationDoc(r)
		if err != nil {
			return err
		}
		return w.add(ctx, bi, elastic.IdxRegistrations, e, "index", doc)

	case models.EntityAnnouncement, models.EntitySetting, models.EntityAccount:
		return nil
	}
	return fmt.Errorf("unknown entity_type=%s", e.EntityType)
}

func (w *FeedWorker) add(ctx context.Context, bi esutil.BulkIndexer, index string, e models.Outbox, action string, body []byte) error {
	item := esutil.BulkIndexerItem{
		Action:     action,
		DocumentID: e.EntityID,
		Index:      index,
		OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
			log.Printf("✅ synced %s id=%s", index, e.EntityID)
		},
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			msg := ""
			switch {
			case err != nil:
				msg = err.Error()
			case res.Error.Reason != "":
				msg = fmt.Sprintf("%s: %s", res.Error.Type, res.Error.Reason)
			default:
				msg = fmt.Sprintf("status=%d failed to index", res.Status)
			}
			PutDLQ(w.DB, e, msg)
			log.Printf("💀 DLQ created for outbox_id=%d index=%s id=%s reason=%s", e.ID, index, e.EntityID, msg)
		},
	}

	if len(body) > 0 {
		item.Body = bytes.NewReader(body)
	}
	return bi.Add(ctx, item)
}
