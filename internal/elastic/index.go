// internal/elastic/index.go
package elastic

import (
	"bytes"
	"context"
	"fmt"

	es "github.com/elastic/go-elasticsearch/v8"
)

const (
	IdxContacts      = "contact_submissions_v1"
	IdxRegistrations = "registrations_v1"
)

func EnsureIndexes(ctx context.Context, c *es.Client) error {
	mapping := `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
		"name":{"type":"text"},"email":{"type":"text"},"subject":{"type":"text"},
		"message":{"type":"text"},"created_at":{"type":"date"}
	}}}`
	if err := ensure(ctx, c, IdxContacts, mapping); err != nil {
		return err
	}

	mapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
		"name":{"type":"text"},"email":{"type":"text"},"company_name":{"type":"text"},
		"state":{"type":"keyword"},"place":{"type":"text"},"lunch_preference":{"type":"keyword"},
		"payment_status":{"type":"keyword"},"created_at":{"type":"date"}
	}}}`
	return ensure(ctx, c, IdxRegistrations, mapping)
}

func ensure(ctx context.Context, c *es.Client, index, body string) error {
	exists, err := c.Indices.Exists([]string{index}, c.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	res, err := c.Indices.Create(index, c.Indices.Create.WithBody(bytes.NewBufferString(body)), c.Indices.Create.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}
