package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
)

// queryStringReserved are characters with meaning in query_string syntax.
var queryStringReserved = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `=`, `\=`, `&`, `\&`, `|`, `\|`, `!`, `\!`,
	`(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`,
	`"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `<`, ``, `>`, ``,
)

// ContactQuery builds a case-insensitive infix match over name, email and
// subject, newest first.
func ContactQuery(term string, size int) ([]byte, error) {
	var parts []string
	for _, w := range strings.Fields(strings.ToLower(term)) {
		parts = append(parts, "*"+queryStringReserved.Replace(w)+"*")
	}
	return json.Marshal(map[string]any{
		"size": size,
		"sort": []any{map[string]any{"created_at": "desc"}},
		"query": map[string]any{
			"query_string": map[string]any{
				"query":            strings.Join(parts, " AND "),
				"fields":           []string{"name", "email", "subject"},
				"analyze_wildcard": true,
			},
		},
	})
}

// SearchContacts returns the ids of matching contact submissions.
func SearchContacts(ctx context.Context, c *es.Client, term string, size int) ([]uuid.UUID, error) {
	body, err := ContactQuery(term, size)
	if err != nil {
		return nil, err
	}
	res, err := c.Search(
		c.Search.WithContext(ctx),
		c.Search.WithIndex(IdxContacts),
		c.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search contacts: %s", res.Status())
	}

	var out struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		id, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
