package elastic

import (
	"fmt"
	"log"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
)

// Connect builds a client for the submission search index. The index is an
// optional read model: callers treat errors as "search unavailable".
func Connect(url string) (*es.Client, error) {
	cfg := es.Config{
		Addresses:     []string{url},
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
		MaxRetries:    3,
		RetryBackoff:  func(attempt int) time.Duration { return time.Duration(attempt) * 200 * time.Millisecond },
	}
	client, err := es.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to Elasticsearch: %w", err)
	}
	log.Println("✅ Connected to Elasticsearch")
	return client, nil
}
