package elastic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactQuery(t *testing.T) {
	body, err := ContactQuery("  Priya  Acme:IN ", 50)
	require.NoError(t, err)

	var q struct {
		Size  int `json:"size"`
		Query struct {
			QueryString struct {
				Query  string   `json:"query"`
				Fields []string `json:"fields"`
			} `json:"query_string"`
		} `json:"query"`
	}
	require.NoError(t, json.Unmarshal(body, &q))
	assert.Equal(t, 50, q.Size)
	assert.Equal(t, `*priya* AND *acme\:in*`, q.Query.QueryString.Query)
	assert.Equal(t, []string{"name", "email", "subject"}, q.Query.QueryString.Fields)
}
