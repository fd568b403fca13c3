package response_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"query-gateway/pkg/response"
)

func TestDateTimeMarshalJSON(t *testing.T) {
	tm := time.Date(2024, 5, 1, 15, 30, 0, 0, time.FixedZone("ICT", 7*3600))

	b, err := json.Marshal(response.DateTime(tm))
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01 08:30:00"`, string(b))

	b, err = json.Marshal(struct {
		LastUsed response.DateTime `json:"last_used"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"last_used": null}`, string(b))
}
