package retrieval

import (
	"fmt"
	"strings"

	"query-gateway/internal/model"
)

// Format renders exemplars as numbered Input/Query blocks.
func Format(exemplars []model.Exemplar) string {
	var b strings.Builder
	for i, ex := range exemplars {
		fmt.Fprintf(&b, "Example %d:\nInput: %s\nQuery: %s\n\n", i+1, ex.Input, ex.Query)
	}
	return b.String()
}
