package retrieval

import (
	"context"

	"query-gateway/internal/model"
)

// Collections of the value index.
const (
	CollectionExamples  = "sql_examples"
	CollectionCountries = "country_values"
	CollectionTables    = "table_names"
)

// Result sizes used by the search tools.
const (
	DefaultK    = 2
	CountryK    = 5
	ProperNounK = 1
)

// Retriever returns the exemplars most similar to a question, best first.
// For a fixed index the result is deterministic.
type Retriever interface {
	Select(ctx context.Context, question string, k int) ([]model.Exemplar, error)
}

// ValueSearcher finds stored values close to free text, used to spell
// proper nouns the way the database does.
type ValueSearcher interface {
	SearchValues(ctx context.Context, collection, text string, k int) ([]string, error)
}

// Index is a Retriever and ValueSearcher over one seed set.
type Index interface {
	Retriever
	ValueSearcher
}
