package tools

import (
	"context"
	"fmt"
	"strings"

	"query-gateway/internal/agent"
	"query-gateway/internal/retrieval"
)

// ValueSearchTool looks up stored values close to free text in one collection.
type ValueSearchTool struct {
	name        string
	description string
	collection  string
	k           int
	searcher    retrieval.ValueSearcher
}

// NewSearchProperNounsTool creates the search_proper_nouns tool.
func NewSearchProperNounsTool(searcher retrieval.ValueSearcher) agent.Tool {
	return &ValueSearchTool{
		name:        NameSearchProperNouns,
		description: "Use to look up the exact spelling of a proper noun such as a table or entity name before filtering on it.",
		collection:  retrieval.CollectionTables,
		k:           retrieval.ProperNounK,
		searcher:    searcher,
	}
}

// NewSearchCountryTool creates the search_country tool.
func NewSearchCountryTool(searcher retrieval.ValueSearcher) agent.Tool {
	return &ValueSearchTool{
		name:        NameSearchCountry,
		description: "Use to find the country values stored in the database that match the user's wording. Only filter on values returned here.",
		collection:  retrieval.CollectionCountries,
		k:           retrieval.CountryK,
		searcher:    searcher,
	}
}

func (t *ValueSearchTool) Name() string        { return t.name }
func (t *ValueSearchTool) Description() string { return t.description }

func (t *ValueSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The text to look up",
			},
		},
		"required": []string{"query"},
	}
}

func (t *ValueSearchTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	query, ok := params["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query parameter is required")
	}
	values, err := t.searcher.SearchValues(ctx, t.collection, query, t.k)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	if len(values) == 0 {
		return "No matching values found.", nil
	}
	return strings.Join(values, "\n"), nil
}
