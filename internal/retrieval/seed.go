package retrieval

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"query-gateway/internal/model"
	"query-gateway/internal/sqlstore"
)

// SeedData is everything an index is built from.
type SeedData struct {
	Exemplars []model.Exemplar
	// Values maps a value collection to its members.
	Values map[string][]string
}

// LoadExemplars reads question/query pairs from a YAML list.
func LoadExemplars(path string) ([]model.Exemplar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exemplars: %w", err)
	}
	var out []model.Exemplar
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse exemplars %s: %w", path, err)
	}

	kept := out[:0]
	for _, ex := range out {
		ex.Input = strings.TrimSpace(ex.Input)
		ex.Query = strings.TrimSpace(ex.Query)
		if ex.Input == "" || ex.Query == "" {
			continue
		}
		kept = append(kept, ex)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExemplars, path)
	}
	return kept, nil
}

// BuildSeed collects the value collections from the relational store.
// countryQuery may be empty, leaving search_country without values.
func BuildSeed(ctx context.Context, store sqlstore.Store, exemplars []model.Exemplar, countryQuery string) (SeedData, error) {
	seed := SeedData{Exemplars: exemplars, Values: map[string][]string{}}

	tables, err := store.ListTables(ctx)
	if err != nil {
		return SeedData{}, fmt.Errorf("seed tables: %w", err)
	}
	seed.Values[CollectionTables] = tables

	if countryQuery != "" {
		countries, err := store.DistinctValues(ctx, countryQuery)
		if err != nil {
			return SeedData{}, fmt.Errorf("seed countries: %w", err)
		}
		seed.Values[CollectionCountries] = countries
	}
	return seed, nil
}
