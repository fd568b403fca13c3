package lexical

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"query-gateway/internal/model"
	"query-gateway/internal/retrieval"
)

// Index ranks by token overlap. Ties keep seed order, so results are
// deterministic. It needs no external service and is read-only after New.
type Index struct {
	exemplars []model.Exemplar
	exTokens  []map[string]struct{}
	values    map[string][]string
	valTokens map[string][]map[string]struct{}
}

var _ retrieval.Index = (*Index)(nil)

// New builds an index over seed.
func New(seed retrieval.SeedData) *Index {
	idx := &Index{
		exemplars: append([]model.Exemplar(nil), seed.Exemplars...),
		values:    map[string][]string{},
		valTokens: map[string][]map[string]struct{}{},
	}
	for _, ex := range idx.exemplars {
		idx.exTokens = append(idx.exTokens, tokens(ex.Input))
	}
	for coll, vals := range seed.Values {
		idx.values[coll] = append([]string(nil), vals...)
		for _, v := range vals {
			idx.valTokens[coll] = append(idx.valTokens[coll], tokens(v))
		}
	}
	return idx
}

// Select returns up to k exemplars, most similar first.
func (i *Index) Select(_ context.Context, question string, k int) ([]model.Exemplar, error) {
	order := rank(tokens(question), i.exTokens, k)
	out := make([]model.Exemplar, len(order))
	for n, pos := range order {
		out[n] = i.exemplars[pos]
	}
	return out, nil
}

// SearchValues returns up to k values of collection, most similar first.
func (i *Index) SearchValues(_ context.Context, collection, text string, k int) ([]string, error) {
	toks, ok := i.valTokens[collection]
	if !ok {
		if _, known := i.values[collection]; !known {
			return nil, fmt.Errorf("%w: %s", retrieval.ErrUnknownCollection, collection)
		}
	}
	order := rank(tokens(text), toks, k)
	out := make([]string, len(order))
	for n, pos := range order {
		out[n] = i.values[collection][pos]
	}
	return out, nil
}

// rank orders candidates by Jaccard similarity to query and keeps k.
func rank(query map[string]struct{}, candidates []map[string]struct{}, k int) []int {
	if k <= 0 {
		return nil
	}
	type scored struct {
		pos   int
		score float64
	}
	all := make([]scored, len(candidates))
	for pos, cand := range candidates {
		all[pos] = scored{pos: pos, score: jaccard(query, cand)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].score > all[b].score })

	if len(all) > k {
		all = all[:k]
	}
	out := make([]int, len(all))
	for n, s := range all {
		out[n] = s.pos
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}

func tokens(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if _, stop := stopwords[f]; stop {
			continue
		}
		out[f] = struct{}{}
	}
	return out
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "for": {}, "to": {}, "me": {},
	"and": {}, "or": {}, "that": {}, "are": {}, "is": {}, "at": {}, "on": {}, "with": {},
}
