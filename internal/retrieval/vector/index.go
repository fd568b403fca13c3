package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"query-gateway/internal/model"
	"query-gateway/internal/retrieval"
	"query-gateway/pkg/log"
	"query-gateway/pkg/qdrant"
	"query-gateway/pkg/voyage"
)

const (
	logPrefixSeed = "internal.retrieval.vector.Seed"
	embedBatch    = 64
)

// Store is the subset of the Qdrant client the index uses.
type Store interface {
	EnsureCollection(ctx context.Context, req qdrant.CreateCollectionRequest) error
	UpsertPoints(ctx context.Context, collectionName string, req qdrant.UpsertPointsRequest) error
	SearchPoints(ctx context.Context, collectionName string, req qdrant.SearchRequest) (*qdrant.SearchResponse, error)
}

// Index answers similarity queries from Qdrant with Voyage embeddings.
type Index struct {
	store      Store
	embedder   voyage.IVoyage
	vectorSize int
	l          log.Logger
}

var _ retrieval.Index = (*Index)(nil)

// New creates an index. Call Seed before the first query.
func New(store Store, embedder voyage.IVoyage, vectorSize int, l log.Logger) *Index {
	return &Index{store: store, embedder: embedder, vectorSize: vectorSize, l: l}
}

// Seed embeds and upserts every exemplar and value. Point ids derive from
// the content, so seeding twice is idempotent.
func (i *Index) Seed(ctx context.Context, seed retrieval.SeedData) error {
	inputs := make([]string, len(seed.Exemplars))
	payloads := make([]map[string]interface{}, len(seed.Exemplars))
	for n, ex := range seed.Exemplars {
		inputs[n] = ex.Input
		payloads[n] = map[string]interface{}{"input": ex.Input, "query": ex.Query}
	}
	if err := i.seedCollection(ctx, retrieval.CollectionExamples, inputs, payloads); err != nil {
		return err
	}

	for coll, values := range seed.Values {
		payloads := make([]map[string]interface{}, len(values))
		for n, v := range values {
			payloads[n] = map[string]interface{}{"value": v}
		}
		if err := i.seedCollection(ctx, coll, values, payloads); err != nil {
			return err
		}
	}
	return nil
}

func (i *Index) seedCollection(ctx context.Context, coll string, texts []string, payloads []map[string]interface{}) error {
	if err := i.store.EnsureCollection(ctx, qdrant.CreateCollectionRequest{
		Name:    coll,
		Vectors: qdrant.VectorConfig{Size: i.vectorSize, Distance: qdrant.DistanceCosine},
	}); err != nil {
		return fmt.Errorf("ensure collection %s: %w", coll, err)
	}

	for start := 0; start < len(texts); start += embedBatch {
		end := start + embedBatch
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := i.embedder.Embed(ctx, texts[start:end], voyage.InputTypeDocument)
		if err != nil {
			return fmt.Errorf("embed %s: %w", coll, err)
		}

		points := make([]qdrant.Point, len(vectors))
		for n, vec := range vectors {
			points[n] = qdrant.Point{
				ID:      pointID(coll, texts[start+n]),
				Vector:  vec,
				Payload: payloads[start+n],
			}
		}
		if err := i.store.UpsertPoints(ctx, coll, qdrant.UpsertPointsRequest{Points: points}); err != nil {
			return fmt.Errorf("upsert %s: %w", coll, err)
		}
	}
	i.l.Infof(ctx, "%s: collection=%s points=%d", logPrefixSeed, coll, len(texts))
	return nil
}

// Select returns up to k exemplars, most similar first.
func (i *Index) Select(ctx context.Context, question string, k int) ([]model.Exemplar, error) {
	hits, err := i.search(ctx, retrieval.CollectionExamples, question, k)
	if err != nil {
		return nil, err
	}
	out := make([]model.Exemplar, 0, len(hits))
	for _, h := range hits {
		ex := model.Exemplar{Input: h.PayloadString("input"), Query: h.PayloadString("query")}
		if ex.Input == "" || ex.Query == "" {
			continue
		}
		out = append(out, ex)
	}
	return out, nil
}

// SearchValues returns up to k values of collection, most similar first.
func (i *Index) SearchValues(ctx context.Context, collection, text string, k int) ([]string, error) {
	hits, err := i.search(ctx, collection, text, k)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if v := h.PayloadString("value"); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (i *Index) search(ctx context.Context, coll, text string, k int) ([]qdrant.ScoredPoint, error) {
	if k <= 0 {
		return nil, nil
	}
	vectors, err := i.embedder.Embed(ctx, []string{text}, voyage.InputTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	resp, err := i.store.SearchPoints(ctx, coll, qdrant.SearchRequest{Vector: vectors[0], Limit: k, WithPayload: true})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", coll, err)
	}
	return resp.Result, nil
}

func pointID(coll, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(coll+"\x00"+text)).String()
}
