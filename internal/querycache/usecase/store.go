package usecase

import (
	"context"

	"query-gateway/internal/model"
	"query-gateway/internal/querycache"
	"query-gateway/internal/querycache/repository"
)

const (
	logPrefixGet      = "internal.querycache.usecase.Get"
	logPrefixPut      = "internal.querycache.usecase.Put"
	logPrefixFeedback = "internal.querycache.usecase.record"
)

// Get looks the signature up in memory, then in the repository.
// Repository failures degrade to a miss.
func (uc *implUseCase) Get(ctx context.Context, signature string) (model.CacheEntry, bool, error) {
	if signature == "" {
		return model.CacheEntry{}, false, querycache.ErrEmptySignature
	}
	if !uc.enabled {
		return model.CacheEntry{}, false, nil
	}
	if entry, ok := uc.front.Get(signature); ok {
		return entry, true, nil
	}

	entry, err := uc.repo.GetEntry(ctx, signature)
	if err != nil {
		uc.l.Warnf(ctx, "%s: treating store error as miss: %v", logPrefixGet, err)
		return model.CacheEntry{}, false, nil
	}
	if entry.Signature == "" {
		return model.CacheEntry{}, false, nil
	}
	uc.front.Add(signature, entry)
	return entry, true, nil
}

// Put overwrites the entry for signature in the repository and in memory.
func (uc *implUseCase) Put(ctx context.Context, signature, rawQuery, result string) error {
	if signature == "" {
		return querycache.ErrEmptySignature
	}
	entry := model.CacheEntry{
		Signature: signature,
		RawQuery:  rawQuery,
		Result:    result,
		StoredAt:  uc.now(),
	}
	if err := uc.repo.UpsertEntry(ctx, repository.UpsertEntryOptions{
		Signature: entry.Signature,
		RawQuery:  entry.RawQuery,
		Result:    entry.Result,
		StoredAt:  entry.StoredAt,
	}); err != nil {
		uc.front.Remove(signature)
		uc.l.Errorf(ctx, "%s: %v", logPrefixPut, err)
		return err
	}
	uc.front.Add(signature, entry)
	return nil
}

// RecordSuccess increments the success counter for signature.
func (uc *implUseCase) RecordSuccess(ctx context.Context, signature, rawQuery string) error {
	return uc.record(ctx, signature, rawQuery, repository.OutcomeSuccess)
}

// RecordFailure increments the failure counter for signature.
func (uc *implUseCase) RecordFailure(ctx context.Context, signature, rawQuery string) error {
	return uc.record(ctx, signature, rawQuery, repository.OutcomeFailure)
}

func (uc *implUseCase) record(ctx context.Context, signature, rawQuery string, outcome repository.Outcome) error {
	if signature == "" {
		return querycache.ErrEmptySignature
	}
	err := uc.repo.IncrementFeedback(ctx, repository.IncrementFeedbackOptions{
		Signature: signature,
		RawQuery:  rawQuery,
		Outcome:   outcome,
		UsedAt:    uc.now(),
	})
	if err != nil {
		uc.l.Errorf(ctx, "%s: %v", logPrefixFeedback, err)
	}
	return err
}

// Feedback returns the ledger row for signature.
func (uc *implUseCase) Feedback(ctx context.Context, signature string) (model.FeedbackRecord, bool, error) {
	if signature == "" {
		return model.FeedbackRecord{}, false, querycache.ErrEmptySignature
	}
	rec, err := uc.repo.GetFeedback(ctx, signature)
	if err != nil {
		return model.FeedbackRecord{}, false, err
	}
	return rec, rec.Signature != "", nil
}
