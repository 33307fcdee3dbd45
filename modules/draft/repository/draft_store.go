package repository

import (
	"context"
	"errors"
	"time"

	"campaign-platform/domain"
	"campaign-platform/pkg/cache"
)

// DraftStore keeps drafts in the cache under draft:{owner}:{id}. A draft that
// outlives its TTL is gone for good.
type DraftStore struct {
	cache cache.Client
	ttl   time.Duration
}

func NewDraftStore(cacheClient cache.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{cache: cacheClient, ttl: ttl}
}

func draftKey(ref domain.DraftRef) string {
	return cache.Key("draft", ref.OwnerID, ref.DraftID)
}

func (s *DraftStore) Save(ctx context.Context, draft *domain.CampaignDraft) error {
	ref := domain.DraftRef{OwnerID: draft.OwnerID, DraftID: draft.ID}
	return s.cache.SetJSON(ctx, draftKey(ref), draft, s.ttl)
}

// Find returns domain.ErrRecordNotFound for a missing or expired draft.
func (s *DraftStore) Find(ctx context.Context, ref domain.DraftRef) (*domain.CampaignDraft, error) {
	var draft domain.CampaignDraft
	if err := s.cache.GetJSON(ctx, draftKey(ref), &draft); err != nil {
		if errors.Is(err, cache.ErrKeyNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	if draft.Product.Colors == nil {
		draft.Product.Colors = []domain.DraftColor{}
	}
	if draft.Product.DetailImages == nil {
		draft.Product.DetailImages = []string{}
	}
	return &draft, nil
}

func (s *DraftStore) Delete(ctx context.Context, ref domain.DraftRef) error {
	return s.cache.Delete(ctx, draftKey(ref))
}

// Lock takes the per-draft mutation lock for owner. It returns false when
// another request holds it.
func (s *DraftStore) Lock(ctx context.Context, ref domain.DraftRef, owner string, ttl time.Duration) (bool, error) {
	return s.cache.Lock(ctx, draftKey(ref), owner, ttl)
}

func (s *DraftStore) Unlock(ctx context.Context, ref domain.DraftRef, owner string) error {
	return s.cache.Unlock(ctx, draftKey(ref), owner)
}
