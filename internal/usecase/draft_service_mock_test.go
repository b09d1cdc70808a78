package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/racha-hq/racha-manager/internal/domain/draft"
	draftmock "github.com/racha-hq/racha-manager/internal/mocks/domain/draft"
	"github.com/racha-hq/racha-manager/internal/platform/cache"
)

func TestDraftService_ListHistory_LimitBounds(t *testing.T) {
	t.Parallel()

	t.Run("zero limit uses the default", func(t *testing.T) {
		t.Parallel()

		store := draftmock.NewHistoryStore(t)
		store.On("ListPublished", mock.Anything, "racha-jakarta-kamis", defaultHistoryLimit).
			Return([]draft.Session{}, nil).Once()

		svc := NewDraftService(store, nil, cache.NewStore(time.Minute))
		if _, err := svc.ListHistory(context.Background(), "racha-jakarta-kamis", 0); err != nil {
			t.Fatalf("list history: %v", err)
		}
	})

	t.Run("oversized limit is clamped", func(t *testing.T) {
		t.Parallel()

		store := draftmock.NewHistoryStore(t)
		store.On("ListPublished", mock.Anything, "racha-jakarta-kamis", maxHistoryLimit).
			Return([]draft.Session{}, nil).Once()

		svc := NewDraftService(store, nil, cache.NewStore(time.Minute))
		if _, err := svc.ListHistory(context.Background(), "racha-jakarta-kamis", 500); err != nil {
			t.Fatalf("list history: %v", err)
		}
	})
}

func TestDraftService_ListHistory_WrapsStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")

	store := draftmock.NewHistoryStore(t)
	store.On("ListPublished", mock.Anything, "racha-jakarta-kamis", defaultHistoryLimit).
		Return(nil, storeErr).Once()

	svc := NewDraftService(store, nil, cache.NewStore(time.Minute))
	_, err := svc.ListHistory(context.Background(), "racha-jakarta-kamis", 0)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestDraftService_GetActive_NotFoundWhenStoreEmpty(t *testing.T) {
	t.Parallel()

	store := draftmock.NewHistoryStore(t)
	store.On("GetActive", mock.Anything, "racha-jakarta-kamis").
		Return(draft.Session{}, false, nil).Once()

	svc := NewDraftService(store, nil, cache.NewStore(time.Minute))
	_, err := svc.GetActive(context.Background(), "racha-jakarta-kamis")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
