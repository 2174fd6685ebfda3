package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/aicms-cli/internal/adapters/session/file"
	passstore "github.com/bnema/aicms-cli/internal/adapters/session/pass"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
)

// Store reads from primary and falls back when the primary fails or holds no
// session. Clear always reaches both backends and fails unless both end up
// empty.
type Store struct {
	primary  ports.SessionStore
	fallback ports.SessionStore
}

var _ ports.SessionStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary session store is nil")
	errNilFallbackStore = errors.New("fallback session store is nil")
)

func NewStore(primary ports.SessionStore, fallback ports.SessionStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SessionStore, fallback ports.SessionStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

func NewPassFirstWithFileFallback(fileDir string) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileDir))
}

func (s *Store) Get(ctx context.Context) (domain.Session, error) {
	value, err := s.primary.Get(ctx)
	if err == nil && value.Authenticated() {
		return value, nil
	}
	if err != nil && shouldSkipFallback(err) {
		return domain.Session{}, err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx)
	if fallbackErr == nil {
		return fallbackValue, nil
	}
	if err == nil {
		return value, nil
	}

	return domain.Session{}, fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (s *Store) Set(ctx context.Context, value domain.Session) error {
	err := s.primary.Set(ctx, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Set(ctx, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Clear(ctx context.Context) error {
	err := s.primary.Clear(ctx)
	if err != nil && shouldSkipFallback(err) {
		return err
	}
	// Without pass nothing can have been stored there.
	if errors.Is(err, passstore.ErrUnavailable) {
		err = nil
	}

	fallbackErr := s.fallback.Clear(ctx)
	switch {
	case err == nil && fallbackErr == nil:
		return nil
	case fallbackErr == nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	case err == nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	}

	return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
