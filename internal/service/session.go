package service

import (
	"context"
	"errors"

	"userbot/internal/domain"
	"userbot/internal/repository"

	"go.uber.org/zap"
)

// SessionStore loads and persists the session through a repository
type SessionStore struct {
	repo   repository.SessionRepository
	logger *zap.Logger
}

// NewSessionStore creates a new session store
func NewSessionStore(repo repository.SessionRepository, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		repo:   repo,
		logger: logger,
	}
}

// LoadOrCreate returns the stored session, or a fresh one if nothing is
// stored. It fails only on I/O errors or corrupt data.
func (s *SessionStore) LoadOrCreate(ctx context.Context) (*domain.Session, error) {
	blob, err := s.repo.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("No stored session, creating a new one", zap.String("location", s.repo.Location()))
		return domain.NewSession(), nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Location: s.repo.Location(), Err: err}
	}

	s.logger.Info("Session loaded", zap.String("location", s.repo.Location()))
	return domain.LoadedSession(blob), nil
}

// Save persists the session
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if err := s.repo.Save(ctx, session.Data()); err != nil {
		return &domain.StorageError{Op: "save", Location: s.repo.Location(), Err: err}
	}

	s.logger.Info("Session saved", zap.String("location", s.repo.Location()))
	return nil
}
