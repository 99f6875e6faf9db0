package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ucsb-cs156/crudapi/internal/app/models"
	"github.com/ucsb-cs156/crudapi/internal/app/repositories"
	"github.com/ucsb-cs156/crudapi/internal/pkg/apperrors"
	"github.com/ucsb-cs156/crudapi/internal/pkg/metrics"
)

// CrudService defines the operations every entity route exposes
type CrudService[T any] interface {
	Kind() *models.Kind[T]
	ListAll(ctx context.Context) ([]*T, error)
	GetByKey(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id int64, incoming *T) (*T, error)
	// Delete removes the entity and returns the confirmation message.
	Delete(ctx context.Context, id int64) (string, error)
}

// crudServiceImpl implements CrudService over a Repository
type crudServiceImpl[T any] struct {
	kind    *models.Kind[T]
	repo    repositories.Repository[T]
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewCrudService creates a CRUD service for kind. m may be nil.
func NewCrudService[T any](kind *models.Kind[T], repo repositories.Repository[T], m *metrics.Metrics, logger zerolog.Logger) CrudService[T] {
	return &crudServiceImpl[T]{
		kind:    kind,
		repo:    repo,
		metrics: m,
		logger:  logger.With().Str("entity", kind.Name).Logger(),
	}
}

func (s *crudServiceImpl[T]) Kind() *models.Kind[T] {
	return s.kind
}

// ListAll returns every stored entity
func (s *crudServiceImpl[T]) ListAll(ctx context.Context) ([]*T, error) {
	items, err := s.repo.FindAll(ctx)
	s.record("list", err)
	if err != nil {
		return nil, fmt.Errorf("error retrieving %s list: %w", s.kind.Name, err)
	}
	return items, nil
}

// GetByKey returns the entity stored under id
func (s *crudServiceImpl[T]) GetByKey(ctx context.Context, id int64) (*T, error) {
	entity, err := s.find(ctx, id)
	s.record("get", err)
	return entity, err
}

// Create stores a new entity and returns it with its assigned id
func (s *crudServiceImpl[T]) Create(ctx context.Context, entity *T) (*T, error) {
	s.logger.Info().Fields(s.kind.ValueMap(entity)).Msg("Creating entity")

	// the storage engine assigns the key
	s.kind.SetID(entity, 0)
	saved, err := s.repo.Save(ctx, entity)
	s.record("create", err)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating %s: %w", s.kind.Name, err)
	}
	return saved, nil
}

// Update replaces every mutable field of the entity stored under id with
// the fields of incoming. The id itself never changes.
func (s *crudServiceImpl[T]) Update(ctx context.Context, id int64, incoming *T) (*T, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		s.record("update", err)
		return nil, err
	}

	s.kind.Apply(existing, incoming)
	saved, err := s.repo.Save(ctx, existing)
	if errors.Is(err, repositories.ErrNotFound) {
		// deleted between lookup and save
		err = apperrors.NewEntityNotFoundError(s.kind.Name, id)
	}
	s.record("update", err)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating %s: %w", s.kind.Name, err)
	}
	return saved, nil
}

// Delete removes the entity stored under id
func (s *crudServiceImpl[T]) Delete(ctx context.Context, id int64) (string, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		s.record("delete", err)
		return "", err
	}

	err = s.repo.Delete(ctx, existing)
	if errors.Is(err, repositories.ErrNotFound) {
		err = apperrors.NewEntityNotFoundError(s.kind.Name, id)
	}
	s.record("delete", err)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("error deleting %s: %w", s.kind.Name, err)
	}

	return fmt.Sprintf("%s with id %d deleted", s.kind.Name, id), nil
}

// find looks up id and converts a miss into EntityNotFoundError
func (s *crudServiceImpl[T]) find(ctx context.Context, id int64) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewEntityNotFoundError(s.kind.Name, id)
		}
		return nil, fmt.Errorf("error retrieving %s: %w", s.kind.Name, err)
	}
	return entity, nil
}

func (s *crudServiceImpl[T]) record(op string, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, apperrors.ErrConflict):
		outcome = metrics.OutcomeConflict
	default:
		outcome = metrics.OutcomeError
		s.logger.Error().Err(err).Str("operation", op).Msg("CRUD operation failed")
	}
	s.metrics.RecordOperation(s.kind.Name, op, outcome)
}
