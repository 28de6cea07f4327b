// README: Quote service prices requests and keeps a history per session.
package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pabili/internal/modules/pricing"
	"pabili/internal/types"
)

var (
	ErrNotFound   = errors.New("quote not found")
	ErrBadRequest = errors.New("bad request")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Estimator interface {
	Estimate(ctx context.Context, in pricing.PricingInput) (pricing.PricingResult, error)
}

type Repository interface {
	Create(ctx context.Context, q *Quote) error
	Get(ctx context.Context, id types.ID) (*Quote, error)
	ListBySession(ctx context.Context, sessionID types.ID, limit int) ([]*Quote, error)
}

type Service struct {
	store   Repository
	pricing Estimator
	logger  *zap.Logger
	now     func() time.Time
}

// NewService builds a Service. A nil store disables persistence: quotes are
// still priced, but Get reports ErrNotFound and histories are empty.
func NewService(store Repository, pricing Estimator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, pricing: pricing, logger: logger, now: time.Now}
}

type CreateCommand struct {
	SessionID *types.ID
	Input     pricing.PricingInput
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Quote, error) {
	result, err := s.pricing.Estimate(ctx, cmd.Input)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return nil, err
	}

	q := &Quote{
		ID:        types.ID(uuid.NewString()),
		SessionID: cmd.SessionID,
		Input:     cmd.Input,
		Result:    result,
		Receipt:   pricing.Receipt(cmd.Input, result),
		CreatedAt: s.now().UTC(),
	}
	if s.store == nil {
		return q, nil
	}
	if err := s.store.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("store quote: %w", err)
	}
	q.Persisted = true
	s.logger.Debug("quote stored", zap.String("quote_id", string(q.ID)), zap.Float64("total", result.TotalCost))
	return q, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Quote, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	if s.store == nil {
		return nil, ErrNotFound
	}
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return q, s.reprice(ctx, q)
}

func (s *Service) ListBySession(ctx context.Context, sessionID types.ID, limit int) ([]*Quote, error) {
	if sessionID == "" {
		return nil, ErrBadRequest
	}
	if s.store == nil {
		return []*Quote{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	quotes, err := s.store.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for _, q := range quotes {
		if err := s.reprice(ctx, q); err != nil {
			return nil, err
		}
	}
	if quotes == nil {
		quotes = []*Quote{}
	}
	return quotes, nil
}

// reprice fills Result and Receipt from the stored input.
func (s *Service) reprice(ctx context.Context, q *Quote) error {
	result, err := s.pricing.Estimate(ctx, q.Input)
	if err != nil {
		return fmt.Errorf("reprice quote %s: %w", q.ID, err)
	}
	q.Result = result
	q.Receipt = pricing.Receipt(q.Input, result)
	return nil
}
