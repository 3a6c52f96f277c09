package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
)

const (
	statusCacheKey  = "catalog:ticket_statuses"
	outcomeCacheKey = "catalog:call_outcomes"
)

// Resolver maps status and outcome names to their catalog entries.
// Tickets store the id; code reads the name through this resolver.
type Resolver interface {
	StatusByName(ctx context.Context, name domain.StatusName) (domain.TicketStatus, bool, error)
	StatusByID(ctx context.Context, id int64) (domain.TicketStatus, bool, error)
	OutcomeByName(ctx context.Context, name domain.OutcomeName) (domain.CallOutcome, bool, error)
}

// cachedResolver serves the read-mostly catalogs from redis with an
// in-process copy as fallback when redis is unreachable.
type cachedResolver struct {
	repo   repository.StatusRepository
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration

	mu       sync.RWMutex
	statuses []domain.TicketStatus
	outcomes []domain.CallOutcome
}

// NewResolver builds the resolver. client may be nil; the repository is
// then queried directly and memoized.
func NewResolver(repo repository.StatusRepository, client *redis.Client, logger *zap.Logger, ttl time.Duration) Resolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedResolver{repo: repo, client: client, logger: logger, ttl: ttl}
}

func (r *cachedResolver) StatusByName(ctx context.Context, name domain.StatusName) (domain.TicketStatus, bool, error) {
	statuses, err := r.loadStatuses(ctx)
	if err != nil {
		return domain.TicketStatus{}, false, err
	}
	for _, status := range statuses {
		if status.Name == name {
			return status, true, nil
		}
	}
	return domain.TicketStatus{}, false, nil
}

func (r *cachedResolver) StatusByID(ctx context.Context, id int64) (domain.TicketStatus, bool, error) {
	statuses, err := r.loadStatuses(ctx)
	if err != nil {
		return domain.TicketStatus{}, false, err
	}
	for _, status := range statuses {
		if status.ID == id {
			return status, true, nil
		}
	}
	return domain.TicketStatus{}, false, nil
}

func (r *cachedResolver) OutcomeByName(ctx context.Context, name domain.OutcomeName) (domain.CallOutcome, bool, error) {
	outcomes, err := r.loadOutcomes(ctx)
	if err != nil {
		return domain.CallOutcome{}, false, err
	}
	for _, outcome := range outcomes {
		if outcome.Name == name {
			return outcome, true, nil
		}
	}
	return domain.CallOutcome{}, false, nil
}

func (r *cachedResolver) loadStatuses(ctx context.Context) ([]domain.TicketStatus, error) {
	r.mu.RLock()
	cached := r.statuses
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if fromRedis := cacheGet[[]domain.TicketStatus](ctx, r.client, statusCacheKey); fromRedis != nil {
		r.mu.Lock()
		r.statuses = *fromRedis
		r.mu.Unlock()
		return *fromRedis, nil
	}

	statuses, err := r.repo.ListTicketStatuses(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.statuses = statuses
	r.mu.Unlock()
	r.cacheSet(ctx, statusCacheKey, statuses)
	return statuses, nil
}

func (r *cachedResolver) loadOutcomes(ctx context.Context) ([]domain.CallOutcome, error) {
	r.mu.RLock()
	cached := r.outcomes
	r.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	if fromRedis := cacheGet[[]domain.CallOutcome](ctx, r.client, outcomeCacheKey); fromRedis != nil {
		r.mu.Lock()
		r.outcomes = *fromRedis
		r.mu.Unlock()
		return *fromRedis, nil
	}

	outcomes, err := r.repo.ListCallOutcomes(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.outcomes = outcomes
	r.mu.Unlock()
	r.cacheSet(ctx, outcomeCacheKey, outcomes)
	return outcomes, nil
}

func cacheGet[T any](ctx context.Context, client *redis.Client, key string) *T {
	if client == nil {
		return nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	return &value
}

func (r *cachedResolver) cacheSet(ctx context.Context, key string, value any) {
	if r.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil && r.logger != nil {
		r.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
