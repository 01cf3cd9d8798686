package finance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResultCache caches computed reconciliation results keyed by an explicit
// input-snapshot version supplied by the caller. The engine itself stays
// stateless; caching is strictly a caller concern.
type ResultCache interface {
	Get(ctx context.Context, key string) (*ReconciliationResult, bool, error)
	Set(ctx context.Context, key string, result *ReconciliationResult, ttl time.Duration) error
}

// DashboardService wraps the reconciliation pipeline with optional
// snapshot-keyed caching for dashboard reads.
type DashboardService struct {
	recon  *ReconciliationService
	cache  ResultCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService. Cache may be nil, in
// which case every call recomputes.
func NewDashboardService(recon *ReconciliationService, cache ResultCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{
		recon:  recon,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Dashboard returns the reconciliation result for a tenant. When
// snapshotVersion is non-empty and a cache is configured, a previously
// computed result for the same tenant and snapshot is reused; an empty
// version always recomputes. Cache failures are logged and treated as
// misses - the dashboard must keep rendering when the cache is down.
func (s *DashboardService) Dashboard(ctx context.Context, tenantID uuid.UUID, snapshotVersion string, opts RunOptions) (*ReconciliationResult, error) {
	key := ""
	if s.cache != nil && snapshotVersion != "" {
		key = cacheKey(tenantID, snapshotVersion, opts)
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	result, err := s.recon.Run(ctx, tenantID, opts)
	if err != nil {
		return nil, err
	}

	// Partial results are not cached: a stale snapshot version would pin a
	// half-empty dashboard until expiry.
	if key != "" && len(result.SourceErrors) == 0 {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return result, nil
}

// cacheKey covers everything that shapes the result. Every RunOptions field
// changes the derived views - source filters narrow the fetched records, the
// ledger filter changes the running balance - so the whole options struct is
// folded into the key.
func cacheKey(tenantID uuid.UUID, snapshotVersion string, opts RunOptions) string {
	raw, _ := json.Marshal(opts)
	sum := sha256.Sum256(raw)
	return "finance:dashboard:" + tenantID.String() + ":" + snapshotVersion + ":" + hex.EncodeToString(sum[:])
}
