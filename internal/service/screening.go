package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shariahscreen/shariahscreen/internal/api/dto"
	"github.com/shariahscreen/shariahscreen/internal/cache"
	"github.com/shariahscreen/shariahscreen/internal/domain/ratio"
	"github.com/shariahscreen/shariahscreen/internal/domain/screening"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

const verdictCacheKeyPrefix = "screening:verdict:"

// ScreeningService runs the compliance engine over the snapshot store,
// serving verdicts through the classification cache. Reads on behalf of a
// user pass through the entitlement gate first.
type ScreeningService interface {
	CreateSnapshot(ctx context.Context, req *dto.CreateSnapshotRequest) (*dto.ComplianceResponse, error)

	// GetCompliance returns the verdict for the latest snapshot of a symbol.
	// The view is charged against the caller's plan quota before any data is
	// returned; a denied view surfaces as a permission error. A lookup of an
	// unknown symbol fails without consuming quota.
	GetCompliance(ctx context.Context, userID, symbol string) (*dto.ComplianceResponse, error)

	ListCompliance(ctx context.Context, req *dto.ListComplianceRequest) (*dto.ListComplianceResponse, error)
}

type screeningService struct {
	ServiceParams
	entitlement EntitlementService
	group       singleflight.Group
}

// NewScreeningService creates a new screening service
func NewScreeningService(params ServiceParams) ScreeningService {
	return &screeningService{
		ServiceParams: params,
		entitlement:   NewEntitlementService(params),
	}
}

func (s *screeningService) CreateSnapshot(ctx context.Context, req *dto.CreateSnapshotRequest) (*dto.ComplianceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshot := req.ToSnapshot(ctx)
	if err := s.SnapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, err
	}

	// Stale verdicts for the symbol refer to older observations; drop them so
	// the next read recomputes against the new latest snapshot
	s.Cache.DeleteByPrefix(ctx, verdictCacheKeyPrefix+snapshot.Symbol+":")

	verdict := s.classify(ctx, snapshot)
	return dto.NewComplianceResponse(snapshot, verdict), nil
}

func (s *screeningService) GetCompliance(ctx context.Context, userID, symbol string) (*dto.ComplianceResponse, error) {
	if symbol == "" {
		return nil, ierr.NewError("symbol is required").
			WithHint("Symbol is required").
			Mark(ierr.ErrValidation)
	}

	// Resolve the symbol before charging the view, so a typo or an unknown
	// symbol never burns a free-tier quota slot
	snapshot, err := s.SnapshotRepo.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}

	result, err := s.entitlement.AuthorizeView(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	if !result.Allowed {
		return nil, ierr.NewErrorf("view denied: %s", result.Reason).
			WithHint(result.Message).
			WithReportableDetails(map[string]interface{}{
				"reason": result.Reason,
			}).
			Mark(ierr.ErrPermissionDenied)
	}

	verdict := s.classify(ctx, snapshot)
	return dto.NewComplianceResponse(snapshot, verdict), nil
}

func (s *screeningService) ListCompliance(ctx context.Context, req *dto.ListComplianceRequest) (*dto.ListComplianceResponse, error) {
	if req == nil {
		req = &dto.ListComplianceRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	snapshots, err := s.SnapshotRepo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, err
	}

	cutoff := s.Config.Screening.HighConfidencePercentageCutoff
	resp := &dto.ListComplianceResponse{
		Items: make([]*dto.ComplianceResponse, 0, len(snapshots)),
	}
	for _, snapshot := range snapshots {
		verdict := s.classify(ctx, snapshot)
		if req.HighConfidenceOnly {
			if !verdict.IsHalal() || verdict.ConfidencePercentage.InexactFloat64() < cutoff {
				continue
			}
		}
		resp.Items = append(resp.Items, dto.NewComplianceResponse(snapshot, verdict))
	}
	resp.Total = len(resp.Items)
	return resp, nil
}

// classify returns the verdict for a snapshot, consulting the cache first.
// The cache key carries the observation timestamp, so an entry can never
// serve a verdict for anything but the exact snapshot it was computed from.
// Concurrent misses for one key collapse into a single engine run.
func (s *screeningService) classify(ctx context.Context, snapshot *ratio.Snapshot) screening.Verdict {
	key := verdictCacheKey(snapshot)

	if value, found := s.Cache.Get(ctx, key); found {
		if verdict, ok := cache.UnmarshalCacheValue[screening.Verdict](value); ok {
			return *verdict
		}
	}

	result, _, _ := s.group.Do(key, func() (interface{}, error) {
		verdict := screening.Classify(snapshot, s.thresholds())
		ttl := time.Duration(s.Config.Screening.CacheTTLMinutes) * time.Minute
		s.Cache.Set(ctx, key, &verdict, ttl)
		return verdict, nil
	})
	return result.(screening.Verdict)
}

func (s *screeningService) thresholds() screening.Thresholds {
	cfg := s.Config.Screening
	return screening.NewThresholds(
		cfg.DebtToAssetsThreshold,
		cfg.InterestIncomeThreshold,
		cfg.InterestBearingAssetsThreshold,
		cfg.ReceivablesThreshold,
		cfg.MissingRatioConfidenceCap,
	)
}

func verdictCacheKey(snapshot *ratio.Snapshot) string {
	return fmt.Sprintf("%s%s:%d", verdictCacheKeyPrefix, snapshot.Symbol, snapshot.ObservedAt.UTC().UnixNano())
}
