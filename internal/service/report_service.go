// internal/service/report_service.go
package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mytimarket/shop-reports/internal/cache"
	"github.com/mytimarket/shop-reports/internal/domain"
	"github.com/mytimarket/shop-reports/internal/export"
	"github.com/mytimarket/shop-reports/internal/report"
	"github.com/mytimarket/shop-reports/internal/repository"
	"github.com/mytimarket/shop-reports/internal/storage"
)

// ErrNilBatch is returned when the caller hands over no batch at all, as
// opposed to an empty one, which produces an empty well-formed bundle.
var ErrNilBatch = errors.New("order batch is nil")

type ReportService struct {
	overrides repository.OverrideRepository
	archive   repository.ArchiveRepository
	cache     cache.ReportCache
	store     storage.ObjectStorage

	mu         sync.RWMutex
	lastBundle *domain.ReportBundle
}

// NewReportService wires the engine to its surroundings. Every collaborator
// may be nil; the service then runs compute-only.
func NewReportService(
	overrides repository.OverrideRepository,
	archive repository.ArchiveRepository,
	reportCache cache.ReportCache,
	store storage.ObjectStorage,
) *ReportService {
	if reportCache == nil {
		reportCache = cache.NewNoopReportCache()
	}
	return &ReportService{
		overrides: overrides,
		archive:   archive,
		cache:     reportCache,
		store:     store,
	}
}

// GenerateReports runs the engine over one batch of order lines. Commission
// overrides passed in are merged over the stored ones; the batch digest keys
// the cache and the archive.
func (s *ReportService) GenerateReports(ctx context.Context, lines []domain.RawOrderLine, overrides []domain.CommissionOverride) (*domain.ReportBundle, error) {
	if lines == nil {
		return nil, ErrNilBatch
	}

	merged, err := s.mergeOverrides(ctx, overrides)
	if err != nil {
		return nil, err
	}

	digest := batchDigest(lines, merged)

	if bundle, ok, err := s.cache.Get(ctx, digest); err != nil {
		log.Warn().Err(err).Msg("report cache read failed")
	} else if ok {
		log.Debug().Str("digest", digest).Msg("report cache hit")
		s.setLastBundle(bundle)
		return bundle, nil
	}

	shops, delivery := report.Generate(lines, merged, report.Options{})
	bundle := &domain.ReportBundle{
		Shops:       shops,
		Delivery:    delivery,
		DateRange:   report.ExtractDateRange(lines),
		LineCount:   len(lines),
		GeneratedAt: time.Now().UTC(),
	}

	// Archive and cache writes are best effort; the bundle is already built.
	if s.archive != nil {
		if _, err := s.archive.SaveRun(ctx, digest, bundle); err != nil {
			log.Warn().Err(err).Msg("report archive write failed")
		}
	}
	if err := s.cache.Set(ctx, digest, bundle); err != nil {
		log.Warn().Err(err).Msg("report cache write failed")
	}

	s.setLastBundle(bundle)
	return bundle, nil
}

// LastBundle returns the most recently generated bundle, or nil when nothing
// has been generated in this process yet. The GET report views serve from it.
func (s *ReportService) LastBundle() *domain.ReportBundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastBundle
}

func (s *ReportService) setLastBundle(bundle *domain.ReportBundle) {
	s.mu.Lock()
	s.lastBundle = bundle
	s.mu.Unlock()
}

// SaveOverrides stores shop commission rates for later runs.
func (s *ReportService) SaveOverrides(ctx context.Context, overrides []domain.CommissionOverride) error {
	if s.overrides == nil {
		return errors.New("override store not configured")
	}
	if err := s.overrides.SaveOverrides(ctx, overrides); err != nil {
		return err
	}
	// Stored rates changed, cached bundles no longer reflect them.
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("report cache invalidation failed")
	}
	return nil
}

func (s *ReportService) GetOverrides(ctx context.Context) ([]domain.CommissionOverride, error) {
	if s.overrides == nil {
		return nil, nil
	}
	return s.overrides.GetOverrides(ctx)
}

func (s *ReportService) DeleteOverride(ctx context.Context, shopName string) error {
	if s.overrides == nil {
		return errors.New("override store not configured")
	}
	if err := s.overrides.DeleteOverride(ctx, shopName); err != nil {
		return err
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("report cache invalidation failed")
	}
	return nil
}

// ExportToStorage renders every shop report plus the delivery report to CSV
// and uploads them under reports/<run-id>/. Returns the uploaded object keys.
func (s *ReportService) ExportToStorage(ctx context.Context, runID string, bundle *domain.ReportBundle) ([]string, error) {
	if s.store == nil {
		return nil, errors.New("object storage not configured")
	}
	if bundle == nil {
		return nil, errors.New("report bundle is nil")
	}

	var keys []string
	for _, shop := range bundle.Shops {
		var buf bytes.Buffer
		if err := export.WriteShopReportCSV(&buf, shop); err != nil {
			return nil, fmt.Errorf("render %s report: %w", shop.ShopName, err)
		}
		key := fmt.Sprintf("reports/%s/%s.csv", runID, slugify(shop.ShopName))
		if err := s.store.UploadObject(ctx, key, "text/csv", buf.Bytes()); err != nil {
			return nil, fmt.Errorf("upload %s report: %w", shop.ShopName, err)
		}
		keys = append(keys, key)
	}

	if len(bundle.Delivery.Orders) > 0 {
		var buf bytes.Buffer
		if err := export.WriteDeliveryReportCSV(&buf, bundle.Delivery); err != nil {
			return nil, fmt.Errorf("render delivery report: %w", err)
		}
		key := fmt.Sprintf("reports/%s/deliveries.csv", runID)
		if err := s.store.UploadObject(ctx, key, "text/csv", buf.Bytes()); err != nil {
			return nil, fmt.Errorf("upload delivery report: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// mergeOverrides layers request overrides over the stored ones. Request rates
// win on conflict.
func (s *ReportService) mergeOverrides(ctx context.Context, requested []domain.CommissionOverride) ([]domain.CommissionOverride, error) {
	if s.overrides == nil {
		return requested, nil
	}
	stored, err := s.overrides.GetOverrides(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored overrides: %w", err)
	}
	if len(stored) == 0 {
		return requested, nil
	}

	seen := make(map[string]bool, len(requested))
	merged := make([]domain.CommissionOverride, 0, len(stored)+len(requested))
	merged = append(merged, requested...)
	for _, o := range requested {
		seen[report.NormalizeShopKey(o.ShopName)] = true
	}
	for _, o := range stored {
		if !seen[report.NormalizeShopKey(o.ShopName)] {
			merged = append(merged, o)
		}
	}
	return merged, nil
}

// batchDigest fingerprints the full engine input. Identical batches with
// identical rates produce identical bundles, so the digest doubles as the
// cache key and the archive key.
func batchDigest(lines []domain.RawOrderLine, overrides []domain.CommissionOverride) string {
	h := sha1.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(lines)
	_ = enc.Encode(overrides)
	return hex.EncodeToString(h.Sum(nil))
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ', r == '-', r == '_':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "shop"
	}
	return string(out)
}
