package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mytimarket/shop-reports/internal/domain"
)

type fakeOverrideRepo struct {
	stored []domain.CommissionOverride
	saved  []domain.CommissionOverride
}

func (f *fakeOverrideRepo) SaveOverrides(_ context.Context, o []domain.CommissionOverride) error {
	f.saved = o
	return nil
}

func (f *fakeOverrideRepo) GetOverrides(context.Context) ([]domain.CommissionOverride, error) {
	return f.stored, nil
}

func (f *fakeOverrideRepo) DeleteOverride(context.Context, string) error { return nil }

type fakeCache struct {
	bundles     map[string]*domain.ReportBundle
	invalidated bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{bundles: make(map[string]*domain.ReportBundle)}
}

func (f *fakeCache) Get(_ context.Context, digest string) (*domain.ReportBundle, bool, error) {
	b, ok := f.bundles[digest]
	return b, ok, nil
}

func (f *fakeCache) Set(_ context.Context, digest string, b *domain.ReportBundle) error {
	f.bundles[digest] = b
	return nil
}

func (f *fakeCache) InvalidateAll(context.Context) error {
	f.invalidated = true
	f.bundles = map[string]*domain.ReportBundle{}
	return nil
}

func sampleLines() []domain.RawOrderLine {
	return []domain.RawOrderLine{
		{
			OrderNumber:      "#100",
			PaidAt:           "2024-03-01 10:00:00",
			LineItemName:     "Truffle Box",
			LineItemPrice:    "25.00",
			LineItemQuantity: "2",
			FinancialStatus:  "paid",
			Vendor:           "Nu Chocolat",
		},
	}
}

func TestGenerateReportsNilBatch(t *testing.T) {
	svc := NewReportService(nil, nil, nil, nil)
	_, err := svc.GenerateReports(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrNilBatch)
}

func TestGenerateReportsComputeOnly(t *testing.T) {
	svc := NewReportService(nil, nil, nil, nil)

	bundle, err := svc.GenerateReports(context.Background(), sampleLines(), nil)
	require.NoError(t, err)
	require.Len(t, bundle.Shops, 1)
	assert.Equal(t, "Nu Chocolat", bundle.Shops[0].ShopName)
	assert.Equal(t, 1, bundle.LineCount)
	assert.NotNil(t, bundle.DateRange.Earliest)
	assert.False(t, bundle.GeneratedAt.IsZero())
	assert.Same(t, bundle, svc.LastBundle())
}

func TestGenerateReportsEmptyBatch(t *testing.T) {
	svc := NewReportService(nil, nil, nil, nil)

	bundle, err := svc.GenerateReports(context.Background(), []domain.RawOrderLine{}, nil)
	require.NoError(t, err)
	assert.Empty(t, bundle.Shops)
	assert.Empty(t, bundle.Delivery.Orders)
	assert.Zero(t, bundle.LineCount)
}

func TestGenerateReportsMergesStoredOverrides(t *testing.T) {
	repo := &fakeOverrideRepo{stored: []domain.CommissionOverride{
		{ShopName: "Nu Chocolat", CommissionPercentage: 15},
	}}
	svc := NewReportService(repo, nil, nil, nil)

	bundle, err := svc.GenerateReports(context.Background(), sampleLines(), nil)
	require.NoError(t, err)
	require.Len(t, bundle.Shops, 1)
	assert.InDelta(t, 15.0, bundle.Shops[0].Orders[0].CommissionPercentage, 1e-9)

	// A request override for the same shop wins over the stored rate.
	bundle, err = svc.GenerateReports(context.Background(), sampleLines(), []domain.CommissionOverride{
		{ShopName: "nu chocolat", CommissionPercentage: 20},
	})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, bundle.Shops[0].Orders[0].CommissionPercentage, 1e-9)
}

func TestGenerateReportsCaching(t *testing.T) {
	c := newFakeCache()
	svc := NewReportService(nil, nil, c, nil)

	first, err := svc.GenerateReports(context.Background(), sampleLines(), nil)
	require.NoError(t, err)
	require.Len(t, c.bundles, 1)

	// Same batch comes back from the cache as the same bundle.
	second, err := svc.GenerateReports(context.Background(), sampleLines(), nil)
	require.NoError(t, err)
	assert.Same(t, c.bundles[digestOf(c)], second)
	assert.Equal(t, first.Shops, second.Shops)

	// Different overrides change the digest.
	_, err = svc.GenerateReports(context.Background(), sampleLines(), []domain.CommissionOverride{
		{ShopName: "Nu Chocolat", CommissionPercentage: 5},
	})
	require.NoError(t, err)
	assert.Len(t, c.bundles, 2)
}

func digestOf(c *fakeCache) string {
	for k := range c.bundles {
		return k
	}
	return ""
}

func TestSaveOverridesInvalidatesCache(t *testing.T) {
	repo := &fakeOverrideRepo{}
	c := newFakeCache()
	svc := NewReportService(repo, nil, c, nil)

	err := svc.SaveOverrides(context.Background(), []domain.CommissionOverride{
		{ShopName: "Acme Co", CommissionPercentage: 12},
	})
	require.NoError(t, err)
	assert.True(t, c.invalidated)
	assert.Len(t, repo.saved, 1)
}

func TestBatchDigestStable(t *testing.T) {
	a := batchDigest(sampleLines(), nil)
	b := batchDigest(sampleLines(), nil)
	assert.Equal(t, a, b)

	c := batchDigest(sampleLines(), []domain.CommissionOverride{{ShopName: "X", CommissionPercentage: 1}})
	assert.NotEqual(t, a, c)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "nu-chocolat", slugify("Nu Chocolat"))
	assert.Equal(t, "home-port", slugify("Home-Port"))
	assert.Equal(t, "shop", slugify("???"))
}
