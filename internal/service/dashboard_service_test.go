package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/testutil"
	"github.com/dafibh/fortuna/networth-backend/internal/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedDashboard(t *testing.T) (*DashboardService, *testutil.MockEventPublisher) {
	t.Helper()
	svc := NewDashboardService(NewMetricsService(testutil.NewFixedClock(2025, 11), DefaultTrendThreshold))
	require.NoError(t, svc.LoadDataset(context.Background(), testutil.NewMockDatasetSource(testutil.SeedDataset())))

	publisher := testutil.NewMockEventPublisher()
	svc.SetEventPublisher(publisher)
	return svc, publisher
}

func TestDashboardService_LoadDataset(t *testing.T) {
	svc, _ := newLoadedDashboard(t)

	points, notes := svc.GetSeries(domain.RangeAll)
	assert.Len(t, points, 12)
	assert.Len(t, notes, 4)
	assert.Len(t, svc.ListCosts(), 4)
	assert.Equal(t, "5000", svc.GetAssumptions().EstimatedMonthlyIncome.String())
	assert.Equal(t, "50", svc.TrendThreshold().String())
}

func TestDashboardService_LoadDataset_Errors(t *testing.T) {
	svc := NewDashboardService(NewMetricsService(nil, decimal.Zero))

	source := testutil.NewMockDatasetSource(nil)
	source.LoadFn = func(ctx context.Context) (*domain.Dataset, error) {
		return nil, errors.New("connection refused")
	}
	assert.Error(t, svc.LoadDataset(context.Background(), source))
	assert.Equal(t, 1, source.Calls)

	gapped := testutil.SeedDataset()
	gapped.Series = append(gapped.Series[:3:3], gapped.Series[4:]...)
	err := svc.LoadDataset(context.Background(), testutil.NewMockDatasetSource(gapped))
	assert.ErrorIs(t, err, domain.ErrSeriesGap)

	// Nothing was loaded
	points, _ := svc.GetSeries(domain.RangeAll)
	assert.Empty(t, points)
}

func TestDashboardService_LoadDataset_NormalizesAssumptions(t *testing.T) {
	ds := testutil.SeedDataset()
	ds.Assumptions.GoalAmount = d("-10")

	svc := NewDashboardService(NewMetricsService(nil, decimal.Zero))
	require.NoError(t, svc.LoadDataset(context.Background(), testutil.NewMockDatasetSource(ds)))
	assert.True(t, svc.GetAssumptions().GoalAmount.IsZero())
}

func TestDashboardService_LoadDataset_KeepsDefaultsWithoutAssumptions(t *testing.T) {
	ds := testutil.SeedDataset()
	ds.Assumptions = nil

	svc := NewDashboardService(NewMetricsService(nil, decimal.Zero))
	require.NoError(t, svc.LoadDataset(context.Background(), testutil.NewMockDatasetSource(ds)))
	assert.Equal(t, domain.DefaultAssumptions(), svc.GetAssumptions())
}

func TestDashboardService_ReadsDoNotChangeMetrics(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	before := svc.GetMetrics()
	svc.GetSeries(domain.RangeSixMonths)
	svc.GetSeries(domain.RangeYearToDate)
	svc.GetSavingsAverage(domain.SavingsWindowSixMonths)
	svc.GetDistributions()
	after := svc.GetMetrics()

	assert.Equal(t, before, after)
	assert.Empty(t, publisher.Events())
}

func TestDashboardService_AddCost(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	added, index, err := svc.AddCost(domain.FixedCost{
		Name:      "Gym",
		Amount:    d("45"),
		Frequency: domain.FrequencyMonthly,
		Kind:      domain.CostKindVariable,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, index)
	assert.Equal(t, "Gym", added.Name)

	assert.Equal(t, "1295.00", svc.GetMetrics().TotalFixedMonthlyCosts.StringFixed(2))
	assert.Equal(t, []string{"cost.created", "metrics.updated"}, publisher.EventTypes())

	snapshot, ok := publisher.Events()[1].Payload.(domain.MetricsSnapshot)
	require.True(t, ok)
	assert.Equal(t, "1295.00", snapshot.TotalFixedMonthlyCosts.StringFixed(2))
}

func TestDashboardService_AddCost_RejectedKeepsState(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)
	before := svc.GetMetrics()

	_, index, err := svc.AddCost(domain.FixedCost{Name: "", Amount: d("10"), Frequency: domain.FrequencyMonthly, Kind: domain.CostKindFixed})
	assert.ErrorIs(t, err, domain.ErrNameRequired)
	assert.Equal(t, -1, index)

	_, _, err = svc.AddCost(domain.FixedCost{Name: "Gym", Amount: d("0"), Frequency: domain.FrequencyMonthly, Kind: domain.CostKindFixed})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.Len(t, svc.ListCosts(), 4)
	assert.Equal(t, before, svc.GetMetrics())
	assert.Empty(t, publisher.Events())
}

func TestDashboardService_RemoveCost(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	removed, err := svc.RemoveCost(0)
	require.NoError(t, err)
	assert.Equal(t, "Hypothecaire lening", removed.Name)
	assert.Equal(t, "250.00", svc.GetMetrics().TotalFixedMonthlyCosts.StringFixed(2))
	assert.Equal(t, []string{"cost.deleted", "metrics.updated"}, publisher.EventTypes())

	publisher.Reset()
	_, err = svc.RemoveCost(10)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
	assert.Len(t, svc.ListCosts(), 3)
	assert.Empty(t, publisher.Events())
}

func TestDashboardService_ListCostsReturnsCopy(t *testing.T) {
	svc, _ := newLoadedDashboard(t)

	costs := svc.ListCosts()
	costs[0].Name = "Changed"
	assert.Equal(t, "Hypothecaire lening", svc.ListCosts()[0].Name)
}

func TestDashboardService_SetAssumption(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	updated, err := svc.SetAssumption(domain.AssumptionGoalAmount, d("250000"))
	require.NoError(t, err)
	assert.Equal(t, "250000", updated.GoalAmount.String())
	assert.Equal(t, domain.GoalReached, svc.GetMetrics().Goal.Status)
	assert.Equal(t, []string{"assumptions.updated", "metrics.updated"}, publisher.EventTypes())

	clamped, err := svc.SetAssumption(domain.AssumptionMonthlyIncome, d("-100"))
	require.NoError(t, err)
	assert.True(t, clamped.EstimatedMonthlyIncome.IsZero())

	publisher.Reset()
	_, err = svc.SetAssumption(domain.AssumptionName("bogus"), d("1"))
	assert.ErrorIs(t, err, domain.ErrUnknownAssumption)
	assert.Empty(t, publisher.Events())
	assert.Equal(t, "250000", svc.GetAssumptions().GoalAmount.String())
}

func TestDashboardService_ReplaceSeries(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	points := testutil.Series(domain.MustYearMonth(2025, 8), 100, 105, 110, 108)
	notes := []domain.MonthNote{{Month: domain.MustYearMonth(2025, 10), Text: "Peak"}}
	require.NoError(t, svc.ReplaceSeries(points, notes))

	got, gotNotes := svc.GetSeries(domain.RangeAll)
	assert.Equal(t, points, got)
	assert.Equal(t, notes, gotNotes)
	assert.Equal(t, "108", svc.GetMetrics().CurrentValue.String())
	assert.Equal(t, []string{"series.replaced", "metrics.updated"}, publisher.EventTypes())

	// The caller's slice is copied in
	points[0].Value = d("999")
	got, _ = svc.GetSeries(domain.RangeAll)
	assert.Equal(t, "100", got[0].Value.String())
}

func TestDashboardService_ReplaceSeries_Rejected(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	gapped := []domain.NetWorthPoint{
		{Month: domain.MustYearMonth(2025, 1), Value: d("1")},
		{Month: domain.MustYearMonth(2025, 3), Value: d("2")},
	}
	assert.ErrorIs(t, svc.ReplaceSeries(gapped, nil), domain.ErrSeriesGap)

	series := testutil.Series(domain.MustYearMonth(2025, 1), 1, 2)
	dupNotes := []domain.MonthNote{
		{Month: domain.MustYearMonth(2025, 1), Text: "a"},
		{Month: domain.MustYearMonth(2025, 1), Text: "b"},
	}
	assert.ErrorIs(t, svc.ReplaceSeries(series, dupNotes), domain.ErrNoteMonthDuplicate)

	points, _ := svc.GetSeries(domain.RangeAll)
	assert.Len(t, points, 12)
	assert.Empty(t, publisher.Events())
}

func TestDashboardService_ReplaceSeries_Empty(t *testing.T) {
	svc, _ := newLoadedDashboard(t)

	require.NoError(t, svc.ReplaceSeries(nil, nil))
	m := svc.GetMetrics()
	assert.Nil(t, m.LatestMonth)
	assert.True(t, m.CurrentValue.IsZero())

	points, notes := svc.GetSeries(domain.RangeYearToDate)
	assert.Empty(t, points)
	assert.Empty(t, notes)
}

func TestDashboardService_ConcurrentAccess(t *testing.T) {
	svc, _ := newLoadedDashboard(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = svc.AddCost(domain.FixedCost{Name: "Gym", Amount: d("10"), Frequency: domain.FrequencyMonthly, Kind: domain.CostKindFixed})
		}()
		go func() {
			defer wg.Done()
			svc.GetMetrics()
		}()
	}
	wg.Wait()

	assert.Len(t, svc.ListCosts(), 24)
}

// gatedPublisher holds the first metrics snapshot until release is closed
type gatedPublisher struct {
	blocked chan struct{}
	release chan struct{}
	once    sync.Once

	mu        sync.Mutex
	snapshots []domain.MetricsSnapshot
}

func newGatedPublisher() *gatedPublisher {
	return &gatedPublisher{blocked: make(chan struct{}), release: make(chan struct{})}
}

func (p *gatedPublisher) Publish(event websocket.Event) {
	snapshot, ok := event.Payload.(domain.MetricsSnapshot)
	if !ok {
		return
	}
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.blocked)
		<-p.release
	}
	p.mu.Lock()
	p.snapshots = append(p.snapshots, snapshot)
	p.mu.Unlock()
}

func (p *gatedPublisher) totals() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.snapshots))
	for i, snap := range p.snapshots {
		out[i] = snap.TotalFixedMonthlyCosts.StringFixed(2)
	}
	return out
}

func TestDashboardService_SnapshotsPublishedInMutationOrder(t *testing.T) {
	svc, _ := newLoadedDashboard(t)
	publisher := newGatedPublisher()
	svc.SetEventPublisher(publisher)

	gym := domain.FixedCost{Name: "Gym", Amount: d("100"), Frequency: domain.FrequencyMonthly, Kind: domain.CostKindFixed}

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _, err := svc.AddCost(gym)
		assert.NoError(t, err)
	}()
	<-publisher.blocked

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		_, _, err := svc.AddCost(gym)
		assert.NoError(t, err)
	}()

	// The second mutation waits for the first one's events
	select {
	case <-secondDone:
		t.Fatal("second AddCost completed while the first snapshot was still being published")
	case <-time.After(50 * time.Millisecond):
	}

	close(publisher.release)
	<-firstDone
	<-secondDone

	assert.Len(t, svc.ListCosts(), 6)
	assert.Equal(t, []string{"1350.00", "1450.00"}, publisher.totals())
}

func TestDashboardService_PublishSnapshot(t *testing.T) {
	svc, publisher := newLoadedDashboard(t)

	svc.PublishSnapshot()

	require.Len(t, publisher.Events(), 1)
	assert.Equal(t, "metrics.updated", publisher.EventTypes()[0])
}
