package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/util"
	"github.com/dafibh/fortuna/networth-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockDatasetSource is a mock implementation of domain.DatasetSource
type MockDatasetSource struct {
	Dataset *domain.Dataset
	LoadFn  func(ctx context.Context) (*domain.Dataset, error)
	Calls   int
}

// NewMockDatasetSource creates a MockDatasetSource returning ds
func NewMockDatasetSource(ds *domain.Dataset) *MockDatasetSource {
	return &MockDatasetSource{Dataset: ds}
}

// Load returns the configured dataset or delegates to LoadFn
func (m *MockDatasetSource) Load(ctx context.Context) (*domain.Dataset, error) {
	m.Calls++
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	if m.Dataset == nil {
		return nil, domain.ErrDatasetUnavailable
	}
	return m.Dataset, nil
}

// MockEventPublisher records every published event
type MockEventPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]websocket.Event(nil), m.events...)
}

// EventTypes returns the combined type of every recorded event in order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// Reset forgets the recorded events
func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// NewFixedClock returns a clock pinned to the first day of year-month
func NewFixedClock(year, month int) *util.FixedClock {
	return &util.FixedClock{FixedNow: time.Date(year, time.Month(month), 1, 12, 0, 0, 0, time.UTC)}
}

// Series builds consecutive monthly points starting at start
func Series(start domain.YearMonth, values ...int64) []domain.NetWorthPoint {
	points := make([]domain.NetWorthPoint, len(values))
	for i, v := range values {
		points[i] = domain.NetWorthPoint{
			Month: start.AddMonths(i),
			Value: decimal.NewFromInt(v),
		}
	}
	return points
}

// LinearSeries builds n consecutive points growing by step each month
func LinearSeries(start domain.YearMonth, base, step int64, n int) []domain.NetWorthPoint {
	values := make([]int64, n)
	for i := range values {
		values[i] = base + step*int64(i)
	}
	return Series(start, values...)
}

// SeedDataset mirrors the bundled dataset: twelve points from 2024-12 to
// 2025-11 rising 2000 a month, the four-entry ledger and default assumptions
func SeedDataset() *domain.Dataset {
	assumptions := domain.DefaultAssumptions()
	return &domain.Dataset{
		Series: LinearSeries(domain.MustYearMonth(2024, 12), 258000, 2000, 12),
		Notes: []domain.MonthNote{
			{Month: domain.MustYearMonth(2025, 1), Text: "Bonus ontvangen van werkgever"},
			{Month: domain.MustYearMonth(2025, 3), Text: "Auto reparatie"},
			{Month: domain.MustYearMonth(2025, 6), Text: "Vakantie naar Spanje"},
			{Month: domain.MustYearMonth(2025, 9), Text: "Nieuwe laptop gekocht"},
		},
		Costs: []domain.FixedCost{
			{Name: "Hypothecaire lening", Amount: decimal.NewFromInt(1000), Frequency: domain.FrequencyMonthly, Account: "KBC Woning", Kind: domain.CostKindFixed},
			{Name: "Elektriciteit", Amount: decimal.NewFromInt(160), Frequency: domain.FrequencyMonthly, Account: "Domiciliëring", Kind: domain.CostKindVariable},
			{Name: "Water", Amount: decimal.NewFromInt(120), Frequency: domain.FrequencyYearly, Account: "Zichtrekening", Kind: domain.CostKindVariable},
			{Name: "Internet / GSM", Amount: decimal.NewFromInt(80), Frequency: domain.FrequencyMonthly, Account: "Zichtrekening", Kind: domain.CostKindFixed},
		},
		AccountTypes: []domain.DistributionSlice{
			{Name: "Zicht", Value: decimal.NewFromInt(15000)},
			{Name: "Spaar", Value: decimal.NewFromInt(120000)},
			{Name: "Beleggingen", Value: decimal.NewFromInt(150000)},
			{Name: "Cash", Value: decimal.NewFromInt(12100)},
		},
		Banks: []domain.DistributionSlice{
			{Name: "KBC", Value: decimal.NewFromInt(85000)},
			{Name: "Belfius", Value: decimal.NewFromInt(65000)},
			{Name: "ING", Value: decimal.NewFromInt(42000)},
			{Name: "Argenta", Value: decimal.NewFromInt(30000)},
		},
		Assumptions: &assumptions,
	}
}
