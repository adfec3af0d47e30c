package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DashboardService owns the session's dataset. The series and ledger are
// loaded once, mutated only through this service, and handed to the pure
// calculations as copies on every read.
type DashboardService struct {
	metrics        *MetricsService
	eventPublisher websocket.EventPublisher

	// publishMu is held from a mutation through its events so snapshots
	// reach the publisher in the order the mutations were applied
	publishMu sync.Mutex

	mu           sync.RWMutex
	series       []domain.NetWorthPoint
	notes        []domain.MonthNote
	costs        []domain.FixedCost
	accountTypes []domain.DistributionSlice
	banks        []domain.DistributionSlice
	assumptions  domain.Assumptions
}

// NewDashboardService creates a new DashboardService with default assumptions and no data
func NewDashboardService(metrics *MetricsService) *DashboardService {
	return &DashboardService{
		metrics:        metrics,
		eventPublisher: websocket.NoOpPublisher{},
		assumptions:    domain.DefaultAssumptions(),
	}
}

// SetEventPublisher routes mutation events to publisher; nil disables publishing
func (s *DashboardService) SetEventPublisher(publisher websocket.EventPublisher) {
	if publisher == nil {
		publisher = websocket.NoOpPublisher{}
	}
	s.publishMu.Lock()
	s.eventPublisher = publisher
	s.publishMu.Unlock()
}

// PublishSnapshot sends the current metrics without a mutation, used to
// seed subscribers at startup
func (s *DashboardService) PublishSnapshot() {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()
	s.publishEvent(websocket.MetricsUpdated(snapshot))
}

func (s *DashboardService) publishEvent(event websocket.Event) {
	s.eventPublisher.Publish(event)
}

// snapshotLocked computes metrics for the current state; s.mu must be held
func (s *DashboardService) snapshotLocked() domain.MetricsSnapshot {
	return s.metrics.ComputeAll(s.series, s.costs, s.assumptions, s.accountTypes)
}

// TrendThreshold returns the slope below which the savings trend is stable
func (s *DashboardService) TrendThreshold() decimal.Decimal {
	return s.metrics.TrendThreshold()
}

// LoadDataset replaces the whole session state with what source returns
func (s *DashboardService) LoadDataset(ctx context.Context, source domain.DatasetSource) error {
	ds, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	s.mu.Lock()
	s.series = append([]domain.NetWorthPoint(nil), ds.Series...)
	s.notes = append([]domain.MonthNote(nil), ds.Notes...)
	s.costs = append([]domain.FixedCost(nil), ds.Costs...)
	s.accountTypes = append([]domain.DistributionSlice(nil), ds.AccountTypes...)
	s.banks = append([]domain.DistributionSlice(nil), ds.Banks...)
	if ds.Assumptions != nil {
		s.assumptions = NormalizeAssumptions(*ds.Assumptions)
	}
	s.mu.Unlock()

	log.Info().
		Int("points", len(ds.Series)).
		Int("notes", len(ds.Notes)).
		Int("costs", len(ds.Costs)).
		Msg("Dataset loaded")
	return nil
}

// GetMetrics recomputes every indicator from the current state
func (s *DashboardService) GetMetrics() domain.MetricsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// GetSeries returns the points selected by r and the notes for those months
func (s *DashboardService) GetSeries(r domain.Range) ([]domain.NetWorthPoint, []domain.MonthNote) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	points := FilterSeries(s.series, r)
	return points, FilterNotes(points, s.notes)
}

// GetSavingsAverage averages monthly savings over window
func (s *DashboardService) GetSavingsAverage(window domain.SavingsWindow) domain.SavingsAverage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SavingsAverageForWindow(s.series, window)
}

// GetDistributions returns the account-type and bank breakdowns
func (s *DashboardService) GetDistributions() (accountTypes, banks domain.DistributionBreakdown) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DistributionBreakdownOf(s.accountTypes), DistributionBreakdownOf(s.banks)
}

// ReplaceSeries swaps in a new series and notes, the only series mutation
func (s *DashboardService) ReplaceSeries(points []domain.NetWorthPoint, notes []domain.MonthNote) error {
	if err := domain.ValidateSeries(points); err != nil {
		log.Warn().Err(err).Int("points", len(points)).Msg("Series replacement rejected")
		return err
	}
	if err := domain.ValidateNotes(notes); err != nil {
		log.Warn().Err(err).Int("notes", len(notes)).Msg("Series replacement rejected")
		return err
	}

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.series = append([]domain.NetWorthPoint(nil), points...)
	s.notes = append([]domain.MonthNote(nil), notes...)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	log.Info().Int("points", len(points)).Int("notes", len(notes)).Msg("Series replaced")
	s.publishEvent(websocket.SeriesReplaced(map[string]interface{}{"points": len(points)}))
	s.publishEvent(websocket.MetricsUpdated(snapshot))
	return nil
}

// ListCosts returns the ledger in insertion order
func (s *DashboardService) ListCosts() []domain.FixedCost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FixedCost(nil), s.costs...)
}

// AddCost appends cost to the ledger and returns it with its index.
// An invalid cost leaves the ledger untouched.
func (s *DashboardService) AddCost(cost domain.FixedCost) (*domain.FixedCost, int, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	updated, err := AddCost(s.costs, cost)
	if err != nil {
		s.mu.Unlock()
		log.Warn().Err(err).Str("cost_name", strings.TrimSpace(cost.Name)).Msg("Cost rejected")
		return nil, -1, err
	}
	s.costs = updated
	index := len(updated) - 1
	added := updated[index]
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	log.Info().
		Str("cost_name", added.Name).
		Str("frequency", string(added.Frequency)).
		Str("monthly", MonthlyEquivalent(added).StringFixed(2)).
		Msg("Cost added")
	s.publishEvent(websocket.CostCreated(map[string]interface{}{"index": index, "cost": added}))
	s.publishEvent(websocket.MetricsUpdated(snapshot))
	return &added, index, nil
}

// RemoveCost deletes the ledger entry at index
func (s *DashboardService) RemoveCost(index int) (*domain.FixedCost, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if index < 0 || index >= len(s.costs) {
		s.mu.Unlock()
		log.Warn().Int("index", index).Msg("Cost removal out of range")
		return nil, domain.NewValidationError("index", domain.ErrIndexOutOfRange)
	}
	removed := s.costs[index]
	updated, err := RemoveCost(s.costs, index)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.costs = updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	log.Info().Int("index", index).Str("cost_name", removed.Name).Msg("Cost removed")
	s.publishEvent(websocket.CostDeleted(map[string]interface{}{"index": index, "cost": removed}))
	s.publishEvent(websocket.MetricsUpdated(snapshot))
	return &removed, nil
}

// GetAssumptions returns the current assumptions
func (s *DashboardService) GetAssumptions() domain.Assumptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assumptions
}

// SetAssumption updates one assumption, clamping negative values to zero
func (s *DashboardService) SetAssumption(name domain.AssumptionName, value decimal.Decimal) (domain.Assumptions, error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	updated, err := SetAssumption(s.assumptions, name, value)
	if err != nil {
		s.mu.Unlock()
		log.Warn().Err(err).Str("assumption", string(name)).Msg("Assumption rejected")
		return updated, err
	}
	s.assumptions = updated
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	stored, _ := updated.Get(name)
	log.Info().
		Str("assumption", string(name)).
		Str("value", stored.String()).
		Bool("clamped", value.IsNegative()).
		Msg("Assumption updated")
	s.publishEvent(websocket.AssumptionsUpdated(updated))
	s.publishEvent(websocket.MetricsUpdated(snapshot))
	return updated, nil
}
