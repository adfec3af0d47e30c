package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	selectPoints = `SELECT to_char(month, 'YYYY-MM'), label, value FROM net_worth_points ORDER BY month`
	selectNotes  = `SELECT to_char(month, 'YYYY-MM'), note FROM month_notes ORDER BY month`
	selectCosts  = `SELECT name, amount, frequency, account, kind FROM fixed_costs ORDER BY id`
	selectSlices = `SELECT name, value FROM distribution_slices WHERE distribution = $1 ORDER BY position`
	selectAssume = `SELECT name, value FROM assumptions`
)

// Querier is the subset of pgxpool.Pool the repository needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DatasetRepository loads the dashboard dataset from PostgreSQL, read-only
type DatasetRepository struct {
	db Querier
}

// NewDatasetRepository creates a new DatasetRepository
func NewDatasetRepository(db Querier) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Load reads every table the dashboard needs
func (r *DatasetRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	series, err := r.loadSeries(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := r.loadNotes(ctx)
	if err != nil {
		return nil, err
	}
	costs, err := r.loadCosts(ctx)
	if err != nil {
		return nil, err
	}
	accountTypes, err := r.loadSlices(ctx, "account_type")
	if err != nil {
		return nil, err
	}
	banks, err := r.loadSlices(ctx, "bank")
	if err != nil {
		return nil, err
	}
	assumptions, err := r.loadAssumptions(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.Dataset{
		Series:       series,
		Notes:        notes,
		Costs:        costs,
		AccountTypes: accountTypes,
		Banks:        banks,
		Assumptions:  assumptions,
	}, nil
}

func (r *DatasetRepository) loadSeries(ctx context.Context) ([]domain.NetWorthPoint, error) {
	rows, err := r.db.Query(ctx, selectPoints)
	if err != nil {
		return nil, fmt.Errorf("query net worth points: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NetWorthPoint, error) {
		var month, label string
		var value pgtype.Numeric
		if err := row.Scan(&month, &label, &value); err != nil {
			return domain.NetWorthPoint{}, err
		}
		ym, err := domain.ParseYearMonth(month)
		if err != nil {
			return domain.NetWorthPoint{}, err
		}
		return domain.NetWorthPoint{Month: ym, Label: label, Value: pgNumericToDecimal(value)}, nil
	})
}

func (r *DatasetRepository) loadNotes(ctx context.Context) ([]domain.MonthNote, error) {
	rows, err := r.db.Query(ctx, selectNotes)
	if err != nil {
		return nil, fmt.Errorf("query month notes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MonthNote, error) {
		var month, text string
		if err := row.Scan(&month, &text); err != nil {
			return domain.MonthNote{}, err
		}
		ym, err := domain.ParseYearMonth(month)
		if err != nil {
			return domain.MonthNote{}, err
		}
		return domain.MonthNote{Month: ym, Text: text}, nil
	})
}

func (r *DatasetRepository) loadCosts(ctx context.Context) ([]domain.FixedCost, error) {
	rows, err := r.db.Query(ctx, selectCosts)
	if err != nil {
		return nil, fmt.Errorf("query fixed costs: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.FixedCost, error) {
		var c domain.FixedCost
		var amount pgtype.Numeric
		var frequency, kind string
		if err := row.Scan(&c.Name, &amount, &frequency, &c.Account, &kind); err != nil {
			return domain.FixedCost{}, err
		}
		c.Amount = pgNumericToDecimal(amount)
		c.Frequency = domain.Frequency(frequency)
		c.Kind = domain.CostKind(kind)
		return c, nil
	})
}

func (r *DatasetRepository) loadSlices(ctx context.Context, distribution string) ([]domain.DistributionSlice, error) {
	rows, err := r.db.Query(ctx, selectSlices, distribution)
	if err != nil {
		return nil, fmt.Errorf("query %s distribution: %w", distribution, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DistributionSlice, error) {
		var s domain.DistributionSlice
		var value pgtype.Numeric
		if err := row.Scan(&s.Name, &value); err != nil {
			return domain.DistributionSlice{}, err
		}
		s.Value = pgNumericToDecimal(value)
		return s, nil
	})
}

// loadAssumptions returns nil when the table is empty so defaults stay in effect
func (r *DatasetRepository) loadAssumptions(ctx context.Context) (*domain.Assumptions, error) {
	rows, err := r.db.Query(ctx, selectAssume)
	if err != nil {
		return nil, fmt.Errorf("query assumptions: %w", err)
	}
	type namedValue struct {
		name  string
		value decimal.Decimal
	}
	values, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (namedValue, error) {
		var nv namedValue
		var value pgtype.Numeric
		if err := row.Scan(&nv.name, &value); err != nil {
			return namedValue{}, err
		}
		nv.value = pgNumericToDecimal(value)
		return nv, nil
	})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}

	a := domain.DefaultAssumptions()
	for _, nv := range values {
		name, err := domain.ParseAssumptionName(nv.name)
		if err != nil {
			return nil, fmt.Errorf("assumption %q: %w", nv.name, err)
		}
		switch name {
		case domain.AssumptionMonthlyIncome:
			a.EstimatedMonthlyIncome = nv.value
		case domain.AssumptionYearlySavingsTarget:
			a.YearlySavingsTarget = nv.value
		case domain.AssumptionGoalAmount:
			a.GoalAmount = nv.value
		case domain.AssumptionEmergencyFundMonths:
			a.EmergencyFundMonths = nv.value
		}
	}
	return &a, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
