package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mgnrega-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a district has no stored data.
var ErrNotFound = errors.New("repository: district not found")

// ErrAmbiguous is returned when a district name without a state exists in more than one state.
var ErrAmbiguous = errors.New("repository: district name is ambiguous without a state")

// Schema creates the catalog tables. It is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS districts (
		id BIGSERIAL PRIMARY KEY,
		district VARCHAR(255) NOT NULL,
		state VARCHAR(255) NOT NULL,
		UNIQUE (district, state)
	);
	CREATE TABLE IF NOT EXISTS district_summaries (
		district VARCHAR(255) NOT NULL,
		state VARCHAR(255) NOT NULL,
		total_workers BIGINT NOT NULL CHECK (total_workers >= 0),
		total_wages BIGINT NOT NULL CHECK (total_wages >= 0),
		households BIGINT NOT NULL CHECK (households >= 0),
		employment_days BIGINT NOT NULL CHECK (employment_days >= 0),
		work_completed DOUBLE PRECISION NOT NULL,
		budget_utilization DOUBLE PRECISION NOT NULL,
		last_updated DATE,
		PRIMARY KEY (district, state)
	);
	CREATE TABLE IF NOT EXISTS district_monthly (
		district VARCHAR(255) NOT NULL,
		state VARCHAR(255) NOT NULL,
		month_start DATE NOT NULL,
		workers BIGINT NOT NULL,
		wages BIGINT NOT NULL,
		PRIMARY KEY (district, state, month_start)
	);
	CREATE INDEX IF NOT EXISTS districts_state_idx ON districts (state);
`

// Execer is satisfied by *pgx.Conn and *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the catalog tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// Repository implements the catalog service for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// States lists every state that has at least one district
func (r *Repository) States(ctx context.Context) ([]string, error) {
	return r.list(ctx, `SELECT DISTINCT state FROM districts ORDER BY state`)
}

// DistrictsByState lists the districts of a state that have summary data
func (r *Repository) DistrictsByState(ctx context.Context, state string) ([]string, error) {
	sql := `
		SELECT d.district
		FROM districts d
		JOIN district_summaries s ON s.district = d.district AND s.state = d.state
		WHERE d.state = $1
		ORDER BY d.district
	`
	return r.list(ctx, sql, state)
}

// AllDistricts lists every district that has summary data
func (r *Repository) AllDistricts(ctx context.Context) ([]string, error) {
	sql := `
		SELECT DISTINCT d.district
		FROM districts d
		JOIN district_summaries s ON s.district = d.district AND s.state = d.state
		ORDER BY d.district
	`
	return r.list(ctx, sql)
}

// Catalog loads every known district together with whether it has data
func (r *Repository) Catalog(ctx context.Context) (*models.DistrictCatalog, error) {
	sql := `
		SELECT
			d.district,
			d.state,
			EXISTS (
				SELECT 1 FROM district_summaries s
				WHERE s.district = d.district AND s.state = d.state
			) AS has_data
		FROM districts d
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute catalog query: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.CatalogEntry, error) {
		var e models.CatalogEntry
		err := row.Scan(&e.District, &e.State, &e.HasData)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan catalog: %w", err)
	}

	return models.NewDistrictCatalog(entries), nil
}

// Summary loads the summary statistics of district. An empty state matches any state, but a
// name shared by several states is then ErrAmbiguous.
func (r *Repository) Summary(ctx context.Context, district, state string) (models.SummaryStats, error) {
	sql := `
		SELECT
			state,
			total_workers,
			total_wages,
			households,
			employment_days,
			work_completed,
			budget_utilization,
			COALESCE(to_char(last_updated, 'YYYY-MM-DD'), '')
		FROM district_summaries
		WHERE district = $1 AND ($2::text = '' OR state = $2::text)
		ORDER BY state
		LIMIT 2
	`

	rows, err := r.db.Query(ctx, sql, district, state)
	if err != nil {
		return models.SummaryStats{}, fmt.Errorf("repository: failed to execute summary query: %w", err)
	}

	var states []string
	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.SummaryStats, error) {
		var (
			st string
			s  models.SummaryStats
		)
		err := row.Scan(
			&st,
			&s.TotalWorkers,
			&s.TotalWages,
			&s.Households,
			&s.EmploymentDays,
			&s.WorkCompleted,
			&s.BudgetUtilization,
			&s.LastUpdated,
		)
		states = append(states, st)
		return s, err
	})
	if err != nil {
		return models.SummaryStats{}, fmt.Errorf("repository: failed to scan summary: %w", err)
	}

	switch {
	case len(summaries) == 0:
		return models.SummaryStats{}, fmt.Errorf("%w: %q", ErrNotFound, district)
	case len(summaries) > 1:
		return models.SummaryStats{}, fmt.Errorf("%w: %q is in %s", ErrAmbiguous, district, strings.Join(states, ", "))
	}
	return summaries[0], nil
}

// Series loads the monthly series of district, oldest month first. The state rules are the
// same as for Summary.
func (r *Repository) Series(ctx context.Context, district, state string) ([]models.MonthlyPoint, error) {
	sql := `
		SELECT
			state,
			to_char(month_start, 'Mon YYYY'),
			workers,
			wages
		FROM district_monthly
		WHERE district = $1 AND ($2::text = '' OR state = $2::text)
		ORDER BY month_start, state
	`

	rows, err := r.db.Query(ctx, sql, district, state)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute series query: %w", err)
	}

	seen := make(map[string]struct{})
	series, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.MonthlyPoint, error) {
		var (
			st string
			p  models.MonthlyPoint
		)
		err := row.Scan(&st, &p.Month, &p.Workers, &p.Wages)
		seen[st] = struct{}{}
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan series: %w", err)
	}

	if len(seen) > 1 {
		states := make([]string, 0, len(seen))
		for st := range seen {
			states = append(states, st)
		}
		sort.Strings(states)
		return nil, fmt.Errorf("%w: %q is in %s", ErrAmbiguous, district, strings.Join(states, ", "))
	}
	return series, nil
}

func (r *Repository) list(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute listing query: %w", err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repository: failed to scan listing: %w", err)
	}

	return values, nil
}
