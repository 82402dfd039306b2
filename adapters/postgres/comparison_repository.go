package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"fscompare/domain/comparison"
	"fscompare/domain/core"
	apperrors "fscompare/internal/errors"
	"fscompare/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// comparisonRecord mirrors the comparisons table.
type comparisonRecord struct {
	ID           string    `db:"id"`
	Dataset      string    `db:"dataset"`
	Classifier   string    `db:"classifier"`
	NumFolds     int       `db:"num_folds"`
	NumRepeats   int       `db:"num_repeats"`
	LossName     string    `db:"loss_name"`
	Seed         int64     `db:"seed"`
	ProtocolHash string    `db:"protocol_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// rowRecord mirrors the comparison_rows table.
type rowRecord struct {
	ComparisonID string          `db:"comparison_id"`
	Position     int             `db:"position"`
	Name         string          `db:"name"`
	FeatureCount int             `db:"feature_count"`
	Losses       pq.Float64Array `db:"losses"`
	Mean         float64         `db:"mean"`
	StdDev       float64         `db:"std_dev"`
	Median       float64         `db:"median"`
	MinLoss      float64         `db:"min_loss"`
	MaxLoss      float64         `db:"max_loss"`
	CI95         float64         `db:"ci95"`
}

func toRecords(r *comparison.Report) (comparisonRecord, []rowRecord) {
	c := comparisonRecord{
		ID:           r.ID.String(),
		Dataset:      r.Dataset,
		Classifier:   r.Classifier,
		NumFolds:     r.NumFolds,
		NumRepeats:   r.NumRepeats,
		LossName:     r.LossName,
		Seed:         r.Seed,
		ProtocolHash: r.ProtocolHash.String(),
		CreatedAt:    r.CreatedAt,
	}
	rows := make([]rowRecord, len(r.Rows))
	for i, row := range r.Rows {
		s := row.Summary
		rows[i] = rowRecord{
			ComparisonID: c.ID,
			Position:     i,
			Name:         row.Name,
			FeatureCount: row.FeatureCount,
			Losses:       pq.Float64Array(row.Losses),
			Mean:         s.Mean,
			StdDev:       s.StdDev,
			Median:       s.Median,
			MinLoss:      s.Min,
			MaxLoss:      s.Max,
			CI95:         s.CI95,
		}
	}
	return c, rows
}

// fromRecords assumes rows are ordered by position.
func fromRecords(c comparisonRecord, rows []rowRecord) *comparison.Report {
	r := &comparison.Report{
		ID:           core.ComparisonID(c.ID),
		Dataset:      c.Dataset,
		Classifier:   c.Classifier,
		NumFolds:     c.NumFolds,
		NumRepeats:   c.NumRepeats,
		LossName:     c.LossName,
		Seed:         c.Seed,
		ProtocolHash: core.Hash(c.ProtocolHash),
		CreatedAt:    c.CreatedAt,
		Rows:         make([]comparison.Row, len(rows)),
	}
	for i, row := range rows {
		r.Rows[i] = comparison.Row{
			Name:         row.Name,
			FeatureCount: row.FeatureCount,
			Losses:       []float64(row.Losses),
			Summary: comparison.Summary{
				Mean:   row.Mean,
				StdDev: row.StdDev,
				Median: row.Median,
				Min:    row.MinLoss,
				Max:    row.MaxLoss,
				CI95:   row.CI95,
			},
		}
	}
	return r
}

// ComparisonRepository implements ports.ComparisonRepository on postgres
type ComparisonRepository struct {
	db *sqlx.DB
}

// NewComparisonRepository creates a new comparison repository
func NewComparisonRepository(db *sqlx.DB) ports.ComparisonRepository {
	return &ComparisonRepository{db: db}
}

// Save stores a report and its rows in one transaction
func (r *ComparisonRepository) Save(ctx context.Context, report *comparison.Report) error {
	c, rows := toRecords(report)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO comparisons (id, dataset, classifier, num_folds, num_repeats, loss_name, seed, protocol_hash, created_at)
		VALUES (:id, :dataset, :classifier, :num_folds, :num_repeats, :loss_name, :seed, :protocol_hash, :created_at)
	`, c)
	if err != nil {
		return apperrors.DatabaseError("failed to insert comparison", err)
	}

	for _, row := range rows {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO comparison_rows (comparison_id, position, name, feature_count, losses, mean, std_dev, median, min_loss, max_loss, ci95)
			VALUES (:comparison_id, :position, :name, :feature_count, :losses, :mean, :std_dev, :median, :min_loss, :max_loss, :ci95)
		`, row)
		if err != nil {
			return apperrors.DatabaseError(fmt.Sprintf("failed to insert row %s", row.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError("failed to commit comparison", err)
	}
	return nil
}

// Get loads one report
func (r *ComparisonRepository) Get(ctx context.Context, id core.ComparisonID) (*comparison.Report, error) {
	var c comparisonRecord
	err := r.db.GetContext(ctx, &c, `
		SELECT id, dataset, classifier, num_folds, num_repeats, loss_name, seed, protocol_hash, created_at
		FROM comparisons WHERE id = $1
	`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(fmt.Sprintf("comparison %s", id), core.ErrComparisonNotFound)
		}
		return nil, apperrors.DatabaseError("failed to get comparison", err)
	}

	rows, err := r.loadRows(ctx, []string{c.ID})
	if err != nil {
		return nil, err
	}
	return fromRecords(c, rows[c.ID]), nil
}

// List returns reports newest first
func (r *ComparisonRepository) List(ctx context.Context, limit, offset int) ([]*comparison.Report, error) {
	var records []comparisonRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, dataset, classifier, num_folds, num_repeats, loss_name, seed, protocol_hash, created_at
		FROM comparisons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list comparisons", err)
	}

	ids := make([]string, len(records))
	for i, c := range records {
		ids[i] = c.ID
	}
	rows, err := r.loadRows(ctx, ids)
	if err != nil {
		return nil, err
	}

	reports := make([]*comparison.Report, len(records))
	for i, c := range records {
		reports[i] = fromRecords(c, rows[c.ID])
	}
	return reports, nil
}

func (r *ComparisonRepository) loadRows(ctx context.Context, ids []string) (map[string][]rowRecord, error) {
	out := make(map[string][]rowRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []rowRecord
	err := r.db.SelectContext(ctx, &rows, `
		SELECT comparison_id, position, name, feature_count, losses, mean, std_dev, median, min_loss, max_loss, ci95
		FROM comparison_rows
		WHERE comparison_id = ANY($1::uuid[])
		ORDER BY comparison_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, apperrors.DatabaseError("failed to load comparison rows", err)
	}
	for _, row := range rows {
		out[row.ComparisonID] = append(out[row.ComparisonID], row)
	}
	for _, group := range out {
		sort.SliceStable(group, func(i, j int) bool { return group[i].Position < group[j].Position })
	}
	return out, nil
}
