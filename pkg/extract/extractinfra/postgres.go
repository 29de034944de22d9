// Package extractinfra holds the persistence adapters of the extract package.
package extractinfra

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Abraxas-365/docextract/pkg/errx"
	"github.com/Abraxas-365/docextract/pkg/extract"
)

//go:embed schema.sql
var schema string

// PostgresResultRepository stores extraction results in extraction_results.
type PostgresResultRepository struct {
	db *sqlx.DB
}

// NewPostgresResultRepository creates the repository.
func NewPostgresResultRepository(db *sqlx.DB) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// EnsureSchema creates the table and indexes when missing.
func (r *PostgresResultRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return errx.Wrap(err, "failed to create extraction_results schema", errx.TypeInternal)
	}
	return nil
}

type resultRow struct {
	ID           string         `db:"id"`
	JobID        sql.NullString `db:"job_id"`
	Source       string         `db:"source"`
	Mode         string         `db:"mode"`
	PageCount    int            `db:"page_count"`
	TextCount    int            `db:"text_count"`
	TableCount   int            `db:"table_count"`
	FailureCodes pq.StringArray `db:"failure_codes"`
	Aggregate    []byte         `db:"aggregate"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Save inserts the result, replacing an earlier one with the same ID.
func (r *PostgresResultRepository) Save(ctx context.Context, res extract.Result) error {
	row, err := toPersistence(res)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO extraction_results (
			id, job_id, source, mode, page_count, text_count, table_count,
			failure_codes, aggregate, created_at
		) VALUES (
			:id, :job_id, :source, :mode, :page_count, :text_count, :table_count,
			:failure_codes, :aggregate, :created_at
		)
		ON CONFLICT (id) DO UPDATE SET
			page_count = EXCLUDED.page_count,
			text_count = EXCLUDED.text_count,
			table_count = EXCLUDED.table_count,
			failure_codes = EXCLUDED.failure_codes,
			aggregate = EXCLUDED.aggregate`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation on job_id
			return errx.Wrap(err, "a result for this job already exists", errx.TypeConflict).
				WithDetail("job_id", res.JobID)
		}
		return errx.Wrap(err, "failed to save extraction result", errx.TypeInternal).
			WithDetail("result_id", res.ID)
	}
	return nil
}

// FindByID loads a result by its run ID.
func (r *PostgresResultRepository) FindByID(ctx context.Context, id string) (*extract.Result, error) {
	return r.findOne(ctx, `SELECT * FROM extraction_results WHERE id = $1`, id)
}

// FindByJobID loads the result produced by a job.
func (r *PostgresResultRepository) FindByJobID(ctx context.Context, jobID string) (*extract.Result, error) {
	return r.findOne(ctx, `SELECT * FROM extraction_results WHERE job_id = $1`, jobID)
}

// ListRecent returns the newest results first.
func (r *PostgresResultRepository) ListRecent(ctx context.Context, limit int) ([]*extract.Result, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []resultRow
	query := `SELECT * FROM extraction_results ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, errx.Wrap(err, "failed to list extraction results", errx.TypeInternal)
	}

	out := make([]*extract.Result, 0, len(rows))
	for _, row := range rows {
		res, err := toDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *PostgresResultRepository) findOne(ctx context.Context, query string, arg string) (*extract.Result, error) {
	var row resultRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, extract.ErrRegistry.New(extract.ErrResultNotFound).WithDetail("id", arg)
		}
		return nil, errx.Wrap(err, "failed to load extraction result", errx.TypeInternal)
	}
	return toDomain(row)
}

func toPersistence(res extract.Result) (resultRow, error) {
	data, err := json.Marshal(res.Aggregate)
	if err != nil {
		return resultRow{}, errx.Wrap(err, "failed to encode aggregate", errx.TypeInternal)
	}

	codes := make(pq.StringArray, 0, len(res.Aggregate.Failures))
	for _, f := range res.Aggregate.Failures {
		codes = append(codes, f.Code)
	}

	return resultRow{
		ID:           res.ID,
		JobID:        sql.NullString{String: res.JobID, Valid: res.JobID != ""},
		Source:       res.Source,
		Mode:         string(res.Mode),
		PageCount:    res.Aggregate.PageCount,
		TextCount:    len(res.Aggregate.Texts),
		TableCount:   len(res.Aggregate.Tables),
		FailureCodes: codes,
		Aggregate:    data,
		CreatedAt:    res.CreatedAt,
	}, nil
}

func toDomain(row resultRow) (*extract.Result, error) {
	var agg extract.Aggregate
	if err := json.Unmarshal(row.Aggregate, &agg); err != nil {
		return nil, errx.Wrap(err, "failed to decode aggregate", errx.TypeInternal).
			WithDetail("result_id", row.ID)
	}
	return &extract.Result{
		ID:        row.ID,
		JobID:     row.JobID.String,
		Source:    row.Source,
		Mode:      extract.Mode(row.Mode),
		Aggregate: agg,
		CreatedAt: row.CreatedAt,
	}, nil
}
