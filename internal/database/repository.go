package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Naawshin/Multilabel-Skill-Classifier/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_records (
	job_url         TEXT PRIMARY KEY,
	title           TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	salary          TEXT NOT NULL DEFAULT '',
	job_type        TEXT NOT NULL DEFAULT '',
	job_description TEXT NOT NULL DEFAULT '',
	scraped_at      TIMESTAMPTZ NOT NULL,
	run_id          UUID,
	inserted_at     TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Repository mirrors harvested job records into Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// poolers in transaction mode reject cached prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create job_records table: %w", err)
	}
	return nil
}

// SaveJobRecord inserts rec unless its job_url is already stored.
func (r *Repository) SaveJobRecord(ctx context.Context, runID string, rec models.JobRecord) error {
	query := `
		INSERT INTO job_records (job_url, title, company, location, salary, job_type, job_description, scraped_at, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid)
		ON CONFLICT (job_url) DO NOTHING`

	_, err := r.db.Exec(ctx, query,
		rec.JobURL, rec.Title, rec.Company, rec.Location, rec.Salary, rec.JobType, rec.JobDescription, rec.ScrapedAt, runID)
	if err != nil {
		return fmt.Errorf("failed to save job record: %w", err)
	}
	return nil
}

// SaveJobRecords inserts records in one batch.
func (r *Repository) SaveJobRecords(ctx context.Context, runID string, recs []models.JobRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(`
			INSERT INTO job_records (job_url, title, company, location, salary, job_type, job_description, scraped_at, run_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid)
			ON CONFLICT (job_url) DO NOTHING`,
			rec.JobURL, rec.Title, rec.Company, rec.Location, rec.Salary, rec.JobType, rec.JobDescription, rec.ScrapedAt, runID)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	inserted := 0
	for range recs {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to save job record batch: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func (r *Repository) CountJobRecords(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM job_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count job records: %w", err)
	}
	return n, nil
}
