package quality

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists quality reports in PostgreSQL. Each assessment is
// appended, so the full scoring history per dataset is kept.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new quality report repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the reports table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS quality_reports (
			id BIGSERIAL PRIMARY KEY,
			dataset_id TEXT NOT NULL,
			overall_score DOUBLE PRECISION NOT NULL,
			assessment_date TIMESTAMPTZ NOT NULL,
			assessor_version TEXT NOT NULL,
			summary TEXT NOT NULL,
			metric_scores JSONB NOT NULL,
			recommendations JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_quality_reports_dataset
			ON quality_reports (dataset_id, assessment_date DESC)
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure quality_reports schema: %w", err)
	}

	return nil
}

// Save appends a report to the history
func (r *Repository) Save(ctx context.Context, report *Report) error {
	metricScores, err := json.Marshal(report.MetricScores)
	if err != nil {
		return fmt.Errorf("marshal metric scores: %w", err)
	}

	recommendations, err := json.Marshal(report.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO quality_reports (
			dataset_id, overall_score, assessment_date,
			assessor_version, summary, metric_scores, recommendations
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.pool.Exec(ctx, query,
		report.DatasetID,
		report.OverallScore,
		report.AssessmentDate,
		report.AssessorVersion,
		report.Summary,
		metricScores,
		recommendations,
	)
	if err != nil {
		return fmt.Errorf("save quality report: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent report for a dataset
func (r *Repository) GetLatest(ctx context.Context, datasetID string) (*Report, error) {
	query := `
		SELECT dataset_id, overall_score, assessment_date,
		       assessor_version, summary, metric_scores, recommendations
		FROM quality_reports
		WHERE dataset_id = $1
		ORDER BY assessment_date DESC
		LIMIT 1
	`

	report, err := scanReport(r.pool.QueryRow(ctx, query, datasetID))
	if err != nil {
		return nil, fmt.Errorf("get latest quality report: %w", err)
	}

	return report, nil
}

// ListLatest retrieves the most recent report per dataset, for corpus
// statistics across the whole catalog.
func (r *Repository) ListLatest(ctx context.Context, limit int) ([]*Report, error) {
	query := `
		SELECT DISTINCT ON (dataset_id)
		       dataset_id, overall_score, assessment_date,
		       assessor_version, summary, metric_scores, recommendations
		FROM quality_reports
		ORDER BY dataset_id, assessment_date DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list latest quality reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quality report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list latest quality reports: %w", err)
	}

	return reports, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*Report, error) {
	var report Report
	var metricScores, recommendations []byte

	err := row.Scan(
		&report.DatasetID,
		&report.OverallScore,
		&report.AssessmentDate,
		&report.AssessorVersion,
		&report.Summary,
		&metricScores,
		&recommendations,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(metricScores, &report.MetricScores); err != nil {
		return nil, fmt.Errorf("unmarshal metric scores: %w", err)
	}
	if err := json.Unmarshal(recommendations, &report.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations: %w", err)
	}

	return &report, nil
}
