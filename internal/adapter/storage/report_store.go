// internal/adapter/storage/report_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/jessicalanggg/trendlytics/internal/domain/analysis"
)

// ErrNotFound is returned when a report does not exist.
var ErrNotFound = errors.New("report not found")

// ReportStore implements Postgres storage for analysis reports. Reports
// are stored whole as JSONB since they are written once and read whole.
type ReportStore struct {
	db *pgxpool.Pool
}

// NewReportStore creates a new report store
func NewReportStore(db *pgxpool.Pool) *ReportStore {
	return &ReportStore{
		db: db,
	}
}

// SaveReport saves a profile analysis report
func (s *ReportStore) SaveReport(ctx context.Context, r analysis.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	query := `
		INSERT INTO reports (id, platform, handle, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET payload = $4
	`

	_, err = s.db.Exec(ctx, query, r.ID, r.Platform, r.Handle, payload, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// SaveChannelReport saves a channel analysis report
func (s *ReportStore) SaveChannelReport(ctx context.Context, r analysis.ChannelReport) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling channel report: %w", err)
	}

	query := `
		INSERT INTO reports (id, platform, handle, payload, created_at)
		VALUES ($1, 'youtube', $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET payload = $3
	`

	_, err = s.db.Exec(ctx, query, r.ID, r.ChannelID, payload, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// GetReport retrieves a profile report by ID
func (s *ReportStore) GetReport(ctx context.Context, id string) (*analysis.Report, error) {
	query := `SELECT payload FROM reports WHERE id = $1`

	var payload []byte
	err := s.db.QueryRow(ctx, query, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying report: %w", err)
	}

	var r analysis.Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("error unmarshaling report: %w", err)
	}
	return &r, nil
}

// GetChannelReport retrieves a channel report by ID
func (s *ReportStore) GetChannelReport(ctx context.Context, id string) (*analysis.ChannelReport, error) {
	query := `SELECT payload FROM reports WHERE id = $1 AND platform = 'youtube'`

	var payload []byte
	err := s.db.QueryRow(ctx, query, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying channel report: %w", err)
	}

	var r analysis.ChannelReport
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("error unmarshaling channel report: %w", err)
	}
	return &r, nil
}

// ListReports returns recent reports, newest first, optionally filtered
// by platform.
func (s *ReportStore) ListReports(ctx context.Context, platform string, limit int) ([]analysis.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT payload FROM reports`
	args := []interface{}{}
	if platform != "" {
		query += ` WHERE platform = $1`
		args = append(args, platform)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var reports []analysis.Report
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		var r analysis.Report
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, fmt.Errorf("error unmarshaling report: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}
