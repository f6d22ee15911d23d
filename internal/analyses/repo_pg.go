package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis. The structured result is stored as JSONB.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id,
    user_id,
    document_id,
    provider,
    model,
    result,
    degraded,
    degraded_reason,
    risk_score,
    extraction_path,
    highlighted_text,
    report_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	resultJSON, err := json.Marshal(analysis.Result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.UserID,
		nullable(analysis.DocumentID),
		analysis.Provider,
		analysis.Model,
		resultJSON,
		analysis.Degraded,
		nullable(analysis.DegradedReason),
		analysis.RiskScore,
		analysis.ExtractionPath,
		nullable(analysis.HighlightedText),
		nullable(analysis.ReportKey),
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, document_id, provider, model, result, degraded, degraded_reason,
       risk_score, extraction_path, highlighted_text, report_key, created_at
FROM analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, analysisID, userID)
	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// ListByUser returns analyses for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	const query = `
SELECT id, user_id, document_id, provider, model, result, degraded, degraded_reason,
       risk_score, extraction_path, highlighted_text, report_key, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var documentID, degradedReason, highlighted, reportKey sql.NullString
	var resultJSON []byte

	err := row.Scan(
		&analysis.ID,
		&analysis.UserID,
		&documentID,
		&analysis.Provider,
		&analysis.Model,
		&resultJSON,
		&analysis.Degraded,
		&degradedReason,
		&analysis.RiskScore,
		&analysis.ExtractionPath,
		&highlighted,
		&reportKey,
		&analysis.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}

	if err := json.Unmarshal(resultJSON, &analysis.Result); err != nil {
		return Analysis{}, fmt.Errorf("unmarshal analysis result: %w", err)
	}
	analysis.DocumentID = documentID.String
	analysis.DegradedReason = degradedReason.String
	analysis.HighlightedText = highlighted.String
	analysis.ReportKey = reportKey.String
	return analysis, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
