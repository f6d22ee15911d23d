package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, file_name, mime_type, size_bytes, storage_key, title, summary, risk_flags, risk_score, uploaded_at`

// Create inserts a new document. Deletes are soft, so an insert never
// collides with a removed record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    title,
    summary,
    risk_flags,
    risk_score,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	flags, err := json.Marshal(doc.RiskFlags)
	if err != nil {
		return fmt.Errorf("marshal risk flags: %w", err)
	}

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageKey,
		doc.Title,
		doc.Summary,
		flags,
		doc.RiskScore,
		doc.UploadedAt,
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, userId, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents filtered and ordered per opts.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, opts ListOptions) ([]Document, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 AND deleted_at IS NULL`)
	args := []any{userId}

	if search := strings.TrimSpace(opts.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		fmt.Fprintf(&sb, ` AND (title ILIKE $%d OR summary ILIKE $%d)`, n, n)
	}
	switch opts.RiskFilter {
	case "high":
		fmt.Fprintf(&sb, ` AND risk_score >= %d`, RiskScoreHighMin)
	case "medium":
		fmt.Fprintf(&sb, ` AND risk_score >= %d AND risk_score < %d`, RiskScoreMediumMin, RiskScoreHighMin)
	case "low":
		fmt.Fprintf(&sb, ` AND risk_score < %d`, RiskScoreMediumMin)
	}

	switch opts.SortBy {
	case SortOldest:
		sb.WriteString(` ORDER BY uploaded_at ASC`)
	case SortHighRisk:
		sb.WriteString(` ORDER BY risk_score DESC, uploaded_at DESC`)
	case SortLowRisk:
		sb.WriteString(` ORDER BY risk_score ASC, uploaded_at DESC`)
	default:
		sb.WriteString(` ORDER BY uploaded_at DESC`)
	}

	args = append(args, limit, offset)
	fmt.Fprintf(&sb, ` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Delete soft-deletes a document for a user.
func (r *PGRepo) Delete(ctx context.Context, userId, documentID string) error {
	const query = `
UPDATE documents
SET deleted_at = NOW()
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, userId, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimGuest reassigns documents owned by a guest user to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	const query = `
UPDATE documents
SET user_id = $1
WHERE user_id = $2 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	updated, _ := res.RowsAffected()
	return int(updated), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var storageKey sql.NullString
	var flags []byte
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&storageKey,
		&doc.Title,
		&doc.Summary,
		&flags,
		&doc.RiskScore,
		&doc.UploadedAt,
	); err != nil {
		return Document{}, err
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	if len(flags) > 0 {
		if err := json.Unmarshal(flags, &doc.RiskFlags); err != nil {
			return Document{}, fmt.Errorf("unmarshal risk flags: %w", err)
		}
	}
	return doc, nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
