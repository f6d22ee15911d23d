package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var pgColumns = []string{
	"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_key",
	"title", "summary", "risk_flags", "risk_score", "uploaded_at",
}

func TestPGCreateMarshalsRiskFlags(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer mockDB.Close()
	repo := &PGRepo{DB: mockDB}

	doc := Document{
		ID:         "d1",
		UserID:     "u1",
		FileName:   "lease.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1024,
		StorageKey: "u1/lease.pdf",
		Title:      "Lease Agreement",
		Summary:    "s",
		RiskFlags:  []string{"Automatic renewal"},
		RiskScore:  85,
		UploadedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID, doc.UserID, doc.FileName, doc.MimeType, doc.SizeBytes,
			sqlmock.AnyArg(), doc.Title, doc.Summary,
			[]byte(`["Automatic renewal"]`), doc.RiskScore, doc.UploadedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGListAppliesFiltersAndOrder(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer mockDB.Close()
	repo := &PGRepo{DB: mockDB}

	uploadedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(pgColumns).AddRow(
		"d1", "u1", "lease.pdf", "application/pdf", int64(1024), "u1/lease.pdf",
		"Lease Agreement", "s", []byte(`["Automatic renewal"]`), 85, uploadedAt,
	)

	mock.ExpectQuery(`SELECT .+ FROM documents WHERE user_id = \$1 AND deleted_at IS NULL AND \(title ILIKE \$2 OR summary ILIKE \$2\) AND risk_score >= 70 ORDER BY risk_score DESC, uploaded_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("u1", "%lease%", 20, 0).
		WillReturnRows(rows)

	docs, err := repo.ListByUser(context.Background(), "u1", ListOptions{
		Search:     "lease",
		RiskFilter: "high",
		SortBy:     SortHighRisk,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("docs = %+v", docs)
	}
	if len(docs[0].RiskFlags) != 1 || docs[0].RiskFlags[0] != "Automatic renewal" {
		t.Errorf("risk flags = %v", docs[0].RiskFlags)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPGDeleteNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer mockDB.Close()
	repo := &PGRepo{DB: mockDB}

	mock.ExpectExec("UPDATE documents").
		WithArgs("u1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "u1", "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
