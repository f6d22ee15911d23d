package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"justiplay-backend/internal/documents"
	"justiplay-backend/internal/extract"
	"justiplay-backend/internal/shared/metrics"
	"justiplay-backend/internal/shared/storage/object"
	"justiplay-backend/internal/shared/telemetry"
)

// minMeaningfulChars is the post-extraction guard: shorter trimmed text is
// treated as extraction failure regardless of provenance.
const minMeaningfulChars = 50

// Extractor turns raw document bytes into tagged plain text.
type Extractor interface {
	Extract(ctx context.Context, content []byte, mimeType string) extract.Result
}

// ReportGenerator renders an analysis to a stored, downloadable artifact.
type ReportGenerator interface {
	Generate(ctx context.Context, storageKey string, result AnalysisResult) error
}

// ProgressSink is notified after each completed analysis, for XP awards.
type ProgressSink interface {
	DocumentAnalyzed(ctx context.Context, userID string)
}

// Service owns the document intake -> analysis -> highlighting pipeline.
// Extraction and analysis failures short-circuit with recoverable errors;
// highlighting, report generation, and persistence are best-effort.
type Service struct {
	Repo      Repo
	DocRepo   documents.DocumentsRepo
	Store     object.ObjectStore
	Extractor Extractor
	Analyzer  *Analyzer
	Reports   ReportGenerator
	Progress  ProgressSink
	Provider  string
	Model     string
}

// AnalyzeUpload runs the full pipeline for one uploaded document.
func (s *Service) AnalyzeUpload(ctx context.Context, userID, fileName, mimeType string, content []byte) (Analysis, error) {
	if len(content) == 0 {
		return Analysis{}, ErrEmptyUpload
	}
	if userID == "" {
		return Analysis{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	startedAt := time.Now().UTC()

	// Clients that don't know the type send octet-stream; sniff those so a
	// PDF still takes the digital extraction path.
	mime := strings.TrimSpace(mimeType)
	if mime == "" || strings.HasPrefix(mime, "application/octet-stream") {
		mime = http.DetectContentType(content)
	}

	res := s.Extractor.Extract(ctx, content, mime)
	switch res.Source {
	case extract.SourceDigital:
		metrics.IncExtractionDigital()
	case extract.SourceOCR:
		metrics.IncExtractionOCR()
	default:
		metrics.IncExtractionFailed()
	}

	if res.Source == extract.SourceFailed {
		return Analysis{}, fmt.Errorf("%w: %s", ErrUnreadableDocument, res.Text)
	}
	text := res.Text
	if len(strings.TrimSpace(text)) < minMeaningfulChars {
		metrics.IncExtractionFailed()
		return Analysis{}, ErrUnreadableDocument
	}

	storageKey := s.saveUpload(ctx, userID, fileName, content)
	s.saveExtractedCopy(ctx, storageKey, text)

	outcome := s.Analyzer.Analyze(ctx, text)
	if outcome.Degraded && len(outcome.Result.Clauses) == 0 {
		metrics.IncAnalysisFailed()
		return Analysis{}, fmt.Errorf("%w: %s", ErrAnalysisFailed, outcome.Reason)
	}

	highlighted := Highlight(text, outcome.Result.Clauses)

	analysis := Analysis{
		ID:              uuid.NewString(),
		UserID:          userID,
		Provider:        s.Provider,
		Model:           s.Model,
		Result:          outcome.Result,
		Degraded:        outcome.Degraded,
		DegradedReason:  outcome.Reason,
		RiskScore:       RiskScore(outcome.Result),
		ExtractionPath:  string(res.Source),
		HighlightedText: highlighted,
		CreatedAt:       time.Now().UTC(),
	}

	analysis.ReportKey = s.generateReport(ctx, storageKey, analysis)
	analysis.DocumentID = s.persistDocument(ctx, userID, fileName, mime, int64(len(content)), storageKey, analysis)
	s.persistAnalysis(ctx, analysis)

	if outcome.Degraded {
		metrics.IncAnalysisDegraded()
	} else {
		metrics.IncAnalysisCompleted()
	}
	if s.Progress != nil {
		s.Progress.DocumentAnalyzed(ctx, userID)
	}
	metrics.ObserveAnalysisDurationMs(float64(time.Since(startedAt).Microseconds()) / 1000.0)

	telemetry.Info("analysis.complete", map[string]any{
		"user_id":         userID,
		"analysis_id":     analysis.ID,
		"document_id":     analysis.DocumentID,
		"document_type":   analysis.Result.DocumentType,
		"overall_risk":    analysis.Result.OverallRisk,
		"risk_score":      analysis.RiskScore,
		"clauses":         len(analysis.Result.Clauses),
		"extraction_path": analysis.ExtractionPath,
		"degraded":        analysis.Degraded,
	})
	return analysis, nil
}

// Get returns an analysis by ID scoped to its owner.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, fmt.Errorf("%w: analysis id is required", ErrInvalidInput)
	}
	if s.Repo == nil {
		return Analysis{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, analysisID)
}

// List returns analyses for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if s.Repo == nil {
		return []Analysis{}, nil
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenReport opens the stored report artifact for an analysis.
func (s *Service) OpenReport(ctx context.Context, userID, analysisID string) (io.ReadCloser, error) {
	analysis, err := s.Get(ctx, userID, analysisID)
	if err != nil {
		return nil, err
	}
	if analysis.ReportKey == "" || s.Store == nil {
		return nil, ErrNotFound
	}
	return s.Store.Open(ctx, analysis.ReportKey)
}

// saveUpload stores the original file. Storage is a best-effort side
// channel: a failure is logged and the pipeline continues without a file
// reference.
func (s *Service) saveUpload(ctx context.Context, userID, fileName string, content []byte) string {
	if s.Store == nil {
		return ""
	}
	key, _, _, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(content))
	if err != nil {
		telemetry.Error("analysis.upload_store_failed", map[string]any{
			"user_id": userID, "file_name": fileName, "error": err.Error(),
		})
		return ""
	}
	return key
}

type keySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

func (s *Service) saveExtractedCopy(ctx context.Context, storageKey, text string) {
	if storageKey == "" {
		return
	}
	saver, ok := s.Store.(keySaver)
	if !ok {
		return
	}
	key := storageKey + ".extracted.txt"
	if _, err := saver.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Error("analysis.extracted_copy_failed", map[string]any{"key": key, "error": err.Error()})
	}
}

func (s *Service) generateReport(ctx context.Context, storageKey string, analysis Analysis) string {
	if s.Reports == nil {
		return ""
	}
	reportKey := analysis.ID + ".report.html"
	if storageKey != "" {
		reportKey = storageKey + ".report.html"
	}
	if err := s.Reports.Generate(ctx, reportKey, analysis.Result); err != nil {
		telemetry.Error("analysis.report_failed", map[string]any{
			"analysis_id": analysis.ID, "error": err.Error(),
		})
		return ""
	}
	return reportKey
}

func (s *Service) persistDocument(ctx context.Context, userID, fileName, mime string, sizeBytes int64, storageKey string, analysis Analysis) string {
	if s.DocRepo == nil {
		return ""
	}
	doc := documents.Document{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		MimeType:   mime,
		SizeBytes:  sizeBytes,
		StorageKey: storageKey,
		Title:      DocumentTitle(analysis.Result, fileName),
		Summary:    TruncateSummary(analysis.Result.Summary),
		RiskFlags:  RiskFlags(analysis.Result),
		RiskScore:  analysis.RiskScore,
		UploadedAt: analysis.CreatedAt,
	}
	if err := s.DocRepo.Create(ctx, doc); err != nil {
		telemetry.Error("analysis.document_persist_failed", map[string]any{
			"user_id": userID, "document_id": doc.ID, "error": err.Error(),
		})
		return ""
	}
	return doc.ID
}

func (s *Service) persistAnalysis(ctx context.Context, analysis Analysis) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		telemetry.Error("analysis.persist_failed", map[string]any{
			"analysis_id": analysis.ID, "error": err.Error(),
		})
	}
}

// IsRecoverable reports whether err maps to a user-facing notification
// rather than an internal fault.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrEmptyUpload) ||
		errors.Is(err, ErrUnreadableDocument) ||
		errors.Is(err, ErrAnalysisFailed)
}
