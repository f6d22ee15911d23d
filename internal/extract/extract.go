package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"justiplay-backend/internal/shared/telemetry"
)

const (
	mimePDF = "application/pdf"

	// probePages bounds the cost of the digital-text check on large PDFs.
	probePages = 3
	// probeMinChars is the per-page non-whitespace threshold that separates
	// real text layers from whitespace/metadata artifacts.
	probeMinChars = 50
	// ocrErrorDetailMax truncates technical OCR failure details before they
	// are embedded in the user-facing sentinel text.
	ocrErrorDetailMax = 100
)

// Source records which extraction path produced the text.
type Source string

const (
	SourceDigital Source = "digital"
	SourceOCR     Source = "ocr"
	SourceFailed  Source = "failed"
)

// Result is extracted plain text tagged with its provenance. When Source is
// SourceFailed, Text holds a user-facing explanation rather than document
// content.
type Result struct {
	Text   string
	Source Source
}

// OCRBackend recognizes text in scanned documents and images.
type OCRBackend interface {
	Process(ctx context.Context, content []byte, mimeType string) (string, error)
}

// Router decides between direct PDF text extraction and OCR per input.
// A nil OCR backend means OCR is unconfigured and non-digital documents
// degrade to a sentinel result.
type Router struct {
	OCR OCRBackend
}

// Extract pulls plain text from raw document bytes. It never returns an
// error: every failure mode resolves to a Result the caller can render.
func (r *Router) Extract(ctx context.Context, content []byte, mimeType string) Result {
	mime := normalizeMimeType(mimeType)

	if mime == mimePDF && hasDigitalText(content) {
		text, err := extractPDFText(content)
		if err != nil {
			telemetry.Error("extract.digital_failed", map[string]any{"error": err.Error()})
			return Result{Text: "", Source: SourceDigital}
		}
		return Result{Text: text, Source: SourceDigital}
	}

	if r.OCR == nil {
		telemetry.Info("extract.ocr_unconfigured", map[string]any{"mime_type": mime})
		return Result{
			Text: "ERROR: This document appears to be scanned or is an image. " +
				"OCR is not configured. Please upload a PDF with digital text, " +
				"or configure a Document AI OCR processor.",
			Source: SourceFailed,
		}
	}

	text, err := r.OCR.Process(ctx, content, mime)
	if err != nil {
		detail := err.Error()
		if len(detail) > ocrErrorDetailMax {
			detail = detail[:ocrErrorDetailMax]
		}
		telemetry.Error("extract.ocr_failed", map[string]any{"mime_type": mime, "error": err.Error()})
		return Result{
			Text: fmt.Sprintf("ERROR: OCR processing failed. This document may be scanned or an image. "+
				"Please upload a PDF with digital text. (Technical error: %s)", detail),
			Source: SourceFailed,
		}
	}
	return Result{Text: text, Source: SourceOCR}
}

// hasDigitalText samples up to the first three pages of a PDF for a real
// text layer. Parse failures are treated as "no digital text" so the input
// falls through to the OCR path.
func hasDigitalText(content []byte) bool {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return false
	}

	pages := reader.NumPage()
	if pages > probePages {
		pages = probePages
	}
	for i := 1; i <= pages; i++ {
		if countNonSpace(pageText(reader, i)) > probeMinChars {
			return true
		}
	}
	return false
}

// extractPDFText extracts all pages of a digitally native PDF.
func extractPDFText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// pageText reads one page's text, swallowing parser errors and panics so a
// malformed page simply contributes nothing to the probe.
func pageText(reader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

func countNonSpace(s string) int {
	count := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
