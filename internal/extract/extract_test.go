package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"justiplay-backend/internal/extract/pdftest"
)

type fakeOCR struct {
	text  string
	err   error
	calls int
}

func (f *fakeOCR) Process(ctx context.Context, content []byte, mimeType string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

const digitalSentence = "This Agreement terminates upon 30 days written notice delivered to the other party at its registered address."

func TestExtractDigitalPDFSkipsOCR(t *testing.T) {
	ocr := &fakeOCR{text: "should not be used"}
	router := &Router{OCR: ocr}

	content := pdftest.DocumentPDF(digitalSentence, "Second page recites the governing law and severability terms of this Agreement in full detail.")
	res := router.Extract(context.Background(), content, "application/pdf")

	if res.Source != SourceDigital {
		t.Fatalf("expected digital source, got %s", res.Source)
	}
	if !strings.Contains(res.Text, "terminates upon 30 days") {
		t.Fatalf("expected extracted text to contain the agreement sentence, got %q", res.Text)
	}
	if ocr.calls != 0 {
		t.Fatalf("expected no OCR calls for digital PDF, got %d", ocr.calls)
	}
}

func TestExtractMimeParameterIgnored(t *testing.T) {
	router := &Router{}
	content := pdftest.DocumentPDF(digitalSentence)

	res := router.Extract(context.Background(), content, "Application/PDF; charset=binary")
	if res.Source != SourceDigital {
		t.Fatalf("expected digital source for parameterized pdf mime, got %s", res.Source)
	}
}

func TestExtractScannedWithoutOCRConfigured(t *testing.T) {
	router := &Router{OCR: nil}

	// Sparse text keeps every probed page under the threshold.
	content := pdftest.DocumentPDF("p1", "p2")
	res := router.Extract(context.Background(), content, "application/pdf")

	if res.Source != SourceFailed {
		t.Fatalf("expected failed source, got %s", res.Source)
	}
	if !strings.Contains(res.Text, "OCR is not configured") {
		t.Fatalf("expected unconfigured sentinel, got %q", res.Text)
	}
}

func TestExtractImageRoutesToOCR(t *testing.T) {
	ocr := &fakeOCR{text: "Recognized lease text from the scanned page."}
	router := &Router{OCR: ocr}

	res := router.Extract(context.Background(), []byte{0xff, 0xd8, 0xff}, "image/jpeg")

	if res.Source != SourceOCR {
		t.Fatalf("expected ocr source, got %s", res.Source)
	}
	if res.Text != ocr.text {
		t.Fatalf("expected OCR text passthrough, got %q", res.Text)
	}
	if ocr.calls != 1 {
		t.Fatalf("expected one OCR call, got %d", ocr.calls)
	}
}

func TestExtractOCRFailureTruncatesDetail(t *testing.T) {
	longErr := errors.New(strings.Repeat("processor exploded ", 20))
	router := &Router{OCR: &fakeOCR{err: longErr}}

	res := router.Extract(context.Background(), []byte("not a pdf"), "image/png")

	if res.Source != SourceFailed {
		t.Fatalf("expected failed source, got %s", res.Source)
	}
	if !strings.Contains(res.Text, "OCR processing failed") {
		t.Fatalf("expected failure sentinel, got %q", res.Text)
	}
	if strings.Contains(res.Text, longErr.Error()) {
		t.Fatalf("expected technical detail to be truncated")
	}
	if !strings.Contains(res.Text, longErr.Error()[:ocrErrorDetailMax]) {
		t.Fatalf("expected first %d chars of detail, got %q", ocrErrorDetailMax, res.Text)
	}
}

func TestHasDigitalTextProbeLimitedToFirstPages(t *testing.T) {
	// Text only on page 4: the three-page probe must not see it.
	content := pdftest.DocumentPDF("", "", "", digitalSentence)
	if hasDigitalText(content) {
		t.Fatal("expected probe to ignore pages beyond the first three")
	}

	content = pdftest.DocumentPDF("", digitalSentence)
	if !hasDigitalText(content) {
		t.Fatal("expected probe to find text on page two")
	}
}

func TestHasDigitalTextRejectsGarbage(t *testing.T) {
	if hasDigitalText([]byte("definitely not a pdf")) {
		t.Fatal("expected garbage bytes to report no digital text")
	}
}
