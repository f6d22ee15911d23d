// Package metrics exposes process-local counters in Prometheus text
// format without a client library dependency.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	extractionDigitalTotal atomic.Uint64
	extractionOCRTotal     atomic.Uint64
	extractionFailedTotal  atomic.Uint64

	analysisCompletedTotal atomic.Uint64
	analysisDegradedTotal  atomic.Uint64
	analysisFailedTotal    atomic.Uint64

	clauseHighlightMatchedTotal atomic.Uint64
	clauseHighlightMissedTotal  atomic.Uint64

	analysisDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncExtractionDigital counts documents served by the digital text path.
func IncExtractionDigital() { extractionDigitalTotal.Add(1) }

// IncExtractionOCR counts documents routed through OCR.
func IncExtractionOCR() { extractionOCRTotal.Add(1) }

// IncExtractionFailed counts documents that produced no usable text.
func IncExtractionFailed() { extractionFailedTotal.Add(1) }

// IncAnalysisCompleted counts analyses that produced a full result.
func IncAnalysisCompleted() { analysisCompletedTotal.Add(1) }

// IncAnalysisDegraded counts analyses that completed with the fallback shape.
func IncAnalysisDegraded() { analysisDegradedTotal.Add(1) }

// IncAnalysisFailed counts analyses that returned an error to the caller.
func IncAnalysisFailed() { analysisFailedTotal.Add(1) }

// IncClauseHighlightMatched counts clauses located in the source text.
func IncClauseHighlightMatched() { clauseHighlightMatchedTotal.Add(1) }

// IncClauseHighlightMissed counts clauses that could not be located.
func IncClauseHighlightMissed() { clauseHighlightMissedTotal.Add(1) }

// ObserveAnalysisDurationMs records one end-to-end pipeline duration.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders all metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "extraction_digital_total", "Documents extracted via embedded text", extractionDigitalTotal.Load())
	writeCounter(&buf, "extraction_ocr_total", "Documents extracted via OCR", extractionOCRTotal.Load())
	writeCounter(&buf, "extraction_failed_total", "Documents with no usable text", extractionFailedTotal.Load())
	writeCounter(&buf, "analysis_completed_total", "Analyses completed with a full result", analysisCompletedTotal.Load())
	writeCounter(&buf, "analysis_degraded_total", "Analyses completed with the fallback result", analysisDegradedTotal.Load())
	writeCounter(&buf, "analysis_failed_total", "Analyses that returned an error", analysisFailedTotal.Load())
	writeCounter(&buf, "clause_highlight_matched_total", "Clauses located in source text", clauseHighlightMatchedTotal.Load())
	writeCounter(&buf, "clause_highlight_missed_total", "Clauses not located in source text", clauseHighlightMissedTotal.Load())
	writeHistogram(&buf, "analysis_duration_ms", "Pipeline duration in milliseconds", analysisDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
