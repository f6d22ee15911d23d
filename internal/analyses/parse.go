package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"justiplay-backend/internal/llm"
	"justiplay-backend/internal/shared/telemetry"
)

// maxInputChars bounds cost and latency against the model's context window.
const maxInputChars = 10000

// resultSchema validates the raw model output before decoding. A violation
// is handled exactly like a parse failure.
const resultSchemaJSON = `{
  "$schema": "https://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["document_type", "summary", "overall_risk", "risk_drivers", "clauses"],
  "properties": {
    "document_type": {"type": "string"},
    "summary": {"type": "string"},
    "overall_risk": {"type": "string"},
    "risk_drivers": {"type": "array", "items": {"type": "string"}},
    "clauses": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "text": {"type": "string"},
          "risk": {"type": "string"},
          "suggestion": {"type": "string"}
        }
      }
    }
  }
}`

var resultSchema = jsonschema.MustCompileString("analyze_v1.json", resultSchemaJSON)

// Analyzer obtains a structured risk analysis from the language model.
// It never returns an error: every failure mode resolves to a degraded
// Outcome carrying the documented fallback shape.
type Analyzer struct {
	LLM llm.Client
}

// Analyze truncates the document text to the input budget, invokes the
// model, and validates, repairs, and normalizes the response.
func (a *Analyzer) Analyze(ctx context.Context, text string) Outcome {
	if a == nil || a.LLM == nil {
		return degraded("Analysis failed", "analyzer not configured")
	}

	input := text
	if runes := []rune(text); len(runes) > maxInputChars {
		input = string(runes[:maxInputChars])
		telemetry.Info("analysis.truncated", map[string]any{
			"chars_before": len(runes),
			"chars_after":  maxInputChars,
		})
	}

	raw, err := a.LLM.AnalyzeDocument(ctx, input)
	if err != nil {
		telemetry.Error("analysis.llm_failed", map[string]any{"error": err.Error()})
		return degraded("Analysis error occurred", err.Error())
	}

	result, err := decodeResult(raw)
	if err != nil {
		telemetry.Error("analysis.decode_failed", map[string]any{"error": err.Error()})
		return degraded("Analysis failed", err.Error())
	}

	return Outcome{Result: result}
}

func degraded(driver, reason string) Outcome {
	return Outcome{
		Result:   FallbackResult(driver),
		Degraded: true,
		Reason:   reason,
	}
}

// decodeResult parses and validates a raw model response. The returned
// result is normalized; the error path is resolved by the caller into the
// fallback shape.
func decodeResult(raw json.RawMessage) (AnalysisResult, error) {
	text := stripCodeFences(strings.TrimSpace(string(raw)))

	var generic any
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return AnalysisResult{}, fmt.Errorf("parse response: %w", err)
	}

	// Some responses report their own inability to analyze instead of (or
	// alongside) the schema fields; trust that signal over partial data.
	if obj, ok := generic.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok && strings.TrimSpace(msg) != "" {
			return AnalysisResult{}, fmt.Errorf("model reported failure: %s", msg)
		}
	}

	if err := resultSchema.Validate(generic); err != nil {
		return AnalysisResult{}, fmt.Errorf("response missing required fields: %w", err)
	}

	var result AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode response: %w", err)
	}

	result.Normalize()
	if result.RiskDrivers == nil {
		result.RiskDrivers = []string{}
	}
	if result.Clauses == nil {
		result.Clauses = []Clause{}
	}
	return result, nil
}

// stripCodeFences removes a markdown ```json fence if the model wrapped its
// output despite JSON response mode.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && strings.EqualFold(strings.TrimSpace(s[:idx]), "json") {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
