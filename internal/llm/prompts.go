package llm

import _ "embed"

//go:embed prompts/analyze_v1.txt
var analyzePromptV1 string

// AnalyzePrompt returns the instruction contract sent as the system
// instruction for document analysis.
func AnalyzePrompt() string {
	return analyzePromptV1
}
