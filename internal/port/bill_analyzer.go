package port

import (
	"context"
	"encoding/json"

	"billmunshi/internal/domain"
)

// AnalyzeInput carries the data needed for AI bill analysis.
type AnalyzeInput struct {
	FileBytes   []byte
	ContentType string
	Kind        domain.BillKind
}

// AnalyzeOutput contains the raw structured result from the analyzer.
// RawData is kept exactly as returned; shape normalization happens in the
// analyzer package, not at this boundary.
type AnalyzeOutput struct {
	RawData    json.RawMessage
	ModelUsed  string
	PromptUsed string
}

// BillAnalyzer abstracts the external document-AI collaborator.
type BillAnalyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*AnalyzeOutput, error)
}
