package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"billmunshi/internal/analyzer"
	"billmunshi/internal/config"
	"billmunshi/internal/port"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// Analyzer implements port.BillAnalyzer using the Google Gemini API.
type Analyzer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAnalyzer creates a Gemini-based bill analyzer.
func NewAnalyzer(cfg *config.AnalyzerConfig) *Analyzer {
	return newAnalyzer(cfg, "")
}

// NewAnalyzerWithEndpoint creates an analyzer pointing at a custom API endpoint (for testing).
func NewAnalyzerWithEndpoint(cfg *config.AnalyzerConfig, endpoint string) *Analyzer {
	return newAnalyzer(cfg, endpoint)
}

func newAnalyzer(cfg *config.AnalyzerConfig, endpoint string) *Analyzer {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Analyzer{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (a *Analyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*port.AnalyzeOutput, error) {
	switch input.ContentType {
	case "image/jpeg", "image/png", "application/pdf":
	default:
		return nil, fmt.Errorf("unsupported content type for analysis: %s", input.ContentType)
	}

	prompt := analyzer.BuildPrompt(input.Kind)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
					{
						"inline_data": map[string]string{
							"mime_type": input.ContentType,
							"data":      base64.StdEncoding.EncodeToString(input.FileBytes),
						},
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"maxOutputTokens":  8192,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := analyzer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, analyzer.NewRateLimitError("gemini", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, a.model, prompt)
}

// apiResponse models the generateContent response.
type apiResponse struct {
	Candidates []struct {
		FinishReason string `json:"finishReason"`
		Content      struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func parseResponse(body []byte, model, prompt string) (*port.AnalyzeOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}
	if resp.Candidates[0].FinishReason == "MAX_TOKENS" {
		return nil, fmt.Errorf("output truncated (finishReason: MAX_TOKENS): response exceeded output token limit")
	}

	var text string
	for _, p := range resp.Candidates[0].Content.Parts {
		text += p.Text
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("analyzer returned invalid JSON: %.500s", text)
	}

	return &port.AnalyzeOutput{
		RawData:    json.RawMessage(text),
		ModelUsed:  model,
		PromptUsed: prompt,
	}, nil
}
