package openai

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

const apiURL = "https://api.openai.com/v1/chat/completions"

// Analyzer implements port.BillAnalyzer using the OpenAI Chat Completions API.
type Analyzer struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewAnalyzer creates an OpenAI-based bill analyzer from an analyzer config.
func NewAnalyzer(cfg *config.AnalyzerConfig) *Analyzer {
	return newAnalyzer(cfg, apiURL)
}

// NewAnalyzerWithEndpoint creates an analyzer pointing at a custom API endpoint (for testing).
func NewAnalyzerWithEndpoint(cfg *config.AnalyzerConfig, endpoint string) *Analyzer {
	return newAnalyzer(cfg, endpoint)
}

func newAnalyzer(cfg *config.AnalyzerConfig, endpoint string) *Analyzer {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
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
	prompt := analyzer.BuildPrompt(input.Kind)

	content, err := contentBlocks(input, prompt)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]interface{}{
		"model":           a.model,
		"max_tokens":      4096,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": content,
			},
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
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := analyzer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, analyzer.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, a.model, prompt)
}

// contentBlocks builds the user message content. Images go as image_url
// parts, PDFs as file parts with a data URI; both carry the prompt text
// first.
func contentBlocks(input port.AnalyzeInput, prompt string) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	dataURI := fmt.Sprintf("data:%s;base64,%s", input.ContentType, encoded)

	var media map[string]interface{}
	switch input.ContentType {
	case "application/pdf":
		media = map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  "bill.pdf",
				"file_data": dataURI,
			},
		}
	case "image/jpeg", "image/png":
		media = map[string]interface{}{
			"type":      "image_url",
			"image_url": map[string]interface{}{"url": dataURI},
		}
	default:
		return nil, fmt.Errorf("unsupported content type for analysis: %s", input.ContentType)
	}

	return []map[string]interface{}{
		{"type": "text", "text": prompt},
		media,
	}, nil
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func parseResponse(body []byte, model, prompt string) (*port.AnalyzeOutput, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}

	text := resp.Choices[0].Message.Content
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("analyzer returned invalid JSON: %s", truncate(text, 500))
	}

	return &port.AnalyzeOutput{
		RawData:    json.RawMessage(text),
		ModelUsed:  model,
		PromptUsed: prompt,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
