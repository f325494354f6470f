package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxResponseBytes caps how much of a backend response is read.
const maxResponseBytes = 1 << 20

// HuggingFace calls the Hugging Face Inference API text-generation task.
type HuggingFace struct {
	url    string // e.g. "https://api-inference.huggingface.co/models/gpt2"
	apiKey string
	client *http.Client // reused across calls; deadlines come from the context
}

// Compile-time check: *HuggingFace satisfies the Backend interface.
var _ Backend = (*HuggingFace)(nil)

// NewHuggingFace creates a backend for model served under baseURL.
func NewHuggingFace(baseURL, model, apiKey string) *HuggingFace {
	return &HuggingFace{
		url:    strings.TrimRight(baseURL, "/") + "/models/" + model,
		apiKey: apiKey,
		client: &http.Client{},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int  `json:"max_new_tokens"`
	ReturnFullText bool `json:"return_full_text"`
}

// Complete posts the prompt and extracts generated_text from the response.
func (h *HuggingFace) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	jsonData, err := json.Marshal(hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", &GenerationError{Reason: "Hugging Face request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &GenerationError{Reason: "failed to read Hugging Face response", Wrapped: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GenerationError{
			Reason: fmt.Sprintf("Hugging Face returned status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	return decodeHFResponse(body)
}

// decodeHFResponse accepts [{"generated_text": …}], {"generated_text": …},
// or a bare JSON string. Anything else is reported with the serialized body.
func decodeHFResponse(body []byte) (string, error) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &GenerationError{Reason: "invalid JSON from Hugging Face", Wrapped: err}
	}

	switch v := data.(type) {
	case []any:
		if len(v) > 0 {
			if text, ok := generatedText(v[0]); ok {
				return text, nil
			}
		}
	case map[string]any:
		if text, ok := generatedText(v); ok {
			return text, nil
		}
	case string:
		return v, nil
	}

	serialized, _ := json.Marshal(data)
	return "", &GenerationError{
		Reason: "unexpected response shape: " + truncate(string(serialized), 200),
	}
}

func generatedText(v any) (string, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	text, ok := obj["generated_text"].(string)
	return text, ok
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
