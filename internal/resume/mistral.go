package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	mistralOCREndpoint = "https://api.mistral.ai/v1/ocr"
	mistralOCRModel    = "mistral-ocr-latest"
)

// MistralExtractor extracts document text through the Mistral OCR API. The
// API fetches the document itself, so only the URL crosses the wire.
type MistralExtractor struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewMistralExtractor creates the OCR-backed extractor. A nil httpClient
// falls back to http.DefaultClient.
func NewMistralExtractor(apiKey string, httpClient *http.Client) *MistralExtractor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MistralExtractor{
		apiKey:     apiKey,
		endpoint:   mistralOCREndpoint,
		httpClient: httpClient,
	}
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrResponse struct {
	Pages []struct {
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

// ExtractText submits the document URL for OCR and joins the per-page
// markdown into a single text blob.
func (m *MistralExtractor) ExtractText(ctx context.Context, docURL string) (string, error) {
	body, err := json.Marshal(ocrRequest{
		Model:    mistralOCRModel,
		Document: ocrDocument{Type: "document_url", DocumentURL: docURL},
	})
	if err != nil {
		return "", fmt.Errorf("marshal OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call OCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		// 4xx means the API could not fetch or read the document, which is a
		// source problem, not a backend outage.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", &InvalidSourceError{URL: docURL, Err: fmt.Errorf("OCR API status %d: %s", resp.StatusCode, msg)}
		}
		return "", fmt.Errorf("OCR API status %d: %s", resp.StatusCode, msg)
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode OCR response: %w", err)
	}

	pages := make([]string, 0, len(parsed.Pages))
	for _, p := range parsed.Pages {
		pages = append(pages, p.Markdown)
	}
	return strings.Join(pages, "\n"), nil
}
