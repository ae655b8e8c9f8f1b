package resume

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"code.sajari.com/docconv"
)

// DocconvExtractor fetches the document and converts it to text locally.
// It is the offline alternative to the hosted OCR backend and needs no API
// key, at the cost of weaker handling of scanned PDFs.
type DocconvExtractor struct {
	httpClient *http.Client
}

// NewDocconvExtractor creates the local extractor. A nil httpClient falls
// back to http.DefaultClient.
func NewDocconvExtractor(httpClient *http.Client) *DocconvExtractor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &DocconvExtractor{httpClient: httpClient}
}

// ExtractText downloads the document and runs it through docconv.
func (d *DocconvExtractor) ExtractText(ctx context.Context, docURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return "", &InvalidSourceError{URL: docURL, Err: err}
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &InvalidSourceError{URL: docURL, Err: fmt.Errorf("fetch returned status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read document body: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, true)
	if err != nil {
		return "", fmt.Errorf("convert document: %w", err)
	}
	return res.Body, nil
}
