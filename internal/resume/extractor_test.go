package resume

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingExtractor struct {
	text  string
	err   error
	calls int
	urls  []string
}

func (e *countingExtractor) ExtractText(_ context.Context, url string) (string, error) {
	e.calls++
	e.urls = append(e.urls, url)
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

type mapCache struct {
	entries map[string]string
	getErr  error
	setErr  error
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(_ context.Context, key string) (string, bool, error) {
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func TestResolveSourceURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "drive share link",
			raw:  "https://drive.google.com/file/d/1AbC_xyz/view?usp=sharing",
			want: "https://www.googleapis.com/drive/v3/files/1AbC_xyz?key=test-key&alt=media",
		},
		{
			name: "plain https url passes through",
			raw:  "https://example.com/resume.pdf",
			want: "https://example.com/resume.pdf",
		},
		{
			name:    "relative path rejected",
			raw:     "resume.pdf",
			wantErr: true,
		},
		{
			name:    "missing host rejected",
			raw:     "https://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSourceURL(tt.raw, "test-key")
			if tt.wantErr {
				var srcErr *InvalidSourceError
				require.ErrorAs(t, err, &srcErr)
				assert.Equal(t, tt.raw, srcErr.URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCachedExtractorFetchesOnce(t *testing.T) {
	inner := &countingExtractor{text: "resume body"}
	c := newMapCache()
	ext := NewCachedExtractor(inner, c, time.Hour, "key", discardLogger())

	first, err := ext.ExtractText(context.Background(), "https://example.com/r.pdf")
	require.NoError(t, err)
	second, err := ext.ExtractText(context.Background(), "https://example.com/r.pdf")
	require.NoError(t, err)

	assert.Equal(t, "resume body", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second lookup must be served from cache")
	assert.Contains(t, c.entries, "resume:contents:https://example.com/r.pdf")
}

func TestCachedExtractorPassesResolvedURL(t *testing.T) {
	inner := &countingExtractor{text: "resume body"}
	ext := NewCachedExtractor(inner, newMapCache(), time.Hour, "api-key", discardLogger())

	_, err := ext.ExtractText(context.Background(), "https://drive.google.com/file/d/f123/view")
	require.NoError(t, err)
	require.Len(t, inner.urls, 1)
	assert.Equal(t, "https://www.googleapis.com/drive/v3/files/f123?key=api-key&alt=media", inner.urls[0])
}

func TestCachedExtractorNilCache(t *testing.T) {
	inner := &countingExtractor{text: "resume body"}
	ext := NewCachedExtractor(inner, nil, time.Hour, "key", discardLogger())

	for i := 0; i < 2; i++ {
		text, err := ext.ExtractText(context.Background(), "https://example.com/r.pdf")
		require.NoError(t, err)
		assert.Equal(t, "resume body", text)
	}
	assert.Equal(t, 2, inner.calls)
}

func TestCachedExtractorToleratesCacheFailures(t *testing.T) {
	inner := &countingExtractor{text: "resume body"}
	c := newMapCache()
	c.getErr = errors.New("cache down")
	c.setErr = errors.New("cache down")
	ext := NewCachedExtractor(inner, c, time.Hour, "key", discardLogger())

	text, err := ext.ExtractText(context.Background(), "https://example.com/r.pdf")
	require.NoError(t, err, "cache outages must not fail extraction")
	assert.Equal(t, "resume body", text)
	assert.Equal(t, 1, c.sets)
}

func TestCachedExtractorPropagatesExtractionError(t *testing.T) {
	inner := &countingExtractor{err: errors.New("ocr unavailable")}
	ext := NewCachedExtractor(inner, newMapCache(), time.Hour, "key", discardLogger())

	_, err := ext.ExtractText(context.Background(), "https://example.com/r.pdf")
	require.ErrorContains(t, err, "ocr unavailable")
}

func TestCachedExtractorRejectsBadLocator(t *testing.T) {
	inner := &countingExtractor{text: "never reached"}
	ext := NewCachedExtractor(inner, newMapCache(), time.Hour, "key", discardLogger())

	_, err := ext.ExtractText(context.Background(), "not a url")
	var srcErr *InvalidSourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Zero(t, inner.calls)
}
