// Package fetch downloads remote images for the URL-based flows.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"imagesense/internal/platform/errors"
)

const userAgent = "ImageSense-Vision/1.0"

// Fetcher downloads images over HTTP with a size cap.
type Fetcher struct {
	client  *http.Client
	maxSize int64
}

// NewFetcher builds a fetcher. maxSize bounds the downloaded payload.
func NewFetcher(maxSize int64) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		maxSize: maxSize,
	}
}

// Fetch downloads url and returns the payload. Non-200 responses,
// non-image content types and oversized payloads are rejected.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindValidation, "fetch.Fetch", "invalid image URL", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, "fetch.Fetch", "failed to download image", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.KindNetwork, "fetch.Fetch", "unexpected status: "+resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !validImageContentType(contentType) {
		return nil, errors.New(errors.KindValidation, "fetch.Fetch", "URL does not point to an image: "+contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, "fetch.Fetch", "failed to read image payload", err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, errors.New(errors.KindValidation, "fetch.Fetch", "image exceeds the size limit")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.KindValidation, "fetch.Fetch", "downloaded image is empty")
	}
	return data, nil
}

func validImageContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	// some hosts serve images as a bare octet stream
	return contentType == "application/octet-stream"
}
