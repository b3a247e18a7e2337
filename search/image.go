package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Laisky/errors/v2"
)

// MaxImageResults caps max_results for image search.
const MaxImageResults = 20

// ImageResult is the normalized image search hit. Optional fields are nil,
// not zero values.
type ImageResult struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	SourceURL    string `json:"source_url"`
	Width        *int   `json:"width"`
	Height       *int   `json:"height"`
}

// ImageClient calls the Serper-style image search upstream, which
// authenticates via the X-API-KEY header.
type ImageClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewImageClient builds the image search client; nil when no key is configured.
func NewImageClient(baseURL, apiKey string, client *http.Client) *ImageClient {
	if apiKey == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageClient{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

type serperImageRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
	Safe  string `json:"safe,omitempty"`
}

type serperImageResponse struct {
	Images []struct {
		Title        string `json:"title"`
		ImageURL     string `json:"imageUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
		Link         string `json:"link"`
		ImageWidth   *int   `json:"imageWidth"`
		ImageHeight  *int   `json:"imageHeight"`
	} `json:"images"`
}

// Execute runs one image search. maxResults is clamped to 1..MaxImageResults.
func (i *ImageClient) Execute(ctx context.Context, query string, maxResults int, safeSearch bool) ([]ImageResult, error) {
	maxResults = clamp(maxResults, 1, MaxImageResults)

	upstream := serperImageRequest{Query: query, Num: maxResults}
	if safeSearch {
		upstream.Safe = "active"
	}
	payload, err := json.Marshal(upstream)
	if err != nil {
		return nil, errors.Wrap(err, "marshal image search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.BaseURL+"/images", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build image search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", i.APIKey)

	resp, err := i.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "image search upstream")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, errors.Errorf("image search upstream status %d: %s", resp.StatusCode, snippet)
	}

	var parsed serperImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode image search response")
	}

	results := make([]ImageResult, 0, len(parsed.Images))
	for _, img := range parsed.Images {
		results = append(results, ImageResult{
			Title:        img.Title,
			URL:          img.ImageURL,
			ThumbnailURL: img.ThumbnailURL,
			SourceURL:    img.Link,
			Width:        img.ImageWidth,
			Height:       img.ImageHeight,
		})
	}
	return results, nil
}
