// Package ai is the HTTP client for the internal ai-service, which handles
// resume text extraction and description enhancement.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go-portfolio-backend/internal/domain"
)

const extractPath = "/api/v1/extract-resume"
const enhancePath = "/api/v1/enhance-description"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// EnhanceRequest mirrors the ai-service enhancement payload. Length is one
// of short/medium/detailed; tones are free-form style hints.
type EnhanceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack,omitempty"`
	Length      string   `json:"length,omitempty"`
	Tones       []string `json:"tones,omitempty"`
}

type enhanceResponse struct {
	Texts []string `json:"texts"`
}

type extractResponse struct {
	Data domain.ResumeData `json:"data"`
}

// ExtractResume uploads the resume file as multipart form data and returns
// the structured fields the ai-service pulled out of it.
func (c *Client) ExtractResume(ctx context.Context, filename string, file []byte) (domain.ResumeData, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return domain.ResumeData{}, err
	}
	if _, err := part.Write(file); err != nil {
		return domain.ResumeData{}, err
	}
	if err := w.Close(); err != nil {
		return domain.ResumeData{}, err
	}

	body, err := c.doWithRetry(ctx, extractPath, w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return domain.ResumeData{}, err
	}

	var out extractResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.ResumeData{}, fmt.Errorf("ai-service returned malformed extraction payload: %w", err)
	}
	return out.Data, nil
}

// EnhanceDescription asks the ai-service for rewritten candidates of a
// project description. The raw generated blob is returned as-is; splitting
// it into variants is the caller's concern.
func (c *Client) EnhanceDescription(ctx context.Context, req EnhanceRequest) ([]string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	body, err := c.doWithRetry(ctx, enhancePath, "application/json", payload)
	if err != nil {
		return nil, err
	}

	var out enhanceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("ai-service returned malformed enhancement payload: %w", err)
	}
	return out.Texts, nil
}

// doWithRetry posts the payload with up to three attempts and exponential
// backoff. Connection errors and 5xx responses are retried; 4xx responses
// are not, since resending the same payload cannot fix them.
func (c *Client) doWithRetry(ctx context.Context, path, contentType string, payload []byte) ([]byte, error) {
	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := time.Duration(1<<(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("ai-service returned status %d", resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("ai-service rejected request with status %d", resp.StatusCode)
		}
	}
	return nil, lastErr
}
