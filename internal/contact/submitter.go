package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RejectedError is returned when the endpoint answers with a non-2xx status.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("contact endpoint returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPSubmitter posts the form as JSON to Endpoint.
type HTTPSubmitter struct {
	Endpoint  string
	Client    *http.Client
	UserAgent string
}

// NewHTTPSubmitter returns a submitter with its own client and timeout.
func NewHTTPSubmitter(endpoint string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

// Submit sends exactly one POST request. Any 2xx response is success.
func (s *HTTPSubmitter) Submit(ctx context.Context, data FormData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode contact form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build contact request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post contact form: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{StatusCode: resp.StatusCode}
	}
	return nil
}
