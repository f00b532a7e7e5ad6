// Package recognition calls the remote food image-recognition endpoint.
package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrMissingAPIKey     = errors.New("image recognition API key is not set")
	ErrInvalidAPIKey     = errors.New("invalid image recognition API key")
	ErrRecognitionFailed = errors.New("food recognition failed")
)

// KeySource supplies the API key at call time, so a key saved by the user
// takes effect without a restart.
type KeySource interface {
	GetAPIKey(ctx context.Context) (string, error)
}

// Nutrition is the nutrition block of a recognition response.
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
	Confidence    float64 `json:"confidence"`
}

// Result is a recognized food item.
type Result struct {
	Name      string    `json:"name"`
	Nutrition Nutrition `json:"nutrition"`
}

// Client posts base64 images to the recognition endpoint.
type Client struct {
	endpoint   string
	keys       KeySource
	httpClient *http.Client
}

// NewClient creates a Client for endpoint.
func NewClient(endpoint string, keys KeySource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		keys:       keys,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Recognize identifies the food in image. There is no retry; callers repeat
// the request themselves.
func (c *Client) Recognize(ctx context.Context, image []byte) (*Result, error) {
	key, err := c.keys.GetAPIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading API key: %w", err)
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrRecognitionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrRecognitionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidAPIKey
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRecognitionFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrRecognitionFailed, err)
	}
	if strings.TrimSpace(result.Name) == "" {
		return nil, fmt.Errorf("%w: no food recognized", ErrRecognitionFailed)
	}
	return &result, nil
}
