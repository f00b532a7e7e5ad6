package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/meltforce/fittrack/internal/models"
)

// HTTPClient implements DataSource by calling the FitTrack REST API.
// Used for stdio MCP mode where the binary runs locally but data lives on
// the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func dayParams(day time.Time) url.Values {
	v := url.Values{}
	v.Set("date", day.Format(time.DateOnly))
	return v
}

func (c *HTTPClient) ActiveWorkout(ctx context.Context) (*models.Session, error) {
	var sess *models.Session
	if err := c.get(ctx, "/api/v1/workout/active", nil, &sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (c *HTTPClient) ListTemplates(ctx context.Context) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	if err := c.get(ctx, "/api/v1/templates", nil, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

func (c *HTTPClient) History(ctx context.Context) ([]models.Session, error) {
	var history []models.Session
	if err := c.get(ctx, "/api/v1/workouts/history", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *HTTPClient) GetFoodEntriesForDate(ctx context.Context, day time.Time) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	if err := c.get(ctx, "/api/v1/food", dayParams(day), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) DailyTotals(ctx context.Context, day time.Time) (models.NutritionTotals, error) {
	var totals models.NutritionTotals
	err := c.get(ctx, "/api/v1/food/totals", dayParams(day), &totals)
	return totals, err
}

func (c *HTTPClient) GetGoals(ctx context.Context) ([]models.Goal, error) {
	var list []models.Goal
	if err := c.get(ctx, "/api/v1/goals", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetDailyGoals(ctx context.Context) ([]models.Goal, error) {
	var list []models.Goal
	if err := c.get(ctx, "/api/v1/goals/daily", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetNutritionGoals(ctx context.Context) (models.NutritionGoals, error) {
	var g models.NutritionGoals
	err := c.get(ctx, "/api/v1/goals/nutrition", nil, &g)
	return g, err
}
