// Package health mirrors completed workouts to an external health-data
// gateway. Everything here is best-effort: the session core treats a failed
// or unauthorized sink as a logged non-event, never as a blocking error.
package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/gymflow/internal/workout"
)

// workoutSummary is the gateway's save payload. The activity category is
// derived from the group label with the same rules as the calorie table.
type workoutSummary struct {
	ActivityType string  `json:"activity_type"`
	Label        string  `json:"label"`
	DurationSec  int     `json:"duration_sec"`
	Calories     float64 `json:"calories"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
}

// Client sends workout summaries to the health gateway over HTTP.
type Client struct {
	gatewayURL string
	httpClient *http.Client
}

// Compile-time check: Client satisfies the session core's sink contract.
var _ workout.HealthSink = (*Client)(nil)

// NewClient creates a client for the given gateway base URL.
func NewClient(gatewayURL string) *Client {
	return &Client{
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RequestAuthorization asks the gateway whether workout writes are
// permitted. Denial and unreachability both report false — common,
// expected outcomes, not errors.
func (c *Client) RequestAuthorization(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gatewayURL+"/api/v1/authorization", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var status struct {
		Authorized bool `json:"authorized"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false
	}
	return status.Authorized
}

// SaveWorkout POSTs a workout summary. The workout is backdated so its span
// covers the session: start = now − duration.
func (c *Client) SaveWorkout(ctx context.Context, label string, durationSeconds int) error {
	end := time.Now()
	start := end.Add(-time.Duration(durationSeconds) * time.Second)

	summary := workoutSummary{
		ActivityType: string(workout.ActivityFor(label)),
		Label:        label,
		DurationSec:  durationSeconds,
		Calories:     workout.EstimateCalories(label, durationSeconds),
		StartTime:    start.Format(time.RFC3339),
		EndTime:      end.Format(time.RFC3339),
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshaling workout summary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.gatewayURL+"/api/v1/workouts", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("saving workout: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway rejected workout (status %d): %s", resp.StatusCode, body)
	}
	return nil
}

// Disabled is the sink used when no gateway is configured. Saves succeed
// silently and authorization always reports false.
type Disabled struct{}

var _ workout.HealthSink = Disabled{}

func (Disabled) RequestAuthorization(context.Context) bool { return false }

func (Disabled) SaveWorkout(context.Context, string, int) error { return nil }
