package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/gymflow/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeDataSource struct {
	groups    []string
	exercises map[string][]models.Exercise
	history   []models.WorkoutHistory
	lastGroup string
	lastDate  time.Time
}

func (f *fakeDataSource) AllGroups(ctx context.Context) ([]string, error) {
	return f.groups, nil
}

func (f *fakeDataSource) ExercisesInGroup(ctx context.Context, group string) ([]models.Exercise, error) {
	return f.exercises[group], nil
}

func (f *fakeDataSource) QueryHistory(ctx context.Context, group string) ([]models.WorkoutHistory, error) {
	if group == "" {
		return f.history, nil
	}
	var out []models.WorkoutHistory
	for _, rec := range f.history {
		if rec.Group == group {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeDataSource) LastWorkoutDate(ctx context.Context, group string) (time.Time, error) {
	return f.lastDate, nil
}

func (f *fakeDataSource) LastCompletedGroup(ctx context.Context) (string, error) {
	return f.lastGroup, nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error result: %+v", res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content is not text: %T", res.Content[0])
	}
	return text.Text
}

// TestEstimateCaloriesTool checks the rate table through the tool surface,
// including the composite-label cardio rate.
func TestEstimateCaloriesTool(t *testing.T) {
	h := &handlers{ds: &fakeDataSource{}, log: slog.New(slog.DiscardHandler)}

	res, err := h.estimateCalories(context.Background(), callRequest(map[string]any{
		"group":        "Falcon + Cardio",
		"duration_sec": 1200,
	}))
	if err != nil {
		t.Fatalf("estimateCalories: %v", err)
	}

	var out struct {
		Calories float64 `json:"calories"`
		Activity string  `json:"activity"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Calories != 200.0 {
		t.Errorf("calories = %v, want 200.0", out.Calories)
	}
	if out.Activity != "mixed_cardio" {
		t.Errorf("activity = %q, want mixed_cardio", out.Activity)
	}
}

// TestEstimateCaloriesToolMissingParams verifies required-parameter errors
// come back as tool error results, not transport errors.
func TestEstimateCaloriesToolMissingParams(t *testing.T) {
	h := &handlers{ds: &fakeDataSource{}, log: slog.New(slog.DiscardHandler)}

	res, err := h.estimateCalories(context.Background(), callRequest(map[string]any{
		"duration_sec": 1200,
	}))
	if err != nil {
		t.Fatalf("estimateCalories: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for missing group")
	}
}

// TestGetWorkoutHistoryLimit verifies the limit parameter truncates the
// newest-first record list.
func TestGetWorkoutHistoryLimit(t *testing.T) {
	cal := 100.0
	ds := &fakeDataSource{}
	for i := 0; i < 5; i++ {
		ds.history = append(ds.history, models.WorkoutHistory{
			ID: string(rune('a' + i)), Group: "Falcon",
			Date: time.Now(), TimeElapsed: 600, CaloriesBurned: &cal,
		})
	}
	h := &handlers{ds: ds, log: slog.New(slog.DiscardHandler)}

	res, err := h.getWorkoutHistory(context.Background(), callRequest(map[string]any{
		"limit": 2,
	}))
	if err != nil {
		t.Fatalf("getWorkoutHistory: %v", err)
	}

	var records []models.WorkoutHistory
	if err := json.Unmarshal([]byte(resultText(t, res)), &records); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2", len(records))
	}
}

// TestGetTrainingPlanGroupListing verifies the no-argument form lists
// groups.
func TestGetTrainingPlanGroupListing(t *testing.T) {
	ds := &fakeDataSource{groups: []string{"Falcon", "stretch"}}
	h := &handlers{ds: ds, log: slog.New(slog.DiscardHandler)}

	res, err := h.getTrainingPlan(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getTrainingPlan: %v", err)
	}

	var groups []string
	if err := json.Unmarshal([]byte(resultText(t, res)), &groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 2 || groups[0] != "Falcon" {
		t.Errorf("groups = %v", groups)
	}
}

// TestGetLastWorkoutOverall verifies the overall last-completed-group form.
func TestGetLastWorkoutOverall(t *testing.T) {
	ds := &fakeDataSource{lastGroup: "Trident"}
	h := &handlers{ds: ds, log: slog.New(slog.DiscardHandler)}

	res, err := h.getLastWorkout(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getLastWorkout: %v", err)
	}

	var out map[string]string
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["lastCompletedGroup"] != "Trident" {
		t.Errorf("lastCompletedGroup = %q, want Trident", out["lastCompletedGroup"])
	}
}
