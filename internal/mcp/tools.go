package mcp

import (
	"context"
	"time"

	"github.com/claude/gymflow/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetTrainingPlan = mcp.NewTool("get_training_plan",
	mcp.WithDescription("Retrieve the training plan: all workout groups, or one group's exercises with reps, sets, and working weights."),
	mcp.WithString("group", mcp.Description("Workout group name (e.g. 'Falcon', 'stretch'). Omit to list all groups.")),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Query completed workouts, newest first. Each record carries the group label, duration in seconds, and estimated calories. Cardio extensions show as composite labels like 'Falcon + Cardio'."),
	mcp.WithString("group", mcp.Description("Filter by exact group label. Omit for all workouts.")),
	mcp.WithNumber("limit", mcp.Description("Maximum records to return. Defaults to 50.")),
)

var toolGetLastWorkout = mcp.NewTool("get_last_workout",
	mcp.WithDescription("The most recently completed workout group and, per group, the date it was last worked."),
	mcp.WithString("group", mcp.Description("Group to check the last workout date for. Omit to get the overall last completed group.")),
)

var toolEstimateCalories = mcp.NewTool("estimate_calories",
	mcp.WithDescription("Estimate calories burned for a workout label and duration using the per-minute rate table."),
	mcp.WithString("group", mcp.Required(), mcp.Description("Workout group label (composite labels like 'Falcon + Cardio' use the cardio rate)")),
	mcp.WithNumber("duration_sec", mcp.Required(), mcp.Description("Workout duration in seconds")),
)

// --- Tool handlers ---

func (h *handlers) getTrainingPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := req.GetString("group", "")

	if group == "" {
		groups, err := h.ds.AllGroups(ctx)
		if err != nil {
			h.log.Error("mcp get_training_plan", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(groups)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	exercises, err := h.ds.ExercisesInGroup(ctx, group)
	if err != nil {
		h.log.Error("mcp get_training_plan", "group", group, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := req.GetString("group", "")
	limit := req.GetInt("limit", 50)

	records, err := h.ds.QueryHistory(ctx, group)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := req.GetString("group", "")

	if group == "" {
		last, err := h.ds.LastCompletedGroup(ctx)
		if err != nil {
			h.log.Error("mcp get_last_workout", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(map[string]string{"lastCompletedGroup": last})
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	date, err := h.ds.LastWorkoutDate(ctx, group)
	if err != nil {
		h.log.Error("mcp get_last_workout", "group", group, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	out := map[string]any{"group": group}
	if date.IsZero() {
		out["lastWorkout"] = nil
	} else {
		out["lastWorkout"] = date.Format(time.RFC3339)
	}
	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) estimateCalories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("group")
	if err != nil {
		return mcp.NewToolResultError("group parameter is required"), nil
	}
	durationSec, err := req.RequireInt("duration_sec")
	if err != nil {
		return mcp.NewToolResultError("duration_sec parameter is required"), nil
	}
	if durationSec < 0 {
		return mcp.NewToolResultError("duration_sec must not be negative"), nil
	}

	calories := workout.EstimateCalories(group, durationSec)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"group":        group,
		"duration_sec": durationSec,
		"calories":     calories,
		"activity":     workout.ActivityFor(group),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
