package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Resource definitions ---

var resTrainingPlan = mcp.NewResource(
	"gymflow://training_plan",
	"Training Plan",
	mcp.WithResourceDescription("The full exercise catalog grouped by workout group"),
	mcp.WithMIMEType("application/json"),
)

var resRecentHistory = mcp.NewResource(
	"gymflow://recent_history",
	"Recent History",
	mcp.WithResourceDescription("The 20 most recent completed workouts"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) trainingPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	groups, err := h.ds.AllGroups(ctx)
	if err != nil {
		return nil, err
	}

	plan := make(map[string]any, len(groups))
	for _, g := range groups {
		exercises, err := h.ds.ExercisesInGroup(ctx, g)
		if err != nil {
			return nil, err
		}
		plan[g] = exercises
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records, err := h.ds.QueryHistory(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(records) > 20 {
		records = records[:20]
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
