// Package mcp exposes the training plan and workout history to MCP clients.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymFlow", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymFlow workout tracker. Query the training plan, completed workout history, and calorie estimates."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTrainingPlan, Handler: h.getTrainingPlan},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetLastWorkout, Handler: h.getLastWorkout},
		server.ServerTool{Tool: toolEstimateCalories, Handler: h.estimateCalories},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTrainingPlan, Handler: h.trainingPlan},
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}
