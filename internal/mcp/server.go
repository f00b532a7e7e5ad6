package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitTrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitTrack workout and nutrition server. Read the active workout, workout templates and history, the food log with daily nutrition totals, and goal progress. All tools are read-only."),
	)

	h := &handlers{ds: ds, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetActiveWorkout, Handler: h.getActiveWorkout},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetFoodLog, Handler: h.getFoodLog},
		server.ServerTool{Tool: toolGetGoals, Handler: h.getGoals},
		server.ServerTool{Tool: toolGetNutritionGoals, Handler: h.getNutritionGoals},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.today},
		server.ServerResource{Resource: resTemplates, Handler: h.templates},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"fittrack://today",
	"Today",
	mcp.WithResourceDescription("Today's food totals, daily goals with progress, and the workout in progress"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"fittrack://templates",
	"Workout Templates",
	mcp.WithResourceDescription("All saved workout templates with their planned sets"),
	mcp.WithMIMEType("application/json"),
)
