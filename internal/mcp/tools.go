package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fittrack/internal/models"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetActiveWorkout = mcp.NewTool("get_active_workout",
	mcp.WithDescription("Get the workout in progress: exercises, planned and actual sets, completion and failure flags, and elapsed time excluding pauses."),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("List workout templates with their exercises and planned sets (reps, weight, rest time)."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Query completed workouts, most recent first. Each entry includes duration, completed and failed set counts, and total volume (weight x reps of completed sets)."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetFoodLog = mcp.NewTool("get_food_log",
	mcp.WithDescription("Get the food entries logged on one day with calorie and macro totals and the daily nutrition targets."),
	mcp.WithString("date", mcp.Description("Day (YYYY-MM-DD). Defaults to today.")),
)

var toolGetGoals = mcp.NewTool("get_goals",
	mcp.WithDescription("List goals with their progress ratio (current / target, clamped to 0..1)."),
	mcp.WithString("scope", mcp.Description("'daily' for active goals covering today, 'all' for every goal. Defaults to 'daily'."), mcp.Enum("daily", "all")),
)

var toolGetNutritionGoals = mcp.NewTool("get_nutrition_goals",
	mcp.WithDescription("Get the daily calorie, protein, carbs and fat targets and the target body weight."),
)

// --- Result shapes ---

type activeWorkout struct {
	Session        *models.Session `json:"session"`
	ElapsedSeconds int64           `json:"elapsed_seconds"`
	Paused         bool            `json:"paused"`
}

type sessionSummary struct {
	ID              string    `json:"id"`
	Template        string    `json:"template"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds int64     `json:"duration_seconds"`
	Exercises       int       `json:"exercises"`
	SetsCompleted   int       `json:"sets_completed"`
	SetsFailed      int       `json:"sets_failed"`
	Volume          float64   `json:"volume"`
}

type goalProgress struct {
	models.Goal
	Progress float64 `json:"progress"`
}

func summarize(sess *models.Session) sessionSummary {
	sum := sessionSummary{
		ID:        sess.ID,
		Template:  sess.Template.Name,
		StartTime: sess.StartTime,
		Exercises: len(sess.Exercises),
	}
	if sess.EndTime != nil {
		sum.DurationSeconds = int64(sess.Elapsed(*sess.EndTime).Seconds())
	}
	for _, ex := range sess.Exercises {
		for _, set := range ex.Sets {
			if set.IsFailure {
				sum.SetsFailed++
			}
			if !set.Completed {
				continue
			}
			sum.SetsCompleted++
			weight, reps := set.Weight, float64(set.Reps)
			if set.ActualWeight != nil {
				weight = *set.ActualWeight
			}
			if set.ActualReps != nil {
				reps = float64(*set.ActualReps)
			}
			sum.Volume += weight * reps
		}
	}
	return sum
}

func withProgress(list []models.Goal) []goalProgress {
	out := make([]goalProgress, len(list))
	for i := range list {
		out[i] = goalProgress{Goal: list[i], Progress: list[i].Progress()}
	}
	return out
}

// parseDay reads a YYYY-MM-DD day in the server's location, defaulting to today.
func (h *handlers) parseDay(s string) (time.Time, error) {
	now := h.now()
	if s == "" {
		return now, nil
	}
	return time.ParseInLocation(time.DateOnly, s, now.Location())
}

// --- Tool handlers ---

func (h *handlers) getActiveWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, err := h.ds.ActiveWorkout(ctx)
	if err != nil {
		h.log.Error("mcp get_active_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if sess == nil {
		return mcp.NewToolResultText("No workout in progress."), nil
	}

	result, err := mcp.NewToolResultJSON(activeWorkout{
		Session:        sess,
		ElapsedSeconds: int64(sess.Elapsed(h.now()).Seconds()),
		Paused:         sess.PausedAt != nil,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := h.ds.ListTemplates(ctx)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(templates)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	history, err := h.ds.History(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	summaries := make([]sessionSummary, 0, len(history))
	for i := range history {
		t := history[i].StartTime
		if t.Before(start) || t.After(end) {
			continue
		}
		summaries = append(summaries, summarize(&history[i]))
	}

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getFoodLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := h.parseDay(req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	entries, err := h.ds.GetFoodEntriesForDate(ctx, day)
	if err != nil {
		h.log.Error("mcp get_food_log entries", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	totals, err := h.ds.DailyTotals(ctx, day)
	if err != nil {
		h.log.Error("mcp get_food_log totals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	targets, err := h.ds.GetNutritionGoals(ctx)
	if err != nil {
		h.log.Warn("mcp get_food_log: nutrition goals failed", "error", err)
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"entries": entries,
		"totals":  totals,
		"targets": targets,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getGoals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		list []models.Goal
		err  error
	)
	switch req.GetString("scope", "daily") {
	case "all":
		list, err = h.ds.GetGoals(ctx)
	case "daily":
		list, err = h.ds.GetDailyGoals(ctx)
	default:
		return mcp.NewToolResultError("scope must be 'daily' or 'all'"), nil
	}
	if err != nil {
		h.log.Error("mcp get_goals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(withProgress(list))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getNutritionGoals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := h.ds.GetNutritionGoals(ctx)
	if err != nil {
		h.log.Error("mcp get_nutrition_goals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(g)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
