package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fittrack/internal/models"
)

func (h *handlers) today(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	now := h.now()

	totals, err := h.ds.DailyTotals(ctx, now)
	if err != nil {
		return nil, err
	}

	targets, err := h.ds.GetNutritionGoals(ctx)
	if err != nil {
		h.log.Warn("today: nutrition goals failed", "error", err)
	}

	daily, err := h.ds.GetDailyGoals(ctx)
	if err != nil {
		h.log.Warn("today: daily goals failed", "error", err)
	}

	var active *activeWorkout
	sess, err := h.ds.ActiveWorkout(ctx)
	if err != nil {
		h.log.Warn("today: active workout failed", "error", err)
	}
	if sess != nil {
		active = &activeWorkout{
			Session:        sess,
			ElapsedSeconds: int64(sess.Elapsed(now).Seconds()),
			Paused:         sess.PausedAt != nil,
		}
	}

	summary := map[string]any{
		"date":           now.Format("2006-01-02"),
		"food_totals":    totals,
		"nutrition":      targets,
		"daily_goals":    withProgress(daily),
		"active_workout": active,
	}

	data, err := json.Marshal(summary)
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

func (h *handlers) templates(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates, err := h.ds.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []models.WorkoutTemplate{}
	}

	data, err := json.Marshal(templates)
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
