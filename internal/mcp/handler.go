package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service       contextService
	defaultUserID string
}

// NewHandler builds a handler. Tools called without user_id act on defaultUserID.
func NewHandler(service contextService, defaultUserID string) *Handler {
	return &Handler{
		service:       service,
		defaultUserID: defaultUserID,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// userID picks the user a tool acts on; an explicit id must be a uuid.
func (h *Handler) userID(requested string) (string, *mcp.CallToolResult) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if h.defaultUserID == "" {
			return "", errorResult("Missing user_id: no default user configured")
		}
		return h.defaultUserID, nil
	}
	if _, err := uuid.Parse(requested); err != nil {
		return "", errorResult("Invalid user_id: expected a UUID")
	}
	return requested, nil
}

// RecentWorkoutsInput is the input for get_recent_workouts.
type RecentWorkoutsInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User id (UUID); defaults to the configured user"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of workouts to return (default 10)"`
}

// GetRecentWorkoutsTool returns the MCP tool handler for get_recent_workouts.
func (h *Handler) GetRecentWorkoutsTool() func(context.Context, *mcp.CallToolRequest, RecentWorkoutsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RecentWorkoutsInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		if in.Limit < 0 {
			return errorResult("Invalid limit: must be positive"), nil, nil
		}
		summaries, err := h.service.RecentWorkouts(ctx, userID, in.Limit)
		if err != nil {
			return errorResult("Error fetching recent workouts: " + err.Error()), nil, nil
		}
		return jsonResult(summaries), nil, nil
	}
}

// WorkoutAnalysisInput is the input for get_workout_analysis.
type WorkoutAnalysisInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User id (UUID); defaults to the configured user"`
	Days   int    `json:"days,omitempty" jsonschema:"Number of days to analyze (default 30)"`
}

// GetWorkoutAnalysisTool returns the MCP tool handler for get_workout_analysis.
func (h *Handler) GetWorkoutAnalysisTool() func(context.Context, *mcp.CallToolRequest, WorkoutAnalysisInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutAnalysisInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		if in.Days < 0 {
			return errorResult("Invalid days: must be positive"), nil, nil
		}
		report, err := h.service.WorkoutAnalysis(ctx, userID, in.Days)
		if err != nil {
			return errorResult("Error analyzing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}

// ExerciseHistoryInput is the input for get_exercise_history.
type ExerciseHistoryInput struct {
	UserID       string `json:"user_id,omitempty" jsonschema:"User id (UUID); defaults to the configured user"`
	ExerciseName string `json:"exercise_name" jsonschema:"Exercise name or part of it (e.g. bench press, squat)"`
	Days         int    `json:"days,omitempty" jsonschema:"Number of days to look back (default 90)"`
}

// GetExerciseHistoryTool returns the MCP tool handler for get_exercise_history.
func (h *Handler) GetExerciseHistoryTool() func(context.Context, *mcp.CallToolRequest, ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseHistoryInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		if strings.TrimSpace(in.ExerciseName) == "" {
			return errorResult("Missing exercise_name"), nil, nil
		}
		if in.Days < 0 {
			return errorResult("Invalid days: must be positive"), nil, nil
		}
		progression, err := h.service.ExerciseHistory(ctx, userID, in.ExerciseName, in.Days)
		if err != nil {
			return errorResult("Error fetching exercise history: " + err.Error()), nil, nil
		}
		return jsonResult(progression), nil, nil
	}
}

// PlateauInput is the input for detect_plateaus.
type PlateauInput struct {
	UserID       string `json:"user_id,omitempty" jsonschema:"User id (UUID); defaults to the configured user"`
	ExerciseName string `json:"exercise_name" jsonschema:"Exercise to analyze (e.g. bench press)"`
}

// DetectPlateausTool returns the MCP tool handler for detect_plateaus.
func (h *Handler) DetectPlateausTool() func(context.Context, *mcp.CallToolRequest, PlateauInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PlateauInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		if strings.TrimSpace(in.ExerciseName) == "" {
			return errorResult("Missing exercise_name"), nil, nil
		}
		report, err := h.service.DetectPlateau(ctx, userID, in.ExerciseName)
		if err != nil {
			return errorResult("Error detecting plateau: " + err.Error()), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}

// UserInput is the input for tools that only need the user.
type UserInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User id (UUID); defaults to the configured user"`
}

// AssessMuscleBalanceTool returns the MCP tool handler for assess_muscle_balance.
func (h *Handler) AssessMuscleBalanceTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		report, err := h.service.MuscleBalance(ctx, userID)
		if err != nil {
			return errorResult("Error assessing muscle balance: " + err.Error()), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}

// HealthMetricsInput is the input for get_health_metrics.
type HealthMetricsInput struct {
	UserID  string   `json:"user_id,omitempty" jsonschema:"User id (UUID); defaults to the configured user"`
	Days    int      `json:"days,omitempty" jsonschema:"Number of days to analyze (default 30)"`
	Metrics []string `json:"metrics,omitempty" jsonschema:"Metrics to report, e.g. steps, weight_lbs, active_calories, exercise_minutes (the default)"`
}

// GetHealthMetricsTool returns the MCP tool handler for get_health_metrics.
func (h *Handler) GetHealthMetricsTool() func(context.Context, *mcp.CallToolRequest, HealthMetricsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in HealthMetricsInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		if in.Days < 0 {
			return errorResult("Invalid days: must be positive"), nil, nil
		}
		report, err := h.service.HealthMetrics(ctx, userID, in.Days, in.Metrics)
		if err != nil {
			return errorResult("Error fetching health metrics: " + err.Error()), nil, nil
		}
		return jsonResult(report), nil, nil
	}
}

// SyncHevyWorkoutsTool returns the MCP tool handler for sync_hevy_workouts.
// A failed sync still reports its counts next to the error.
func (h *Handler) SyncHevyWorkoutsTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		userID, errRes := h.userID(in.UserID)
		if errRes != nil {
			return errRes, nil, nil
		}
		result, err := h.service.SyncHevy(ctx, userID)
		if err != nil {
			if result == nil {
				return errorResult("Error syncing workouts: " + err.Error()), nil, nil
			}
			res := jsonResult(result)
			res.IsError = true
			return res, nil, nil
		}
		return jsonResult(result), nil, nil
	}
}
