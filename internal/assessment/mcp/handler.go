package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
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

// GetAssessmentSchemaTool returns the MCP tool handler for get_assessment_schema.
func (h *Handler) GetAssessmentSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// ResultsInput is the input for get_assessment_results.
type ResultsInput struct {
	UserID                 string `json:"user_id" jsonschema:"User identifier"`
	Limit                  int    `json:"limit,omitempty" jsonschema:"Maximum number of results, newest first (default 10, max 100)"`
	IncludeFeedbackHistory bool   `json:"include_feedback_history,omitempty" jsonschema:"Include the per frame feedback history of each report"`
}

// GetAssessmentResultsTool returns the MCP tool handler for get_assessment_results.
func (h *Handler) GetAssessmentResultsTool() func(context.Context, *mcp.CallToolRequest, ResultsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ResultsInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("Missing user_id"), nil, nil
		}
		results, err := h.service.ListResults(ctx, in.UserID, in.Limit, in.IncludeFeedbackHistory)
		if err != nil {
			return errorResult("Error listing results: " + err.Error()), nil, nil
		}
		return jsonResult(results), nil, nil
	}
}

// ResultInput is the input for get_assessment.
type ResultInput struct {
	ID                     string `json:"id" jsonschema:"Assessment result id (uuid)"`
	IncludeFeedbackHistory bool   `json:"include_feedback_history,omitempty" jsonschema:"Include the per frame feedback history of the report"`
}

// GetAssessmentTool returns the MCP tool handler for get_assessment.
func (h *Handler) GetAssessmentTool() func(context.Context, *mcp.CallToolRequest, ResultInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ResultInput) (*mcp.CallToolResult, any, error) {
		if in.ID == "" {
			return errorResult("Missing id"), nil, nil
		}
		result, err := h.service.GetResult(ctx, in.ID, in.IncludeFeedbackHistory)
		if err != nil {
			return errorResult("Error fetching assessment: " + err.Error()), nil, nil
		}
		return jsonResult(result), nil, nil
	}
}

// UserInput is the input for get_user_progress.
type UserInput struct {
	UserID string `json:"user_id" jsonschema:"User identifier"`
}

// GetUserProgressTool returns the MCP tool handler for get_user_progress.
func (h *Handler) GetUserProgressTool() func(context.Context, *mcp.CallToolRequest, UserInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in UserInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("Missing user_id"), nil, nil
		}
		stats, err := h.service.GetUserProgress(ctx, in.UserID)
		if err != nil {
			return errorResult("Error fetching user progress: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

// WorkoutPlanInput is the input for get_workout_plan.
type WorkoutPlanInput struct {
	UserID   string `json:"user_id" jsonschema:"User identifier"`
	ResultID string `json:"result_id,omitempty" jsonschema:"Base the plan on this result instead of the latest one"`
}

// GetWorkoutPlanTool returns the MCP tool handler for get_workout_plan.
func (h *Handler) GetWorkoutPlanTool() func(context.Context, *mcp.CallToolRequest, WorkoutPlanInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutPlanInput) (*mcp.CallToolResult, any, error) {
		if in.UserID == "" {
			return errorResult("Missing user_id"), nil, nil
		}
		plan, err := h.service.GetWorkoutPlan(ctx, in.UserID, in.ResultID)
		if err != nil {
			return errorResult("Error generating workout plan: " + err.Error()), nil, nil
		}
		return jsonResult(plan), nil, nil
	}
}

// ReferenceMetricsInput is the input for get_reference_metrics.
type ReferenceMetricsInput struct {
	ExerciseType string `json:"exercise_type" jsonschema:"Exercise type, e.g. SQUATS, PUSHUPS, VERTICAL_JUMP"`
}

// GetReferenceMetricsTool returns the MCP tool handler for get_reference_metrics.
func (h *Handler) GetReferenceMetricsTool() func(context.Context, *mcp.CallToolRequest, ReferenceMetricsInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in ReferenceMetricsInput) (*mcp.CallToolResult, any, error) {
		ref, err := h.service.GetReferenceMetrics(in.ExerciseType)
		if err != nil {
			return errorResult("Error fetching reference metrics: " + err.Error()), nil, nil
		}
		return jsonResult(ref), nil, nil
	}
}
