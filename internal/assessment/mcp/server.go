package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the assessment tools: schema, results, single result,
// user progress, workout plan, reference metrics.
// Used by the service when mounting MCP at /mcp, and by cmd/formcheck_mcp over stdio.
func NewServer(pool *pgxpool.Pool, assessments AssessmentService) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), assessments)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "formcheck-assessments",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_assessment_schema",
		Description: "Returns the DB schema of the assessment tables: table names, columns, types, nullable, default. Use when you need to know how results are stored.",
	}, h.GetAssessmentSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_assessment_results",
		Description: "Returns the latest exercise assessments of a user, newest first: exercise type, score, grade, report and physical measurements. Args: user_id; optional: limit, include_feedback_history.",
	}, h.GetAssessmentResultsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_assessment",
		Description: "Returns a single assessment by id with its full report (performance, form errors, narrative analysis, attempts). Arg: id; optional: include_feedback_history.",
	}, h.GetAssessmentTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_user_progress",
		Description: "Returns the progress of a user: number of tests, average, best and worst score, latest test time, recent scores and trend (improving, declining, stable). Arg: user_id.",
	}, h.GetUserProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_plan",
		Description: "Returns a training plan (level and recommendations) based on the latest assessment of a user, or on the given one. Args: user_id; optional: result_id.",
	}, h.GetWorkoutPlanTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_reference_metrics",
		Description: "Returns the thresholds (joint angle ranges, phase angles, benchmarks) used to analyze an exercise. Arg: exercise_type (e.g. SQUATS).",
	}, h.GetReferenceMetricsTool())

	return s
}
